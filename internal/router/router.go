package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/adityar2309/Vehicle-Parking-App/internal/auth"
	"github.com/adityar2309/Vehicle-Parking-App/internal/config"
	"github.com/adityar2309/Vehicle-Parking-App/internal/handler"
	"github.com/adityar2309/Vehicle-Parking-App/internal/model"
)

// Register wires routes and middleware. Admin endpoints live under
// /api/admin, the self-service endpoints under /api/user and /api/export;
// the role claim in the access token gates the groups.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	lotHandler *handler.LotHandler,
	reservationHandler *handler.ReservationHandler,
	exportHandler *handler.ExportHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/auth/me", authHandler.Me)

	// Admin routes
	admin := secured.Group("/admin", requireRole(model.RoleAdmin))
	admin.GET("/dashboard", lotHandler.AdminDashboard)
	admin.GET("/users", lotHandler.ListUsers)
	admin.POST("/lots", lotHandler.CreateLot)
	admin.GET("/lots", lotHandler.ListLots)
	admin.GET("/lots/:id", lotHandler.GetLot)
	admin.PUT("/lots/:id", lotHandler.UpdateLot)
	admin.DELETE("/lots/:id", lotHandler.DeleteLot)
	admin.GET("/lots/:id/spots", lotHandler.ListSpots)

	// User routes
	user := secured.Group("/user", requireRole(model.RoleUser))
	user.GET("/lots", reservationHandler.AvailableLots)
	user.POST("/reservations", reservationHandler.Book)
	user.POST("/reservations/release", reservationHandler.Release)
	user.GET("/reservations/current", reservationHandler.Current)
	user.GET("/reservations", reservationHandler.History)
	user.GET("/dashboard", reservationHandler.Dashboard)
	user.GET("/activity", reservationHandler.Activity)

	// Export routes
	export := secured.Group("/export", requireRole(model.RoleUser))
	export.POST("/reservations", exportHandler.RequestExport)
	export.GET("/history", exportHandler.History)
	export.GET("/status/:job_id", exportHandler.Status)
	export.POST("/cancel/:job_id", exportHandler.Cancel)
	export.GET("/download/:job_id", exportHandler.Download)
}

// requireRole rejects requests whose access token carries a different role.
func requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok || claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
