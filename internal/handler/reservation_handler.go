package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/adityar2309/Vehicle-Parking-App/internal/errors"
	"github.com/adityar2309/Vehicle-Parking-App/internal/service"
)

// ReservationHandler handles the user-facing booking endpoints.
type ReservationHandler struct {
	reservationService service.ReservationService
	lotService         service.LotService
	userService        service.UserService
}

// NewReservationHandler creates a new reservation handler.
func NewReservationHandler(
	reservationService service.ReservationService,
	lotService service.LotService,
	userService service.UserService,
) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		lotService:         lotService,
		userService:        userService,
	}
}

// BookRequest represents a booking request.
type BookRequest struct {
	LotID         uint   `json:"lot_id" validate:"required,min=1"`
	VehicleNumber string `json:"vehicle_number" validate:"required"`
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// Book godoc
// @Summary Book the lowest-numbered available spot in a lot
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BookRequest true "Booking data"
// @Success 201 {object} model.ReservationDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /user/reservations [post]
func (h *ReservationHandler) Book(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reservation, err := h.reservationService.Book(c.Request().Context(), claims.UserID, req.LotID, req.VehicleNumber)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, reservation)
}

// Release godoc
// @Summary Release the caller's active reservation and compute its cost
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ReservationDetail
// @Failure 409 {object} errors.ErrorResponse
// @Router /user/reservations/release [post]
func (h *ReservationHandler) Release(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	reservation, err := h.reservationService.Release(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, reservation)
}

// Current godoc
// @Summary Get the caller's active reservation
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ReservationDetail
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/reservations/current [get]
func (h *ReservationHandler) Current(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	reservation, err := h.reservationService.GetActiveReservation(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, reservation)
}

// History godoc
// @Summary List the caller's reservations, newest first
// @Tags user
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(10)
// @Success 200 {object} service.ReservationPage
// @Router /user/reservations [get]
func (h *ReservationHandler) History(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 0)

	history, err := h.reservationService.ListReservations(c.Request().Context(), claims.UserID, page, pageSize)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, history)
}

// AvailableLots godoc
// @Summary List lots with at least one available spot
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.LotSummary
// @Router /user/lots [get]
func (h *ReservationHandler) AvailableLots(c echo.Context) error {
	lots, err := h.lotService.ListAvailableLots(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, lots)
}

// Dashboard godoc
// @Summary Personal statistics for the user dashboard
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.UserDashboard
// @Router /user/dashboard [get]
func (h *ReservationHandler) Dashboard(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	dashboard, err := h.userService.UserDashboard(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, dashboard)
}

// Activity godoc
// @Summary List the caller's activity log entries
// @Tags user
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by activity type"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} service.ActivityPage
// @Router /user/activity [get]
func (h *ReservationHandler) Activity(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 0)

	activity, err := h.userService.ListActivity(c.Request().Context(), claims.UserID, c.QueryParam("type"), page, pageSize)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, activity)
}
