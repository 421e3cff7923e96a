package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/adityar2309/Vehicle-Parking-App/internal/errors"
	"github.com/adityar2309/Vehicle-Parking-App/internal/service"
)

// LotHandler handles the admin parking lot endpoints.
type LotHandler struct {
	lotService  service.LotService
	userService service.UserService
}

// NewLotHandler creates a new lot handler.
func NewLotHandler(lotService service.LotService, userService service.UserService) *LotHandler {
	return &LotHandler{lotService: lotService, userService: userService}
}

// CreateLotRequest represents a lot creation request.
type CreateLotRequest struct {
	PrimeLocationName string `json:"prime_location_name" validate:"required"`
	Address           string `json:"address" validate:"required"`
	PinCode           string `json:"pin_code" validate:"required"`
	NumberOfSpots     int    `json:"number_of_spots" validate:"required,min=1"`
	Price             string `json:"price" validate:"required"`
}

// UpdateLotRequest represents a partial lot update. Omitted fields are left
// unchanged; number_of_spots triggers a resize.
type UpdateLotRequest struct {
	PrimeLocationName *string `json:"prime_location_name"`
	Address           *string `json:"address"`
	PinCode           *string `json:"pin_code"`
	NumberOfSpots     *int    `json:"number_of_spots"`
	Price             *string `json:"price"`
}

func lotIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid lot id",
			Code:  "INVALID_LOT_ID",
		})
	}
	return uint(id), nil
}

// CreateLot godoc
// @Summary Create a parking lot with numbered spots
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLotRequest true "Lot data"
// @Success 201 {object} model.LotSummary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/lots [post]
func (h *LotHandler) CreateLot(c echo.Context) error {
	var req CreateLotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid price",
			Code:  "INVALID_PRICE",
		})
	}

	lot, err := h.lotService.CreateLot(c.Request().Context(), service.CreateLotInput{
		PrimeLocationName: req.PrimeLocationName,
		Address:           req.Address,
		PinCode:           req.PinCode,
		NumberOfSpots:     req.NumberOfSpots,
		Price:             price,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, lot)
}

// UpdateLot godoc
// @Summary Update a parking lot, resizing its spots if requested
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Param request body UpdateLotRequest true "Fields to update"
// @Success 200 {object} model.LotSummary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/lots/{id} [put]
func (h *LotHandler) UpdateLot(c echo.Context) error {
	lotID, err := lotIDParam(c)
	if err != nil {
		return err
	}

	var req UpdateLotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	input := service.UpdateLotInput{
		PrimeLocationName: req.PrimeLocationName,
		Address:           req.Address,
		PinCode:           req.PinCode,
		NumberOfSpots:     req.NumberOfSpots,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid price",
				Code:  "INVALID_PRICE",
			})
		}
		input.Price = &price
	}

	lot, err := h.lotService.UpdateLot(c.Request().Context(), lotID, input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, lot)
}

// DeleteLot godoc
// @Summary Delete a parking lot with no occupied spots
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/lots/{id} [delete]
func (h *LotHandler) DeleteLot(c echo.Context) error {
	lotID, err := lotIDParam(c)
	if err != nil {
		return err
	}

	if err := h.lotService.DeleteLot(c.Request().Context(), lotID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "lot deleted"})
}

// GetLot godoc
// @Summary Get a parking lot with live availability counts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Success 200 {object} model.LotSummary
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/lots/{id} [get]
func (h *LotHandler) GetLot(c echo.Context) error {
	lotID, err := lotIDParam(c)
	if err != nil {
		return err
	}

	lot, err := h.lotService.GetLot(c.Request().Context(), lotID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, lot)
}

// ListLots godoc
// @Summary List all parking lots with availability counts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.LotSummary
// @Router /admin/lots [get]
func (h *LotHandler) ListLots(c echo.Context) error {
	lots, err := h.lotService.ListLots(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, lots)
}

// ListSpots godoc
// @Summary List a lot's spots with their current occupants
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lot ID"
// @Success 200 {array} service.SpotDetail
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/lots/{id}/spots [get]
func (h *LotHandler) ListSpots(c echo.Context) error {
	lotID, err := lotIDParam(c)
	if err != nil {
		return err
	}

	spots, err := h.lotService.ListSpots(c.Request().Context(), lotID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, spots)
}

// AdminDashboard godoc
// @Summary System-wide statistics for the admin dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.AdminDashboard
// @Router /admin/dashboard [get]
func (h *LotHandler) AdminDashboard(c echo.Context) error {
	dashboard, err := h.userService.AdminDashboard(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, dashboard)
}

// ListUsers godoc
// @Summary List all registered users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Router /admin/users [get]
func (h *LotHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, users)
}
