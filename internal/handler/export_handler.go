package handler

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/adityar2309/Vehicle-Parking-App/internal/errors"
	"github.com/adityar2309/Vehicle-Parking-App/internal/service"
)

// ExportHandler handles CSV export endpoints.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// RequestExport godoc
// @Summary Queue a CSV export of the caller's parking history
// @Tags export
// @Produce json
// @Security BearerAuth
// @Success 202 {object} model.ExportJob
// @Failure 409 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /export/reservations [post]
func (h *ExportHandler) RequestExport(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	job, err := h.exportService.RequestExport(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusAccepted, job)
}

// Status godoc
// @Summary Get the status of an export job
// @Tags export
// @Produce json
// @Security BearerAuth
// @Param job_id path string true "Export job ID"
// @Success 200 {object} model.ExportJob
// @Failure 404 {object} errors.ErrorResponse
// @Router /export/status/{job_id} [get]
func (h *ExportHandler) Status(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	job, err := h.exportService.GetStatus(c.Request().Context(), claims.UserID, c.Param("job_id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, job)
}

// Cancel godoc
// @Summary Cancel a pending or processing export job
// @Tags export
// @Produce json
// @Security BearerAuth
// @Param job_id path string true "Export job ID"
// @Success 200 {object} model.ExportJob
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /export/cancel/{job_id} [post]
func (h *ExportHandler) Cancel(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	job, err := h.exportService.Cancel(c.Request().Context(), claims.UserID, c.Param("job_id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, job)
}

// History godoc
// @Summary List the caller's recent export jobs
// @Tags export
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.ExportJob
// @Router /export/history [get]
func (h *ExportHandler) History(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	exportJobs, err := h.exportService.ListJobs(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, exportJobs)
}

// Download godoc
// @Summary Download a completed export file
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Param job_id path string true "Export job ID"
// @Success 200 {file} file
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 410 {object} errors.ErrorResponse
// @Router /export/download/{job_id} [get]
func (h *ExportHandler) Download(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	path, err := h.exportService.ResolveDownload(c.Request().Context(), claims.UserID, c.Param("job_id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.Attachment(path, filepath.Base(path))
}
