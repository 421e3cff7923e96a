package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrLotNotFound is returned when a parking lot is not found.
	ErrLotNotFound = errors.New("parking lot not found")
	// ErrSpotNotFound is returned when a parking spot is not found.
	ErrSpotNotFound = errors.New("parking spot not found")
	// ErrExportJobNotFound is returned when an export job is not found.
	ErrExportJobNotFound = errors.New("export job not found")

	// ErrInvalidInput is returned for malformed or missing required fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrVehicleNumberRequired is returned when a booking omits the vehicle number.
	ErrVehicleNumberRequired = errors.New("vehicle number is required")
	// ErrInvalidPrice is returned when a lot price is not positive.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrInvalidSpotCount is returned when a spot count is not positive.
	ErrInvalidSpotCount = errors.New("number of spots must be positive")

	// ErrAlreadyActive is returned when the user already has an open reservation.
	ErrAlreadyActive = errors.New("you already have an active parking reservation")
	// ErrLotFull is returned when no spot in the lot is available.
	ErrLotFull = errors.New("no available spots in this parking lot")
	// ErrNoActiveReservation is returned when release finds no open reservation.
	ErrNoActiveReservation = errors.New("no active parking reservation found")
	// ErrHasOccupiedSpots is returned when a shrink or delete would touch occupied spots.
	ErrHasOccupiedSpots = errors.New("parking lot has occupied spots")
	// ErrExportPending is returned when the user already has a pending export job.
	ErrExportPending = errors.New("you already have a pending export request")
	// ErrExportNotCancellable is returned when cancelling a job that already finished.
	ErrExportNotCancellable = errors.New("export job can no longer be cancelled")
	// ErrExportNotReady is returned when downloading a job that has not completed.
	ErrExportNotReady = errors.New("export is not ready for download")
	// ErrExportExpired is returned when the export file is past its expiry time.
	ErrExportExpired = errors.New("export download has expired")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Missing entities and bad
// input map to 4xx, business-rule rejections map to 409, and anything
// unexpected is reported as a generic internal error.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrLotNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "LOT_NOT_FOUND")
	case errors.Is(err, ErrSpotNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "SPOT_NOT_FOUND")
	case errors.Is(err, ErrExportJobNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "EXPORT_JOB_NOT_FOUND")
	case errors.Is(err, ErrVehicleNumberRequired),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrInvalidSpotCount),
		errors.Is(err, ErrInvalidInput):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	case errors.Is(err, ErrAlreadyActive):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_ACTIVE")
	case errors.Is(err, ErrLotFull):
		return NewHTTPError(http.StatusConflict, err.Error(), "LOT_FULL")
	case errors.Is(err, ErrNoActiveReservation):
		return NewHTTPError(http.StatusConflict, err.Error(), "NO_ACTIVE_RESERVATION")
	case errors.Is(err, ErrHasOccupiedSpots):
		return NewHTTPError(http.StatusConflict, err.Error(), "HAS_OCCUPIED_SPOTS")
	case errors.Is(err, ErrExportPending):
		return NewHTTPError(http.StatusConflict, err.Error(), "EXPORT_PENDING")
	case errors.Is(err, ErrExportNotCancellable):
		return NewHTTPError(http.StatusConflict, err.Error(), "EXPORT_NOT_CANCELLABLE")
	case errors.Is(err, ErrExportNotReady):
		return NewHTTPError(http.StatusConflict, err.Error(), "EXPORT_NOT_READY")
	case errors.Is(err, ErrExportExpired):
		return NewHTTPError(http.StatusGone, err.Error(), "EXPORT_EXPIRED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
