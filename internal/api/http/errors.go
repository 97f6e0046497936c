package httpapi

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// apiError is an error with a stable machine-readable code.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string { return e.message }

func newAPIError(status int, code, message string) *apiError {
	return &apiError{status: status, code: code, message: message}
}

func badRequest(err error) *apiError {
	return newAPIError(fiber.StatusBadRequest, "invalid_request", err.Error())
}

// domainError maps service errors to HTTP responses. Every domain failure
// reaches the client with an explicit code.
func domainError(err error) error {
	var status int
	var code string

	switch {
	case errors.Is(err, store.ErrNotFound):
		status, code = fiber.StatusNotFound, "session_not_found"
	case errors.Is(err, location.ErrNoResults):
		status, code = fiber.StatusNotFound, "no_results"
	case errors.Is(err, location.ErrGeolocationUnavailable):
		status, code = fiber.StatusUnprocessableEntity, "geolocation_unavailable"
	case errors.Is(err, location.ErrEmptyQuery),
		errors.Is(err, location.ErrInvalidCoordinates),
		errors.Is(err, location.ErrInvalidCandidate),
		errors.Is(err, weather.ErrUnknownShortcut):
		status, code = fiber.StatusBadRequest, "invalid_request"
	case errors.Is(err, weather.ErrNoLocation):
		status, code = fiber.StatusConflict, "no_location"
	case errors.Is(err, weather.ErrSuperseded):
		status, code = fiber.StatusConflict, "superseded"
	case errors.Is(err, location.ErrSearchFailed):
		status, code = fiber.StatusBadGateway, "search_failed"
	case errors.Is(err, weather.ErrForecastFetch):
		status, code = fiber.StatusBadGateway, "forecast_fetch_failed"
	default:
		log.Printf("ERROR: unhandled service error: %v", err)
		return newAPIError(fiber.StatusInternalServerError, "internal_error", "internal error")
	}
	return newAPIError(status, code, err.Error())
}

// ErrorHandler renders every error as {"error": true, "code": ..., "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := "internal_error"
	status := fiber.StatusInternalServerError

	var ae *apiError
	var fe *fiber.Error
	switch {
	case errors.As(err, &ae):
		status, code = ae.status, ae.code
	case errors.As(err, &fe):
		status = fe.Code
		if status < fiber.StatusInternalServerError {
			code = "invalid_request"
		}
		if status == fiber.StatusNotFound {
			code = "not_found"
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   true,
		"code":    code,
		"message": err.Error(),
	})
}
