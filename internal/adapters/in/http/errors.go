package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps an error returned by a handler to its HTTP status.
// A concurrency conflict unwraps to ErrTransitionDenied and lands on 409.
func statusFor(err error) int {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrAllocation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrTransitionDenied):
		return http.StatusConflict
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, ports.ErrExtractionUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorHandler is installed as echo's HTTPErrorHandler. Internal errors are
// logged and answered with a generic message.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := statusFor(err)
		message := err.Error()
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &httpErr):
			message = http.StatusText(code)
			if m, ok := httpErr.Message.(string); ok {
				message = m
			}
		case code == http.StatusUnauthorized:
			message = "Authentication required"
		case code == http.StatusInternalServerError:
			logger.ErrorContext(c.Request().Context(), "Request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
			message = "Internal server error"
		}

		var respErr error
		if c.Request().Method == http.MethodHead {
			respErr = c.NoContent(code)
		} else {
			respErr = c.JSON(code, Error{Code: code, Message: message})
		}
		if respErr != nil {
			logger.Error("Failed to write error response", "error", respErr)
		}
	}
}
