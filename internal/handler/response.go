package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/restaurant-finder/api/internal/dto"
	"github.com/octobees/restaurant-finder/api/internal/logging"
	"github.com/octobees/restaurant-finder/api/internal/validation"
)

// APIResponse describes the envelope used by the operational endpoints.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, APIResponse{
		Status:  "error",
		Message: message,
	})
}

// ValidationFailed answers 400 with one entry per rejected field.
func ValidationFailed(c echo.Context, errs validation.Errors) error {
	return c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{Error: errs})
}

// Health reports liveness.
func Health(c echo.Context) error {
	return Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
}

// ErrorHandler renders errors that escape handlers (unknown routes, wrong methods,
// recovered panics) in the shared envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled error", zap.Error(err))
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = Error(c, status, message)
	}
	if writeErr != nil {
		logging.FromContext(c.Request().Context()).Warn("write error response", zap.Error(writeErr))
	}
}
