package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/octobees/restaurant-finder/api/internal/logging"
)

// RequestID reuses the caller's X-Request-ID or generates one, echoes it on the response,
// and attaches a logger tagged with it to the request context.
func RequestID(base *zap.Logger) echo.MiddlewareFunc {
	if base == nil {
		base = zap.L()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(HeaderRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}

			c.Set(ContextKeyRequestID, rid)
			c.Response().Header().Set(HeaderRequestID, rid)

			ctx := logging.WithContext(c.Request().Context(), base.With(zap.String("request_id", rid)))
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequestIDFromContext extracts the request identifier if available.
func RequestIDFromContext(c echo.Context) string {
	if val, ok := c.Get(ContextKeyRequestID).(string); ok {
		return val
	}
	return ""
}
