package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/restaurant-finder/api/internal/metrics"
)

// Metrics records request counts and latencies. Scrapes and health checks are not counted.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			if path == metrics.Path || path == "/healthz" {
				return next(c)
			}

			start := time.Now()
			metrics.RecordRequestStart()
			err := next(c)

			status := c.Response().Status
			// The error handler writes the response after this middleware returns.
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			metrics.RecordRequestFinish(c.Request().Method, path, strconv.Itoa(status), time.Since(start).Seconds())
			return err
		}
	}
}
