package router

import (
	"github.com/labstack/echo/v4"

	"github.com/octobees/restaurant-finder/api/internal/handler"
	"github.com/octobees/restaurant-finder/api/internal/metrics"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Search *handler.SearchHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, handlers Handlers) {
	e.GET("/healthz", handler.Health)
	e.GET(metrics.Path, echo.WrapHandler(metrics.Handler()))

	api := e.Group("/api")
	api.POST("/execute", handlers.Search.Execute)
}
