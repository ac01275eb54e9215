package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octobees/restaurant-finder/api/internal/config"
	"github.com/octobees/restaurant-finder/api/internal/handler"
	"github.com/octobees/restaurant-finder/api/internal/llm"
	"github.com/octobees/restaurant-finder/api/internal/logging"
	middlewarepkg "github.com/octobees/restaurant-finder/api/internal/middleware"
	"github.com/octobees/restaurant-finder/api/internal/places"
	"github.com/octobees/restaurant-finder/api/internal/router"
	"github.com/octobees/restaurant-finder/api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	providers := buildProviders(cfg.LLM)
	model := llm.NewRouter(providers, cfg.LLM.Provider)

	resolver := service.NewIntentResolver(model, cfg.LLM.Timeout)
	searcher := places.NewClient(places.Config{
		APIKey:  cfg.Places.APIKey,
		BaseURL: cfg.Places.BaseURL,
		Timeout: cfg.Places.Timeout,
	})
	finder := service.NewFinder(resolver, searcher)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(middlewarepkg.RequestID(logger))
	e.Use(middlewarepkg.Logging())
	e.Use(middlewarepkg.Metrics())
	e.Use(echoMiddleware.Recover())

	router.Register(e, router.Handlers{
		Search: handler.NewSearchHandler(finder),
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting api", zap.String("port", cfg.Port), zap.String("llm_provider", model.Name()))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// buildProviders registers every provider that has credentials configured.
func buildProviders(cfg config.LLMConfig) map[string]llm.Provider {
	providers := make(map[string]llm.Provider, 2)
	if cfg.OpenRouterAPIKey != "" {
		providers[config.ProviderOpenRouter] = llm.NewOpenRouter(llm.OpenRouterConfig{
			APIKey:  cfg.OpenRouterAPIKey,
			BaseURL: cfg.OpenRouterBaseURL,
			Model:   cfg.OpenRouterModel,
		})
	}
	if cfg.GeminiAPIKey != "" {
		providers[config.ProviderGemini] = llm.NewGemini(llm.GeminiConfig{
			APIKey:   cfg.GeminiAPIKey,
			Model:    cfg.GeminiModel,
			Endpoint: cfg.GeminiEndpoint,
		})
	}
	return providers
}
