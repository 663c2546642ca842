package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/rkondla/chiller-dashboard/internal/config"
	"github.com/rkondla/chiller-dashboard/internal/dataset"
	"github.com/rkondla/chiller-dashboard/internal/scheduler"
	"github.com/rkondla/chiller-dashboard/internal/weather"
	"github.com/rkondla/chiller-dashboard/internal/weather/providers"
	"github.com/rkondla/chiller-dashboard/internal/web"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Weather provider behind the TTL fetch cache.
	provider := providers.NewVisualCrossingProvider(httpClient, cfg.WeatherAPIKey)
	cache := weather.NewFetchCache(provider, cfg.WeatherLocation, cfg.WeatherCacheTTL)

	// Process-wide dataset holder.
	datasets := dataset.NewStore()

	// Janitor that evicts expired cache entries in the background.
	janitor := scheduler.New(cache, cfg.JanitorInterval)
	if err := janitor.Start(); err != nil {
		log.Fatalf("failed to start cache janitor: %v", err)
	}
	defer janitor.Stop()

	// Cookie sessions; the store itself lives in process memory.
	sessions := session.New(session.Config{
		Expiration: cfg.SessionExpiry,
		KeyLookup:  "cookie:dashboard_session",
	})

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "chiller-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "chiller-dashboard",
		})
	})

	// Dashboard routes.
	handler := web.NewHandler(cfg, sessions, datasets, cache)
	handler.Register(app)

	// Start server with graceful shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
