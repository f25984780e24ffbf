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

	httpapi "github.com/agroclim/etref/internal/api/http"
	"github.com/agroclim/etref/internal/config"
	"github.com/agroclim/etref/internal/et"
	"github.com/agroclim/etref/internal/providers"
	"github.com/agroclim/etref/internal/scheduler"
	"github.com/agroclim/etref/internal/store"
)

func main() {
	// Load configuration (reads .env when present).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	// Store backend: in-memory with retention, or InfluxDB.
	var etStore et.Store
	switch cfg.StoreBackend {
	case "influx":
		influx := store.NewInfluxStore(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
		defer influx.Close()
		etStore = influx
	default:
		etStore = store.NewMemoryStore(cfg.StoreMaxHourly, cfg.StoreMaxAge)
	}

	// Providers with resilience (backoff + circuit breaker). Open-Meteo
	// serves any station; CIMIS only those with a station number and key.
	var provs []et.Provider
	provs = append(provs, providers.NewOpenMeteoProvider(httpClient))
	if cfg.CIMISAppKey != "" {
		provs = append(provs, providers.NewCIMISProvider(httpClient, cfg.CIMISAppKey))
	}

	// Core service orchestrating providers, computation and store.
	service := et.NewService(etStore, provs, cfg.Stations,
		et.PenmanOptions{
			Reference:        cfg.Reference,
			UseSolarPosition: true,
		},
		et.AggregateOptions{
			ClipNegativeDaily: cfg.ClipNegativeDaily,
			MaxGapHours:       cfg.MaxGapHours,
		},
	)

	// Scheduler that periodically recomputes ET per station.
	sched := scheduler.New(cfg.FetchInterval, cfg.FetchWindow, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "etref",
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
			"service": "etref",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

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
