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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/i474232898/insight-dashboards/internal/api/http"
	"github.com/i474232898/insight-dashboards/internal/config"
	"github.com/i474232898/insight-dashboards/internal/scheduler"
	"github.com/i474232898/insight-dashboards/internal/sentiment"
	"github.com/i474232898/insight-dashboards/internal/store"
	"github.com/i474232898/insight-dashboards/internal/weather"
	"github.com/i474232898/insight-dashboards/internal/weather/providers"
)

func main() {
	// Load configuration (reads .env when present).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Tracked-forecast store with configured retention.
	var st weather.Store
	switch cfg.StoreDriver {
	case "sqlite":
		sqlStore, err := store.NewSQLiteStore(cfg.SQLitePath, cfg.StoreMaxHistory, cfg.StoreMaxAge)
		if err != nil {
			log.Fatalf("failed to open sqlite store: %v", err)
		}
		defer sqlStore.Close()
		st = sqlStore
	default:
		st = store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	}

	// Providers with resilience (backoff + circuit breaker).
	httpCfg := providers.HTTPClientConfig{
		Client: &http.Client{Timeout: cfg.HTTPTimeout},
		Backoff: providers.BackoffConfig{
			MaxRetries: cfg.ProviderMaxRetries,
		},
	}
	provider, geocoder, err := providers.Select(providers.Selection{
		Provider:          cfg.WeatherProvider,
		OpenWeatherAPIKey: cfg.OpenWeatherAPIKey,
		GeocoderAPIKey:    cfg.GeocoderAPIKey,
		ForecastDays:      cfg.ForecastDays,
		HTTP:              httpCfg,
	})
	if err != nil {
		log.Printf("ERROR: %v; weather lookups are disabled", err)
	}
	if geocoder == nil {
		log.Println("ERROR: no geocoder configured; set OPENWEATHER_API_KEY or GEOCODER_API_KEY to look up cities")
	}

	// Core service orchestrating provider, geocoder and store.
	service := weather.NewService(st, provider, geocoder, cfg.ForecastDays)

	// Scheduler that periodically refreshes tracked cities.
	sched := scheduler.New(cfg.TrackedLocations, cfg.FetchInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "insight-dashboards",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             cfg.UploadMaxBytes,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	// API routes.
	httpapi.RegisterRoutes(app, service, sentiment.NewAnalyzer())

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
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
