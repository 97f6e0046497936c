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
	"github.com/joho/godotenv"
	"github.com/valkey-io/valkey-go"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/location"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration. A missing WEATHER_API_KEY stops startup here.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// WeatherAPI serves forecasts and, by default, searches too.
	weatherAPI := providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey)

	var searcher location.Searcher
	switch cfg.SearchProvider {
	case config.SearchOpenMeteo:
		searcher = providers.NewOpenMeteoProvider(httpClient, cfg.Lang)
	case config.SearchOpenWeather:
		searcher = providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey)
	case config.SearchGoogle:
		searcher = providers.NewGoogleGeocoderProvider(cfg.GoogleAPIKey, cfg.HTTPTimeout)
	default:
		searcher = weatherAPI
	}
	log.Printf("INFO: location search via %s", searcher.Name())

	var sessions weather.SessionStore
	switch cfg.SessionStore {
	case config.StoreValkey:
		client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{cfg.ValkeyAddr}})
		if err != nil {
			log.Fatalf("failed to connect to valkey at %s: %v", cfg.ValkeyAddr, err)
		}
		defer client.Close()
		sessions = store.NewValkeyStore(client, "dashboard", cfg.SessionTTL)
	default:
		sessions = store.NewMemoryStore(cfg.SessionMax, cfg.SessionTTL)
	}

	resolver := location.NewResolver(searcher, location.Options{
		AutoSelectTop: cfg.AutoSelectTop,
		SelectByName:  cfg.SelectByName,
	})
	presenter := weather.NewPresenter(weatherAPI, weather.PresenterConfig{
		Lang:       cfg.Lang,
		MapBaseURL: cfg.MapBaseURL,
	})

	// Core service orchestrating sessions, resolution and presentation.
	service := weather.NewService(sessions, resolver, presenter, cfg.PopularCities)

	// Scheduler that periodically drops expired sessions.
	sched := scheduler.New(sessions, cfg.SessionPruneInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          20 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()
	log.Printf("INFO: listening on :%s", cfg.Port)

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
