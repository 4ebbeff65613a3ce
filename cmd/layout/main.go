package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"wedding-layout/internal/common/config"
	"wedding-layout/internal/common/logger"
	"wedding-layout/internal/common/middleware"
	"wedding-layout/internal/layout/guests"
	"wedding-layout/internal/layout/handlers"
	"wedding-layout/internal/layout/repository"
	"wedding-layout/internal/layout/service"
)

// ============================================================
// Layout Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3003"
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal("open db", "path", cfg.DBPath, "error", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatal("init db", "error", err)
	}

	var fetcher guests.Fetcher
	if cfg.GuestAPIURL != "" {
		fetcher = guests.NewHTTPFetcher(cfg.GuestAPIURL, cfg.GuestAPITimeout, log.Component("guests"))
	} else {
		log.Warn("GUEST_API_URL not set, guest lists will be empty")
	}

	sessions := service.NewSessions(repo, fetcher, service.NewFileStorage(cfg.ExportDir), service.Config{
		HistoryLimit:      cfg.HistoryLimit,
		DefaultPxPerMeter: cfg.DefaultPxPerMeter,
	}, log)
	layoutHandler := handlers.NewLayoutHandler(sessions, log)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Layout Service",
		ErrorHandler: middleware.ErrorHandler(log.Component("http")),
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := db.PingContext(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Layout Routes
	// ============================================================

	layoutHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info("starting layout service",
		"addr", addr,
		"env", cfg.Environment,
		"db", cfg.DBPath,
		"guestAPI", cfg.GuestAPIURL,
	)

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", "error", err)
	}
}
