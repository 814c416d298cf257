package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/campusmap/internal/adapters/http"
	"github.com/samirrijal/campusmap/internal/app"
	"github.com/samirrijal/campusmap/internal/pkg/config"
	"github.com/samirrijal/campusmap/internal/pkg/logging"
	"github.com/samirrijal/campusmap/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("campusmap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Slot store
	slots, closeSlots, err := app.OpenSlots(ctx, cfg)
	if err != nil {
		log.Fatalf("store %s: %v", cfg.Store.Backend, err)
	}
	defer closeSlots()

	// Event broker
	events := app.OpenEvents(cfg)
	defer events.Close()

	// Use cases
	places, err := app.NewPlaceService(cfg, slots, events)
	if err != nil {
		log.Fatalf("place service: %v", err)
	}

	// Reconcile seeds before accepting traffic
	result, err := places.Launch(ctx)
	if err != nil {
		log.Fatalf("reconcile seeds: %v", err)
	}
	slog.Info("places loaded",
		"backend", cfg.Store.Backend,
		"count", len(result.Places),
		"first_run", result.FirstRun,
		"dropped", result.Dropped,
	)

	deps := &http.Dependencies{
		Places:  places,
		Slots:   slots,
		Backend: cfg.Store.Backend,
		NATS:    events.NATS,
	}

	// Fiber
	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024, // place payloads are tiny
		AppName:      "Campus Map API",
	})
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(fiberApp, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := fiberApp.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
