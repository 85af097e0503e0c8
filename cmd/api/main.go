package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/ibrahimkeyboad/goledger/internal/adapter/handler"
	"github.com/ibrahimkeyboad/goledger/internal/adapter/middleware"
	"github.com/ibrahimkeyboad/goledger/internal/adapter/storage"
	"github.com/ibrahimkeyboad/goledger/internal/core/config"
	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
	"github.com/ibrahimkeyboad/goledger/internal/core/ledger"
	"github.com/ibrahimkeyboad/goledger/internal/core/worker"
)

func main() {
	// 1. Load config
	cfg := config.LoadConfig()

	// 2. Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 3. Build the ledger engine, restoring the last snapshot if we have one
	engine := ledger.NewEngine()
	if cfg.SnapshotPath != "" {
		snap, err := storage.LoadSnapshot(cfg.SnapshotPath)
		if err != nil {
			slog.Warn("No usable snapshot, starting empty", "path", cfg.SnapshotPath, "error", err)
		} else {
			snap.Apply(engine)
			slog.Info("✅ Snapshot restored", "path", cfg.SnapshotPath, "accounts", len(snap.Accounts))
		}
	}

	// 4. Start the webhook worker (only when someone is listening)
	if cfg.WebhookURL != "" {
		engine.Events = make(chan domain.Event, 256)
		worker.StartWebhookWorker(engine.Events, cfg.WebhookURL)
	}

	// 5. Setup key store, idempotency cache and Fiber
	keys := storage.NewKeyStore()
	cache := middleware.NewIdempotencyCache()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	// 6. Routes
	handler.Register(app, engine, keys, cache)

	// 7. Run server in a goroutine so shutdown can be handled below
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("🚀 Server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server forced to shutdown", "error", err)
		}
	}()

	// Block here until we receive a stop signal
	<-stop
	slog.Info("🛑 Shutting down server...")

	// Persist the ledger before the process dies
	if cfg.SnapshotPath != "" {
		if err := storage.SaveSnapshot(cfg.SnapshotPath, storage.Capture(engine)); err != nil {
			slog.Error("Snapshot save failed", "error", err)
		} else {
			slog.Info("✅ Snapshot saved", "path", cfg.SnapshotPath)
		}
	}

	// Tell Fiber to stop accepting new requests and finish active ones
	if err := app.Shutdown(); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	slog.Info("👋 Server exited successfully")
}
