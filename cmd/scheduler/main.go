package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/skicoach/coach-schedule/internal/app"
	"github.com/skicoach/coach-schedule/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting schedule service",
		"environment", cfg.Environment,
		"remote_enabled", cfg.RemoteEnabled())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application: " + err.Error())
	}

	if err := a.Migrate(ctx); err != nil {
		logger.Fatal("Failed to apply migrations: " + err.Error())
	}

	if err := a.Run(ctx); err != nil {
		logger.Fatal("Server stopped with error: " + err.Error())
	}
}
