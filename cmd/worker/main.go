package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/fantasy-cricket/internal/app"
	"github.com/riskibarqy/fantasy-cricket/internal/config"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(logging.LevelFromSlog(cfg.LogLevel))
	defer logger.Sync()

	_, closeFn, err := app.Build(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion worker started", "schedule", cfg.ScrapeSchedule, "clubs", cfg.ConfiguredClubs)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	if err := closeFn(); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion worker stopped")
}
