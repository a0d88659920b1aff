package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/Zinedinarnaut/torqueindex/internal/app"
	"github.com/Zinedinarnaut/torqueindex/internal/config"
	"github.com/Zinedinarnaut/torqueindex/pkg/logger"
)

const serviceName = "torqueindex"

func main() {
	log := logger.New(serviceName, os.Getenv("LOG_LEVEL"))
	slog.SetDefault(log)

	cfg, err := config.Load(log)
	if err != nil {
		log.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := a.Run(context.Background()); err != nil {
		log.Error("application exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
