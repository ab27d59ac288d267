package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"customer-service/internal/app"
	"customer-service/internal/config"
	"customer-service/internal/logger"
)

// @title Customer Service API
// @version 1.0
// @description Read-only HTTP API over the customer table
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load Configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Failed to load config", "err", err)
	}

	appLog, err := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal("Failed to init logger", "err", err)
	}
	appLog.Info("Configuration loaded", "path", *configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, cfg, appLog))
}

func run(ctx context.Context, cfg *config.Config, appLog *log.Logger) int {
	service, err := app.New(ctx, cfg, appLog)
	if err != nil {
		appLog.Error("Failed to start", "err", err)
		return 1
	}
	defer func() {
		if err := service.Close(); err != nil {
			appLog.Error("Cleanup failed", "err", err)
		}
	}()

	if err := service.Run(ctx); err != nil {
		appLog.Error("Service stopped with error", "err", err)
		return 1
	}
	return 0
}
