// Command devserver runs the service against throwaway Docker containers, so
// nothing has to be installed locally besides Docker. Containers are removed
// on exit.
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
	"customer-service/internal/devdb"
	"customer-service/internal/logger"
	"customer-service/internal/model"
)

var demoCustomers = []model.Customer{
	{ID: 1, Name: "Alice"},
	{ID: 2, Name: "Bob"},
	{ID: 3, Name: "Carol"},
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	withRabbit := flag.Bool("rabbitmq", false, "also start RabbitMQ and publish customer events")
	postgresTag := flag.String("postgres-tag", devdb.PostgresTag, "postgres image tag")
	flag.Parse()

	log.Info("Starting PostgreSQL container", "tag", *postgresTag)
	pg, err := devdb.StartPostgres(*postgresTag)
	if err != nil {
		log.Fatal("Could not start postgres", "err", err)
	}
	os.Setenv("DATABASE_URL", pg.URL)

	var rmq *devdb.Container
	if *withRabbit {
		log.Info("Starting RabbitMQ container")
		rmq, err = devdb.StartRabbitMQ("")
		if err != nil {
			_ = pg.Close()
			log.Fatal("Could not start rabbitmq", "err", err)
		}
		os.Setenv("RABBITMQ_URL", rmq.URL)
	}

	code := run(*configPath)

	if rmq != nil {
		_ = rmq.Close()
	}
	if err := pg.Close(); err != nil {
		log.Error("Could not remove postgres container", "err", err)
	}
	os.Exit(code)
}

func run(configPath string) int {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Error("Failed to load config", "err", err)
		return 1
	}
	cfg.Database.Migrate = true
	if len(cfg.Seed) == 0 {
		cfg.Seed = demoCustomers
	}

	appLog, err := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Error("Failed to init logger", "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service, err := app.New(ctx, cfg, appLog)
	if err != nil {
		appLog.Error("Failed to start", "err", err)
		return 1
	}
	defer service.Close()

	if err := service.Run(ctx); err != nil {
		appLog.Error("Service stopped with error", "err", err)
		return 1
	}
	return 0
}
