// Package app wires configuration, storage, messaging and the HTTP API into
// a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/getsentry/sentry-go"

	"customer-service/internal/api"
	"customer-service/internal/config"
	"customer-service/internal/manager"
	"customer-service/internal/messaging"
	"customer-service/internal/metrics"
	"customer-service/internal/storage"
)

type App struct {
	cfg *config.Config
	log *log.Logger

	storage *storage.Storage
	rabbit  *messaging.RabbitClient
	metrics *metrics.Metrics
	manager *manager.CustomerManager
	server  *http.Server
}

// New connects to the database (and RabbitMQ when configured), applies
// migrations, saves the configured seed customers and builds the HTTP server.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	a := &App{cfg: cfg, log: logger, metrics: metrics.New()}

	if cfg.Sentry.DSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		})
		if err != nil {
			return nil, fmt.Errorf("sentry init: %w", err)
		}
		logger.Info("Sentry enabled")
	}

	if cfg.Database.Migrate {
		if err := storage.Migrate(cfg.Database.URL); err != nil {
			return nil, err
		}
		logger.Info("Database migrated")
	}

	db, err := storage.NewStorage(cfg.Database.URL, storage.PoolOptions{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	a.storage = db
	logger.Info("PostgreSQL connected")

	var events manager.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		rabbit, err := messaging.NewRabbitClient(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.rabbit = rabbit
		events = rabbit
		logger.Info("RabbitMQ connected", "queue", cfg.RabbitMQ.Queue)
	}

	a.manager = manager.NewCustomerManager(db, events, a.metrics, logger)
	if err := a.manager.Seed(ctx, cfg.Seed); err != nil {
		a.Close()
		return nil, err
	}

	handler := api.NewAPI(db, db, a.metrics, cfg, logger)
	a.server = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}
	return a, nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run logs the stored customers once, then serves HTTP until ctx is done and
// shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	if err := a.manager.LogAll(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Starting API server", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	a.log.Info("Shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	a.log.Info("Graceful shutdown complete")
	return nil
}

// Close releases the broker connection, the database pool and flushes Sentry.
func (a *App) Close() error {
	var errs []error
	if a.rabbit != nil {
		if err := a.rabbit.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rabbitmq: %w", err))
		}
	}
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	sentry.Flush(2 * time.Second)
	return errors.Join(errs...)
}
