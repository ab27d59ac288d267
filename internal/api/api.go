package api

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "customer-service/docs"
	"customer-service/internal/config"
	"customer-service/internal/metrics"
	"customer-service/internal/model"
)

// CustomerRepository is the read side the handlers need.
type CustomerRepository interface {
	FindAll(ctx context.Context) ([]model.Customer, error)
	FindByName(ctx context.Context, name string) ([]model.Customer, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type API struct {
	Repo    CustomerRepository
	Health  HealthChecker
	Metrics *metrics.Metrics
	Cfg     *config.Config

	log *log.Logger
}

func NewAPI(repo CustomerRepository, health HealthChecker, m *metrics.Metrics, cfg *config.Config, logger *log.Logger) *API {
	return &API{
		Repo:    repo,
		Health:  health,
		Metrics: m,
		Cfg:     cfg,
		log:     logger.With("component", "api"),
	}
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(a.instrument)
	r.Use(middleware.Recoverer)

	if origins := a.Cfg.CORS.AllowedOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
			ExposedHeaders: []string{RequestIDHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/customers", a.handle(a.Customers))
	r.Get("/customers/{name}", a.handle(a.ByName))

	// Operational
	r.Get("/health", a.HealthCheck)
	r.Method(http.MethodGet, "/metrics", a.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}
