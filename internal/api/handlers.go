package api

import (
	"fmt"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"customer-service/internal/apperrors"
	"customer-service/internal/model"
)

type HealthResponse struct {
	Status string `json:"status" example:"UP"`
}

// @Summary Find customers by name
// @Description Exact, case-sensitive match. The name must start with an uppercase letter.
// @Tags Customers
// @Produce json
// @Param name path string true "Customer name"
// @Success 200 {array} model.Customer
// @Failure 400 {object} ProblemDetail
// @Router /customers/{name} [get]
func (a *API) ByName(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "name")
	if err := validateName(name); err != nil {
		return err
	}

	var customers []model.Customer
	err := a.Metrics.Observe("by-name", func() error {
		var err error
		customers, err = a.Repo.FindByName(r.Context(), name)
		return err
	})
	if err != nil {
		return fmt.Errorf("find customers by name: %w", err)
	}
	return writeJSON(w, http.StatusOK, nonNil(customers))
}

// @Summary List all customers
// @Tags Customers
// @Produce json
// @Success 200 {array} model.Customer
// @Router /customers [get]
func (a *API) Customers(w http.ResponseWriter, r *http.Request) error {
	customers, err := a.Repo.FindAll(r.Context())
	if err != nil {
		return fmt.Errorf("find all customers: %w", err)
	}
	return writeJSON(w, http.StatusOK, nonNil(customers))
}

// @Summary Health check
// @Tags Operations
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (a *API) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, code := "UP", http.StatusOK
	if err := a.Health.Ping(r.Context()); err != nil {
		a.log.Warn("health check failed", "err", err)
		status, code = "DOWN", http.StatusServiceUnavailable
	}
	if err := writeJSON(w, code, HealthResponse{Status: status}); err != nil {
		a.log.Error("write health response", "err", err)
	}
}

func validateName(name string) error {
	if err := apperrors.State(name != "", "the name must not be empty"); err != nil {
		return err
	}
	first, _ := utf8.DecodeRuneInString(name)
	return apperrors.State(unicode.IsUpper(first), "the name must start with an uppercase letter")
}

func nonNil(customers []model.Customer) []model.Customer {
	if customers == nil {
		return []model.Customer{}
	}
	return customers
}
