// internal/manager/customer_manager.go
package manager

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"customer-service/internal/metrics"
	"customer-service/internal/model"
)

type CustomerStore interface {
	FindAll(ctx context.Context) ([]model.Customer, error)
	Save(ctx context.Context, c model.Customer) (model.Customer, error)
}

type EventPublisher interface {
	PublishCustomerSaved(c model.Customer) error
}

// CustomerManager owns the write path: persist first, then announce.
type CustomerManager struct {
	store   CustomerStore
	events  EventPublisher
	metrics *metrics.Metrics
	log     *log.Logger
}

// NewCustomerManager wires the manager. events may be nil, which disables publishing.
func NewCustomerManager(store CustomerStore, events EventPublisher, m *metrics.Metrics, logger *log.Logger) *CustomerManager {
	return &CustomerManager{
		store:   store,
		events:  events,
		metrics: m,
		log:     logger.With("component", "manager"),
	}
}

// Save persists c and publishes a customer.saved event. Publishing is best
// effort: a broker failure is logged and counted but the save still succeeds.
func (cm *CustomerManager) Save(ctx context.Context, c model.Customer) (model.Customer, error) {
	saved, err := cm.store.Save(ctx, c)
	if err != nil {
		return model.Customer{}, err
	}

	if cm.events == nil {
		return saved, nil
	}
	if err := cm.events.PublishCustomerSaved(saved); err != nil {
		cm.metrics.EventsPublished.WithLabelValues("error").Inc()
		cm.log.Warn("failed to publish customer event", "id", saved.ID, "err", err)
		return saved, nil
	}
	cm.metrics.EventsPublished.WithLabelValues("ok").Inc()
	return saved, nil
}

// Seed saves each customer in order and stops at the first failure.
func (cm *CustomerManager) Seed(ctx context.Context, customers []model.Customer) error {
	for _, c := range customers {
		saved, err := cm.Save(ctx, c)
		if err != nil {
			return fmt.Errorf("seed customer %q: %w", c.Name, err)
		}
		cm.log.Debug("seeded customer", "id", saved.ID, "name", saved.Name)
	}
	if len(customers) > 0 {
		cm.log.Info("seed complete", "count", len(customers))
	}
	return nil
}

// LogAll writes every stored customer to the log. Run once at startup.
func (cm *CustomerManager) LogAll(ctx context.Context) error {
	customers, err := cm.store.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load customers: %w", err)
	}
	for _, c := range customers {
		cm.log.Info(c.String())
	}
	return nil
}
