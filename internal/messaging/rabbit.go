// internal/messaging/rabbit.go
package messaging

import (
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"customer-service/internal/model"
)

const EventCustomerSaved = "customer.saved"

// CustomerEvent is the JSON body of every message this service publishes.
type CustomerEvent struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Customer   model.Customer `json:"customer"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type RabbitClient struct {
	conn  *amqp.Connection
	queue string

	mu      sync.Mutex // guards channel
	channel *amqp.Channel
}

// NewRabbitClient connects to url and declares the durable queue events go to.
func NewRabbitClient(url, queue string) (*RabbitClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	return &RabbitClient{
		conn:    conn,
		queue:   queue,
		channel: ch,
	}, nil
}

func (r *RabbitClient) Queue() string {
	return r.queue
}

// PublishCustomerSaved sends a customer.saved event for c.
func (r *RabbitClient) PublishCustomerSaved(c model.Customer) error {
	event := CustomerEvent{
		ID:         uuid.NewString(),
		Type:       EventCustomerSaved,
		Customer:   c,
		OccurredAt: time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.channel.Publish(
		"",      // default exchange
		r.queue, // routing key (queue name)
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Type:         event.Type,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to queue %s: %w", r.queue, err)
	}
	return nil
}

// Close cleans up connection and channel
func (r *RabbitClient) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.channel.Close(); err != nil {
		return err
	}
	return r.conn.Close()
}
