// Package devdb starts throwaway PostgreSQL and RabbitMQ containers for
// integration tests and for running the service locally without installing
// either.
package devdb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/streadway/amqp"
)

// ErrUnavailable is returned when no Docker daemon can be reached.
var ErrUnavailable = errors.New("docker is not available")

const (
	PostgresTag = "15-alpine"
	RabbitMQTag = "3-management-alpine"

	maxWait = 2 * time.Minute
)

// Container is a running disposable container and the URL to reach it.
type Container struct {
	URL string

	pool     *dockertest.Pool
	resource *dockertest.Resource
}

// Close stops and removes the container.
func (c *Container) Close() error {
	if err := c.pool.Purge(c.resource); err != nil {
		return fmt.Errorf("failed to purge container: %w", err)
	}
	return nil
}

func newPool() (*dockertest.Pool, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := pool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	pool.MaxWait = maxWait
	return pool, nil
}

func run(pool *dockertest.Pool, repo, tag string, env []string) (*dockertest.Resource, error) {
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: repo,
		Tag:        tag,
		Env:        env,
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start %s:%s: %w", repo, tag, err)
	}
	return resource, nil
}

// StartPostgres runs postgres:tag and waits until it accepts connections.
// An empty tag means PostgresTag.
func StartPostgres(tag string) (*Container, error) {
	if tag == "" {
		tag = PostgresTag
	}
	pool, err := newPool()
	if err != nil {
		return nil, err
	}

	resource, err := run(pool, "postgres", tag, []string{
		"POSTGRES_USER=test",
		"POSTGRES_PASSWORD=test",
		"POSTGRES_DB=testdb",
	})
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("postgres://test:test@%s/testdb?sslmode=disable", resource.GetHostPort("5432/tcp"))
	err = pool.Retry(func() error {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Ping()
	})
	if err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("postgres did not become ready: %w", err)
	}

	return &Container{URL: dsn, pool: pool, resource: resource}, nil
}

// StartRabbitMQ runs rabbitmq:tag and waits until an AMQP connection succeeds.
// An empty tag means RabbitMQTag.
func StartRabbitMQ(tag string) (*Container, error) {
	if tag == "" {
		tag = RabbitMQTag
	}
	pool, err := newPool()
	if err != nil {
		return nil, err
	}

	resource, err := run(pool, "rabbitmq", tag, nil)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("amqp://guest:guest@%s/", resource.GetHostPort("5672/tcp"))
	err = pool.Retry(func() error {
		conn, err := amqp.Dial(url)
		if err != nil {
			return err
		}
		return conn.Close()
	})
	if err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("rabbitmq did not become ready: %w", err)
	}

	return &Container{URL: url, pool: pool, resource: resource}, nil
}
