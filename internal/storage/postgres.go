// internal/storage/postgres.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"customer-service/internal/model"
)

type Storage struct {
	DB *sql.DB
}

// PoolOptions bounds the connection pool; zero values keep database/sql defaults.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func NewStorage(dsn string, opts PoolOptions) (*Storage, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	return &Storage{DB: db}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

// FindAll returns every customer ordered by id. An empty table yields an empty slice.
func (s *Storage) FindAll(ctx context.Context) ([]model.Customer, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name FROM customer ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("find all customers: %w", err)
	}
	return scanCustomers(rows)
}

// FindByName returns the customers whose name equals name exactly (case-sensitive).
func (s *Storage) FindByName(ctx context.Context, name string) ([]model.Customer, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name FROM customer WHERE name = $1 ORDER BY id`, name)
	if err != nil {
		return nil, fmt.Errorf("find customers by name: %w", err)
	}
	return scanCustomers(rows)
}

// Save inserts c when its ID is zero, letting the database assign one.
// Otherwise the row with c.ID is inserted or updated and the id sequence is
// moved past the largest stored id so generated ids never collide with it.
func (s *Storage) Save(ctx context.Context, c model.Customer) (model.Customer, error) {
	if c.ID == 0 {
		err := s.DB.QueryRowContext(ctx,
			`INSERT INTO customer (name) VALUES ($1) RETURNING id, name`, c.Name,
		).Scan(&c.ID, &c.Name)
		if err != nil {
			return model.Customer{}, fmt.Errorf("insert customer: %w", err)
		}
		return c, nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Customer{}, fmt.Errorf("begin save customer: %w", err)
	}
	defer tx.Rollback()

	var saved model.Customer
	err = tx.QueryRowContext(ctx, `
		INSERT INTO customer (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name
	`, c.ID, c.Name).Scan(&saved.ID, &saved.Name)
	if err != nil {
		return model.Customer{}, fmt.Errorf("upsert customer %d: %w", c.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		SELECT setval(pg_get_serial_sequence('customer', 'id'),
		              GREATEST((SELECT MAX(id) FROM customer), 1))
	`)
	if err != nil {
		return model.Customer{}, fmt.Errorf("advance customer id sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Customer{}, fmt.Errorf("commit save customer %d: %w", c.ID, err)
	}
	return saved, nil
}

func scanCustomers(rows *sql.Rows) ([]model.Customer, error) {
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}
