// Package postgres opens the connection the document catalog writes
// through. The catalog is bookkeeping, not index storage, so the wrapper
// stays minimal: a pooled *sql.DB and a transaction helper for the
// delete-and-reinsert the catalog performs after each index build.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/searchlab-dev/keyword-search-engine/pkg/config"
)

const pingTimeout = 5 * time.Second

// Client owns the database handle.
type Client struct {
	DB *sql.DB
}

// New opens and verifies a Postgres connection. Like the cache, the
// catalog is optional: callers log a failed connection and run without it.
func New(cfg config.PostgresConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Client{DB: db}, nil
}

// InTx runs fn inside a transaction, committing on nil and rolling back on
// error. The catalog replaces its whole table per reindex, so partial
// writes must never land.
func (c *Client) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed (%v) after: %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close closes the pool.
func (c *Client) Close() error {
	return c.DB.Close()
}
