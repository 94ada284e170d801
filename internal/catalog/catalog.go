// Package catalog persists bookkeeping about indexed documents in
// PostgreSQL. The index itself is never persisted; the catalog only records
// which documents the live index was built from and when.
//
// It requires an `indexed_documents` table:
//
//	CREATE TABLE indexed_documents (
//	    document    TEXT PRIMARY KEY,
//	    position    INT NOT NULL,
//	    keywords    INT NOT NULL,
//	    indexed_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/searchlab-dev/keyword-search-engine/pkg/logger"
	"github.com/searchlab-dev/keyword-search-engine/pkg/postgres"
	"github.com/searchlab-dev/keyword-search-engine/pkg/resilience"
)

// Entry describes one document of the corpus the live index was built from.
type Entry struct {
	Document  string    `json:"document"`
	Position  int       `json:"position"`
	Keywords  int       `json:"keywords"`
	IndexedAt time.Time `json:"indexed_at"`
}

// Store reads and writes the document catalog.
type Store struct {
	db     *postgres.Client
	logger *slog.Logger
}

// NewStore creates a Store over an open Postgres client.
func NewStore(db *postgres.Client) *Store {
	return &Store{
		db:     db,
		logger: logger.WithComponent("catalog"),
	}
}

// ReplaceAll atomically replaces the catalog with the documents of a fresh
// indexing pass. Position is the document's place in indexing order, which
// is also the equal-frequency tie-break order of the index. The write is
// retried on transient failures.
func (s *Store) ReplaceAll(ctx context.Context, entries []Entry) error {
	write := func() error {
		return s.db.InTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `DELETE FROM indexed_documents`); err != nil {
				return fmt.Errorf("clearing catalog: %w", err)
			}
			stmt, err := tx.PrepareContext(ctx,
				`INSERT INTO indexed_documents (document, position, keywords, indexed_at)
				 VALUES ($1, $2, $3, $4)`,
			)
			if err != nil {
				return fmt.Errorf("preparing catalog insert: %w", err)
			}
			defer stmt.Close()
			now := time.Now().UTC()
			for _, e := range entries {
				if _, err := stmt.ExecContext(ctx, e.Document, e.Position, e.Keywords, now); err != nil {
					return fmt.Errorf("inserting catalog entry for %s: %w", e.Document, err)
				}
			}
			return nil
		})
	}

	if err := resilience.Retry(ctx, "catalog-replace", resilience.RetryConfig{MaxAttempts: 3}, write); err != nil {
		return err
	}
	s.logger.Info("catalog replaced", "documents", len(entries))
	return nil
}

// List returns the catalog in indexing order.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.DB.QueryContext(ctx,
		`SELECT document, position, keywords, indexed_at
		 FROM indexed_documents ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, 64)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Document, &e.Position, &e.Keywords, &e.IndexedAt); err != nil {
			return nil, fmt.Errorf("scanning catalog row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading catalog rows: %w", err)
	}
	return entries, nil
}
