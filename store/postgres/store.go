// Package postgres is a store.Store on PostgreSQL via Grove ORM.
package postgres

import (
	"context"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	_ "github.com/xraph/grove/drivers/pgdriver/pgmigrate" // registers the migration executor
	"github.com/xraph/grove/migrate"

	"github.com/xraph/carbon/record"
	"github.com/xraph/carbon/store"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("carbon/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("carbon/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append inserts rec as a single row. The row's seq is assigned by the
// database inside the insert, so a concurrent reader sees the whole row or
// nothing.
func (s *Store) Append(ctx context.Context, rec record.Record) error {
	if _, err := s.pg.NewInsert(toRecordModel(rec)).Exec(ctx); err != nil {
		return fmt.Errorf("carbon/postgres: append: %w", err)
	}
	return nil
}

// History returns the account's rows in insertion order.
func (s *Store) History(ctx context.Context, account string) ([]record.Record, error) {
	var models []recordModel
	err := s.pg.NewSelect(&models).
		Where("account = $1", account).
		OrderExpr("seq ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("carbon/postgres: history: %w", err)
	}

	result := make([]record.Record, len(models))
	for i := range models {
		r, err := fromRecordModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = r
	}
	return result, nil
}
