// Package memory provides an in-process ledger store. Each account owns an
// independently locked cell, so traffic on one account never contends with
// another.
package memory

import (
	"context"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/xraph/carbon/record"
	"github.com/xraph/carbon/store"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

// cell is one account's ledger.
type cell struct {
	mu      sync.RWMutex
	records []record.Record
}

// Store is an in-memory store.Store.
type Store struct {
	accounts *xsync.Map[string, *cell]
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		accounts: xsync.NewMap[string, *cell](),
	}
}

// cellFor returns the account's cell, creating it on first use.
// Concurrent first appends to the same account agree on one cell.
func (s *Store) cellFor(account string) *cell {
	c, _ := s.accounts.LoadOrCompute(account, func() (*cell, bool) {
		return &cell{}, false
	})
	return c
}

// Append adds rec to the end of its account's ledger.
func (s *Store) Append(_ context.Context, rec record.Record) error {
	c := s.cellFor(rec.Account)

	c.mu.Lock()
	c.records = append(c.records, rec)
	c.mu.Unlock()

	return nil
}

// History returns a copy of the account's ledger in append order.
func (s *Store) History(_ context.Context, account string) ([]record.Record, error) {
	c, ok := s.accounts.Load(account)
	if !ok {
		return []record.Record{}, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return record.Clone(c.records), nil
}

// Accounts returns the number of accounts that have at least one record.
func (s *Store) Accounts() int {
	return s.accounts.Size()
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error {
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op; records live for the lifetime of the process.
func (s *Store) Close() error {
	return nil
}
