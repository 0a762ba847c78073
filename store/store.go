// Package store defines the unified storage interface for carbon backends.
package store

import (
	"context"

	"github.com/xraph/carbon/record"
)

// Store is the ledger store every backend implements: the append-only
// record contract plus lifecycle management.
type Store interface {
	record.Store

	// Migrate creates whatever schema or indexes the backend needs.
	Migrate(ctx context.Context) error
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases the backend's resources.
	Close() error
}
