// Package plugin provides an extensible plugin system for carbon.
// Plugins hook into ledger lifecycle events to extend functionality.
package plugin

import (
	"context"
	"time"

	"github.com/xraph/carbon/record"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the ledger starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l any) error
}

// OnShutdown is called when the ledger stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Ledger hooks
// ──────────────────────────────────────────────────

// OnEmissionRecorded is called after a record has been appended.
type OnEmissionRecorded interface {
	Plugin
	OnEmissionRecorded(ctx context.Context, rec record.Record) error
}

// OnRecordRejected is called when an append fails, either on validation or
// in the store.
type OnRecordRejected interface {
	Plugin
	OnRecordRejected(ctx context.Context, account, category string, cause error) error
}

// OnAggregated is called after an aggregate query over one account.
// Kind is one of the Aggregate* constants.
type OnAggregated interface {
	Plugin
	OnAggregated(ctx context.Context, account, kind string, total int64, elapsed time.Duration) error
}

// Aggregate kinds passed to OnAggregated.
const (
	AggregateTotal     = "total"
	AggregateCategory  = "category"
	AggregateWindow    = "window"
	AggregateBreakdown = "breakdown"
)
