// Package carbon provides a per-account, append-only emission ledger.
//
// Each caller appends timestamped emission records (amount in parts per
// million, plus a category) to its own ledger and reads back any account's
// history or sums of it. Records are never changed or removed.
//
// Carbon is a library. It provides:
//
//   - Self-attributed appends: a write only ever targets the caller's account
//   - Totals by category, by inclusive time window, or unfiltered
//   - Overflow-checked int64 aggregation (ErrAggregationOverflow)
//   - Per-account locking in the memory store, so accounts never contend
//   - Postgres, SQLite and MongoDB stores via Grove, and a Redis store
//   - Plugins for audit trails and Prometheus metrics
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/carbon"
//	    "github.com/xraph/carbon/store/memory"
//	)
//
//	l := carbon.New(memory.New())
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
//	rec, err := l.Record(ctx, "acme", 250_000, "electricity")
//	total, err := l.TotalByCategory(ctx, "acme", "electricity")
//
// # Identity
//
// Record takes the already authenticated caller identity as the account.
// Servers usually bind it to the request context with WithAccount and call
// RecordFromContext; package api does this from a request header.
//
// # Errors
//
// ErrInvalidAmount means the caller must fix the input. ErrStorageUnavailable
// wraps a backend failure; the operation had no effect and IsRetryable
// reports true. The ledger itself never retries.
//
// # Timestamps
//
// Records are stamped with the ledger clock in whole seconds at append time.
// Callers cannot supply a timestamp. Use WithClock in tests.
//
// # Conversions
//
// Package convert multiplies an activity amount by an emission factor. It is
// independent of the ledger.
package carbon
