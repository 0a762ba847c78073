package record

import "context"

// Store is the append-only ledger contract.
//
// Append must be atomic: a concurrent History call observes either the whole
// record or none of it. History returns records in append order and must
// return an empty slice, not an error, for an account with no records.
type Store interface {
	Append(ctx context.Context, rec Record) error
	History(ctx context.Context, account string) ([]Record, error)
}
