package carbon

import (
	"errors"

	"github.com/xraph/carbon/aggregate"
)

// Sentinel errors surfaced by the ledger. All are returned verbatim (or
// wrapped with %w) to the immediate caller; the ledger never retries.
var (
	// ErrInvalidAmount reports a negative or non-numeric amount. The caller
	// must correct the input and resubmit.
	ErrInvalidAmount = errors.New("carbon: invalid amount")

	// ErrStorageUnavailable reports that the backing store could not complete
	// an operation. The failed operation had no effect and is safe to retry.
	ErrStorageUnavailable = errors.New("carbon: storage unavailable")

	// ErrAggregationOverflow reports a sum that does not fit in an int64.
	ErrAggregationOverflow = aggregate.ErrOverflow

	// ErrNoAccount reports a context without a caller identity.
	ErrNoAccount = errors.New("carbon: no account in context")
)

// IsRetryable reports whether the operation that returned err may be retried
// unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}

// IsInvalidInput reports whether err was caused by caller input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidAmount)
}
