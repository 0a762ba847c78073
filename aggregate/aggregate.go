// Package aggregate computes sums over a snapshot of one account's emission
// records. Every function is a pure linear scan; results do not depend on
// record order.
package aggregate

import (
	"errors"
	"math"

	"github.com/xraph/carbon/record"
)

// ErrOverflow is returned when a sum does not fit in an int64.
var ErrOverflow = errors.New("carbon: aggregation overflow")

// Predicate selects the records that contribute to a sum.
type Predicate func(r record.Record) bool

// All matches every record.
func All() Predicate {
	return func(record.Record) bool { return true }
}

// Category matches records whose category equals c byte for byte.
func Category(c string) Predicate {
	return func(r record.Record) bool { return r.Category == c }
}

// Window matches records with start <= timestamp <= end. When start > end
// nothing matches.
func Window(start, end int64) Predicate {
	return func(r record.Record) bool {
		return start <= r.Timestamp && r.Timestamp <= end
	}
}

// Sum adds the amounts of the records selected by p.
func Sum(records []record.Record, p Predicate) (int64, error) {
	var total int64
	for _, r := range records {
		if !p(r) {
			continue
		}
		next, err := add(total, r.Amount)
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}

// Total sums every record.
func Total(records []record.Record) (int64, error) {
	return Sum(records, All())
}

// TotalByCategory sums the records in category c.
func TotalByCategory(records []record.Record, c string) (int64, error) {
	return Sum(records, Category(c))
}

// TotalByTimeWindow sums the records stamped within [start, end].
func TotalByTimeWindow(records []record.Record, start, end int64) (int64, error) {
	if start > end {
		return 0, nil
	}
	return Sum(records, Window(start, end))
}

// Breakdown returns the total per category. Categories with no records are
// absent from the map.
func Breakdown(records []record.Record) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, r := range records {
		next, err := add(out[r.Category], r.Amount)
		if err != nil {
			return nil, err
		}
		out[r.Category] = next
	}
	return out, nil
}

// add is checked addition for non-negative operands.
func add(a, b int64) (int64, error) {
	if b > math.MaxInt64-a {
		return 0, ErrOverflow
	}
	return a + b, nil
}
