// Package record defines the emission record value type and the
// append-only store contract that every backend implements.
package record

import (
	"github.com/xraph/carbon/id"
)

// Record is a single emission event. Records are values: once appended
// they are never changed or removed.
type Record struct {
	ID        id.RecordID `json:"id"`
	Account   string      `json:"account"`
	Timestamp int64       `json:"timestamp"`
	Amount    int64       `json:"amount"`
	Category  string      `json:"category"`
}

// Clone returns a copy of records that shares no backing array with it.
func Clone(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	return out
}
