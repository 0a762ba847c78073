package carbon

import "github.com/xraph/carbon/record"

// Re-export the record type so callers don't have to import the record
// package for common use.

// Record is re-exported from the record package.
type Record = record.Record
