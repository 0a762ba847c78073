package carbon

import "github.com/xraph/carbon/id"

// ID is the primary identifier type for carbon entities.
type ID = id.ID

// RecordID identifies an emission record.
type RecordID = id.RecordID
