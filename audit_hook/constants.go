package audithook

// Action constants for audit events.
const (
	ActionEmissionRecorded = "emission.recorded"
	ActionEmissionRejected = "emission.rejected"
	ActionLedgerQueried    = "ledger.queried"
)

// Resource constants for audit events.
const (
	ResourceRecord = "emission_record"
	ResourceLedger = "ledger"
)

// Category constants for audit events.
const (
	CategoryEmission = "emission"
	CategoryAccess   = "access"
)

// Severity levels for audit events.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
