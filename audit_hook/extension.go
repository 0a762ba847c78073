// Package audithook bridges carbon ledger events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not depend on
// any particular audit system. Callers inject a RecorderFunc adapter at
// wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/carbon"
	"github.com/xraph/carbon/plugin"
	"github.com/xraph/carbon/record"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin             = (*Extension)(nil)
	_ plugin.OnEmissionRecorded = (*Extension)(nil)
	_ plugin.OnRecordRejected   = (*Extension)(nil)
	_ plugin.OnAggregated       = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is one entry in the audit trail.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Account    string         `json:"account"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension turns ledger hooks into audit events.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	queries  bool
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through r.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// OnEmissionRecorded implements plugin.OnEmissionRecorded.
func (e *Extension) OnEmissionRecorded(ctx context.Context, rec record.Record) error {
	return e.record(ctx, ActionEmissionRecorded, SeverityInfo, OutcomeSuccess,
		ResourceRecord, rec.ID.String(), rec.Account, nil,
		"amount", rec.Amount,
		"category", rec.Category,
		"timestamp", rec.Timestamp,
	)
}

// OnRecordRejected implements plugin.OnRecordRejected. Validation failures
// are warnings; store failures are errors.
func (e *Extension) OnRecordRejected(ctx context.Context, account, category string, cause error) error {
	severity := SeverityError
	if carbon.IsInvalidInput(cause) {
		severity = SeverityWarning
	}
	return e.record(ctx, ActionEmissionRejected, severity, OutcomeFailure,
		ResourceRecord, "", account, cause,
		"category", category,
	)
}

// OnAggregated implements plugin.OnAggregated.
func (e *Extension) OnAggregated(ctx context.Context, account, kind string, total int64, elapsed time.Duration) error {
	if !e.queries {
		return nil
	}
	return e.record(ctx, ActionLedgerQueried, SeverityInfo, OutcomeSuccess,
		ResourceLedger, account, account, nil,
		"kind", kind,
		"total", total,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// record builds and sends an audit event if the action is enabled.
// Recorder failures are logged and never returned.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, account string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   CategoryEmission,
		ResourceID: resourceID,
		Account:    account,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}
	if action == ActionLedgerQueried {
		evt.Category = CategoryAccess
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
