package carbon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/xraph/carbon/aggregate"
	"github.com/xraph/carbon/id"
	"github.com/xraph/carbon/plugin"
	"github.com/xraph/carbon/store"
)

// Ledger is the emission ledger engine. It is safe for concurrent use.
type Ledger struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger
	clock   func() time.Time

	// writers serializes stamp-and-append per account so that append
	// order and timestamp order agree.
	writers *xsync.Map[string, *sync.Mutex]

	skipMigrate bool
}

// New creates a new Ledger over s.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:   s,
		plugins: plugin.NewRegistry(),
		logger:  slog.Default(),
		clock:   time.Now,
		writers: xsync.NewMap[string, *sync.Mutex](),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock sets the clock that stamps appended records.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// WithoutMigrate makes Start skip store migration. Plugins are still
// initialized.
func WithoutMigrate() Option {
	return func(l *Ledger) {
		l.skipMigrate = true
	}
}

// Plugins returns the plugin registry.
func (l *Ledger) Plugins() *plugin.Registry { return l.plugins }

// Start migrates the store (unless WithoutMigrate was given) and
// initializes plugins.
func (l *Ledger) Start(ctx context.Context) error {
	if !l.skipMigrate {
		if err := l.Migrate(ctx); err != nil {
			return err
		}
	}

	l.plugins.EmitInit(ctx, l)

	l.logger.Info("carbon ledger started", "plugins", l.plugins.Count())
	return nil
}

// Migrate creates or upgrades the store schema.
func (l *Ledger) Migrate(ctx context.Context) error {
	if err := l.store.Migrate(ctx); err != nil {
		return fmt.Errorf("%w: migrate: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// Stop shuts down plugins and closes the store.
func (l *Ledger) Stop() error {
	l.plugins.EmitShutdown(context.Background())
	return l.store.Close()
}

// Ping checks that the store is reachable.
func (l *Ledger) Ping(ctx context.Context) error {
	if err := l.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Writes
// ──────────────────────────────────────────────────

// Record appends an emission to the caller's own ledger. The caller identity
// is the account key; there is no way to address another account. The
// timestamp is taken from the ledger clock at the moment of the call.
//
// Record either fully succeeds or has no effect.
func (l *Ledger) Record(ctx context.Context, caller string, amount int64, category string) (Record, error) {
	if err := validateAmount(amount); err != nil {
		l.plugins.EmitRecordRejected(ctx, caller, category, err)
		return Record{}, err
	}

	rec, err := l.stampAndAppend(ctx, caller, amount, category)
	if err != nil {
		err = fmt.Errorf("%w: append: %w", ErrStorageUnavailable, err)
		l.logger.Error("failed to append emission record",
			"account", caller,
			"category", category,
			"error", err,
		)
		l.plugins.EmitRecordRejected(ctx, caller, category, err)
		return Record{}, err
	}

	l.logger.Debug("emission recorded",
		"account", caller,
		"record_id", rec.ID.String(),
		"amount", amount,
		"category", category,
	)
	l.plugins.EmitEmissionRecorded(ctx, rec)

	return rec, nil
}

// stampAndAppend takes the timestamp and appends while holding the
// account's writer lock, so no later stamp can be appended ahead of it.
func (l *Ledger) stampAndAppend(ctx context.Context, caller string, amount int64, category string) (Record, error) {
	mu, _ := l.writers.LoadOrCompute(caller, func() (*sync.Mutex, bool) {
		return &sync.Mutex{}, false
	})

	mu.Lock()
	defer mu.Unlock()

	rec := Record{
		ID:        id.NewRecordID(),
		Account:   caller,
		Timestamp: l.clock().Unix(),
		Amount:    amount,
		Category:  category,
	}
	if err := l.store.Append(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// RecordFromContext is Record with the caller identity taken from ctx (see
// WithAccount).
func (l *Ledger) RecordFromContext(ctx context.Context, amount int64, category string) (Record, error) {
	caller, err := AccountFrom(ctx)
	if err != nil {
		return Record{}, err
	}
	return l.Record(ctx, caller, amount, category)
}

// ──────────────────────────────────────────────────
// Reads
// ──────────────────────────────────────────────────

// History returns the account's full ledger in append order. An account with
// no records yields an empty slice.
func (l *Ledger) History(ctx context.Context, account string) ([]Record, error) {
	records, err := l.store.History(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("%w: history: %w", ErrStorageUnavailable, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Total returns the sum of every amount in the account's ledger.
func (l *Ledger) Total(ctx context.Context, account string) (int64, error) {
	return l.TotalFiltered(ctx, account, Filter{})
}

// TotalByCategory returns the sum of the account's amounts whose category
// equals category exactly.
func (l *Ledger) TotalByCategory(ctx context.Context, account, category string) (int64, error) {
	return l.TotalFiltered(ctx, account, CategoryFilter(category))
}

// TotalByTimeWindow returns the sum of the account's amounts stamped within
// [start, end]. When start > end the result is 0.
func (l *Ledger) TotalByTimeWindow(ctx context.Context, account string, start, end int64) (int64, error) {
	return l.TotalFiltered(ctx, account, WindowFilter(start, end))
}

// TotalFiltered returns the sum of the account's amounts selected by f.
func (l *Ledger) TotalFiltered(ctx context.Context, account string, f Filter) (int64, error) {
	started := time.Now()

	records, err := l.History(ctx, account)
	if err != nil {
		return 0, err
	}

	var total int64
	switch f.kind {
	case filterCategory:
		total, err = aggregate.TotalByCategory(records, f.category)
	case filterWindow:
		total, err = aggregate.TotalByTimeWindow(records, f.start, f.end)
	default:
		total, err = aggregate.Total(records)
	}
	if err != nil {
		return 0, fmt.Errorf("aggregate %s for %q: %w", f.kind, account, err)
	}

	l.plugins.EmitAggregated(ctx, account, f.kind.String(), total, time.Since(started))
	return total, nil
}

// Breakdown returns the account's totals per category.
func (l *Ledger) Breakdown(ctx context.Context, account string) (map[string]int64, error) {
	started := time.Now()

	records, err := l.History(ctx, account)
	if err != nil {
		return nil, err
	}

	totals, err := aggregate.Breakdown(records)
	if err != nil {
		return nil, fmt.Errorf("aggregate breakdown for %q: %w", account, err)
	}

	// Per-category sums can fit while their sum does not; plugins only
	// hear about breakdowns with a reportable grand total.
	if total, err := aggregate.Total(records); err == nil {
		l.plugins.EmitAggregated(ctx, account, plugin.AggregateBreakdown, total, time.Since(started))
	} else {
		l.logger.Warn("breakdown grand total overflows",
			"account", account,
			"error", err,
		)
	}

	return totals, nil
}
