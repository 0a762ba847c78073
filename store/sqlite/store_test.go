package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"

	"github.com/xraph/carbon"
	"github.com/xraph/carbon/store"
	"github.com/xraph/carbon/store/sqlite"
	"github.com/xraph/carbon/store/storetest"
)

// newStore opens a migrated store on a fresh database file.
func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	ctx := context.Background()

	drv := sqlitedriver.New()
	if err := drv.Open(ctx, filepath.Join(t.TempDir(), "carbon.db")); err != nil {
		t.Fatal(err)
	}
	db, err := grove.Open(drv)
	if err != nil {
		t.Fatal(err)
	}

	s := sqlite.New(db)
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		t.Fatal(err)
	}
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return newStore(t) })
}

func TestMigrateTwice(t *testing.T) {
	s := newStore(t)
	defer s.Close()

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestLedgerOnSQLite(t *testing.T) {
	ctx := context.Background()
	l := carbon.New(newStore(t))
	if err := l.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer l.Stop()

	for _, r := range []struct {
		amount   int64
		category string
	}{
		{100, "energy"},
		{50, "transport"},
		{25, "energy"},
	} {
		if _, err := l.Record(ctx, "alice", r.amount, r.category); err != nil {
			t.Fatal(err)
		}
	}

	total, err := l.Total(ctx, "alice")
	if err != nil || total != 175 {
		t.Fatalf("Total = %d, %v; want 175", total, err)
	}
	energy, err := l.TotalByCategory(ctx, "alice", "energy")
	if err != nil || energy != 125 {
		t.Fatalf("TotalByCategory = %d, %v; want 125", energy, err)
	}
}
