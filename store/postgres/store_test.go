package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"

	"github.com/xraph/carbon/store"
	"github.com/xraph/carbon/store/postgres"
	"github.com/xraph/carbon/store/storetest"
)

// newStore opens a migrated, emptied store on the database named by
// CARBON_TEST_POSTGRES_DSN. The test is skipped when the variable is unset.
func newStore(t *testing.T) *postgres.Store {
	t.Helper()

	dsn := os.Getenv("CARBON_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CARBON_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	drv := pgdriver.New()
	if err := drv.Open(ctx, dsn); err != nil {
		t.Fatal(err)
	}
	db, err := grove.Open(drv)
	if err != nil {
		t.Fatal(err)
	}

	s := postgres.New(db)
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		t.Fatal(err)
	}
	if _, err := drv.NewRaw(`TRUNCATE carbon_emission_records`).Exec(ctx); err != nil {
		_ = s.Close()
		t.Fatal(err)
	}
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return newStore(t) })
}
