package mongo_test

import (
	"context"
	"os"
	"testing"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/carbon/store"
	"github.com/xraph/carbon/store/mongo"
	"github.com/xraph/carbon/store/storetest"
)

// newStore opens a migrated store on an empty database at the server named
// by CARBON_TEST_MONGO_URI. The test is skipped when the variable is unset.
func newStore(t *testing.T) *mongo.Store {
	t.Helper()

	uri := os.Getenv("CARBON_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("CARBON_TEST_MONGO_URI not set")
	}
	ctx := context.Background()

	drv := mongodriver.New()
	if err := drv.Open(ctx, uri, mongodriver.WithDatabase("carbon_test")); err != nil {
		t.Fatal(err)
	}
	if err := drv.Database().Drop(ctx); err != nil {
		t.Fatal(err)
	}
	db, err := grove.Open(drv)
	if err != nil {
		t.Fatal(err)
	}

	s := mongo.New(db)
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		t.Fatal(err)
	}
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return newStore(t) })
}
