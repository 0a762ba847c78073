package memory_test

import (
	"context"
	"testing"

	"github.com/xraph/carbon/store"
	"github.com/xraph/carbon/store/memory"
	"github.com/xraph/carbon/store/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(*testing.T) store.Store { return memory.New() })
}

func TestAccountsCountsOnlyWriters(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	if _, err := s.History(ctx, "reader"); err != nil {
		t.Fatal(err)
	}
	if s.Accounts() != 0 {
		t.Errorf("reading must not create an account, got %d", s.Accounts())
	}

	if err := s.Append(ctx, storetest.NewRecord("writer", 1, 1, "x")); err != nil {
		t.Fatal(err)
	}
	if s.Accounts() != 1 {
		t.Errorf("expected 1 account, got %d", s.Accounts())
	}
}
