// Package storetest is a conformance suite for store.Store backends.
//
// Backends call Run from their own tests with a factory returning an empty,
// migrated store:
//
//	func TestConformance(t *testing.T) {
//	    storetest.Run(t, func(t *testing.T) store.Store { return memory.New() })
//	}
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/xraph/carbon/id"
	"github.com/xraph/carbon/record"
	"github.com/xraph/carbon/store"
)

// Factory returns an empty store ready for use.
type Factory func(t *testing.T) store.Store

// Run executes the whole suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"EmptyHistory", testEmptyHistory},
		{"AppendOrder", testAppendOrder},
		{"AccountIsolation", testAccountIsolation},
		{"HistoryIsCopy", testHistoryIsCopy},
		{"ExactCategory", testExactCategory},
		{"ConcurrentAppends", testConcurrentAppends},
		{"ConcurrentFirstAppends", testConcurrentFirstAppends},
		{"Ping", testPing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

// NewRecord builds a record with a fresh ID.
func NewRecord(account string, ts, amount int64, category string) record.Record {
	return record.Record{
		ID:        id.NewRecordID(),
		Account:   account,
		Timestamp: ts,
		Amount:    amount,
		Category:  category,
	}
}

func mustAppend(t *testing.T, s store.Store, rec record.Record) {
	t.Helper()
	if err := s.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func mustHistory(t *testing.T, s store.Store, account string) []record.Record {
	t.Helper()
	got, err := s.History(context.Background(), account)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	return got
}

func testEmptyHistory(t *testing.T, s store.Store) {
	got := mustHistory(t, s, "nobody")
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Fatalf("expected 0 records, got %d", len(got))
	}
}

func testAppendOrder(t *testing.T, s store.Store) {
	want := []record.Record{
		NewRecord("alice", 10, 100, "transport"),
		NewRecord("alice", 10, 50, "energy"),
		NewRecord("alice", 12, 25, "transport"),
	}
	for _, r := range want {
		mustAppend(t, s, r)
	}

	got := mustHistory(t, s, "alice")
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID.String() != want[i].ID.String() {
			t.Errorf("record %d: id %s, want %s", i, got[i].ID, want[i].ID)
		}
		if got[i].Account != want[i].Account ||
			got[i].Timestamp != want[i].Timestamp ||
			got[i].Amount != want[i].Amount ||
			got[i].Category != want[i].Category {
			t.Errorf("record %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func testAccountIsolation(t *testing.T, s store.Store) {
	mustAppend(t, s, NewRecord("alice", 1, 1, "a"))
	mustAppend(t, s, NewRecord("bob", 1, 2, "a"))
	mustAppend(t, s, NewRecord("alice", 2, 3, "a"))

	if got := mustHistory(t, s, "alice"); len(got) != 2 {
		t.Errorf("alice: expected 2 records, got %d", len(got))
	}
	if got := mustHistory(t, s, "bob"); len(got) != 1 {
		t.Errorf("bob: expected 1 record, got %d", len(got))
	}
}

func testHistoryIsCopy(t *testing.T, s store.Store) {
	mustAppend(t, s, NewRecord("alice", 1, 5, "a"))

	first := mustHistory(t, s, "alice")
	first[0].Amount = 999
	first[0].Category = "tampered"

	second := mustHistory(t, s, "alice")
	if second[0].Amount != 5 || second[0].Category != "a" {
		t.Errorf("stored record changed through returned slice: %+v", second[0])
	}
}

func testExactCategory(t *testing.T, s store.Store) {
	categories := []string{"Transport", "transport", " transport", "", "énergie"}
	for i, c := range categories {
		mustAppend(t, s, NewRecord("alice", int64(i), 1, c))
	}

	got := mustHistory(t, s, "alice")
	for i, c := range categories {
		if got[i].Category != c {
			t.Errorf("record %d: category %q, want %q", i, got[i].Category, c)
		}
	}
}

func testConcurrentAppends(t *testing.T, s store.Store) {
	const writers, perWriter = 8, 25

	var wg sync.WaitGroup
	errs := make(chan error, writers*perWriter)
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				rec := NewRecord("shared", int64(i), 1, fmt.Sprintf("w%d", w))
				if err := s.Append(context.Background(), rec); err != nil {
					errs <- err
				}
			}
		}()
	}

	// Readers run alongside writers and must never see a torn record.
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWriter {
				recs, err := s.History(context.Background(), "shared")
				if err != nil {
					errs <- err
					return
				}
				for _, r := range recs {
					if r.ID.IsNil() || r.Amount != 1 || r.Account != "shared" {
						errs <- fmt.Errorf("torn record: %+v", r)
						return
					}
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	if got := mustHistory(t, s, "shared"); len(got) != writers*perWriter {
		t.Errorf("expected %d records, got %d", writers*perWriter, len(got))
	}
}

func testConcurrentFirstAppends(t *testing.T, s store.Store) {
	const accounts = 20

	var wg sync.WaitGroup
	for a := range accounts {
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rec := NewRecord(fmt.Sprintf("acct-%d", a), 1, 1, "x")
				if err := s.Append(context.Background(), rec); err != nil {
					t.Errorf("append: %v", err)
				}
			}()
		}
	}
	wg.Wait()

	for a := range accounts {
		if got := mustHistory(t, s, fmt.Sprintf("acct-%d", a)); len(got) != 2 {
			t.Errorf("acct-%d: expected 2 records, got %d", a, len(got))
		}
	}
}

func testPing(t *testing.T, s store.Store) {
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
}
