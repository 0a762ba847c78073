package mongo

import (
	"testing"

	"github.com/xraph/carbon/store/storetest"
)

func TestRecordModelRoundTrip(t *testing.T) {
	want := storetest.NewRecord("alice", 1700000000, 125, "energy")

	m := toRecordModel(want, 7)
	if m.Seq != 7 || m.ID != want.ID.String() {
		t.Fatalf("unexpected model: %+v", m)
	}

	got, err := fromRecordModel(m)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID.String() != want.ID.String() || got.Account != want.Account ||
		got.Timestamp != want.Timestamp || got.Amount != want.Amount || got.Category != want.Category {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestMigrationIndexesOrderByAccountSeq(t *testing.T) {
	idx, ok := migrationIndexes()[colRecords]
	if !ok || len(idx) != 1 {
		t.Fatalf("expected one index on %s, got %v", colRecords, idx)
	}
	if idx[0].Options == nil {
		t.Fatal("account/seq index must be unique")
	}
}
