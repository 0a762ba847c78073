package id_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/xraph/carbon/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"RecordID", id.NewRecordID, "emr_"},
		{"RequestID", id.NewRequestID, "req_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestParseRecordID(t *testing.T) {
	original := id.NewRecordID()
	parsed, err := id.ParseRecordID(original.String())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.String() != original.String() {
		t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
	}
}

func TestParseRecordIDRejectsOtherPrefix(t *testing.T) {
	if _, err := id.ParseRecordID(id.NewRequestID().String()); err == nil {
		t.Error("expected error for request ID parsed as record ID")
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := id.Parse(""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestNilID(t *testing.T) {
	var i id.ID
	if !i.IsNil() {
		t.Error("zero value should be nil")
	}
	if i.String() != "" {
		t.Errorf("expected empty string, got %q", i.String())
	}
	v, err := i.Value()
	if err != nil || v != nil {
		t.Errorf("expected nil value, got %v (%v)", v, err)
	}
}

func TestScan(t *testing.T) {
	original := id.NewRecordID()

	tests := []struct {
		name string
		src  any
		wantNil bool
	}{
		{"string", original.String(), false},
		{"bytes", []byte(original.String()), false},
		{"nil", nil, true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got id.ID
			if err := got.Scan(tt.src); err != nil {
				t.Fatalf("scan: %v", err)
			}
			if got.IsNil() != tt.wantNil {
				t.Fatalf("IsNil = %v, want %v", got.IsNil(), tt.wantNil)
			}
			if !tt.wantNil && got.String() != original.String() {
				t.Errorf("got %q, want %q", got.String(), original.String())
			}
		})
	}

	var bad id.ID
	if err := bad.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}

func TestJSON(t *testing.T) {
	type wrapper struct {
		ID id.ID `json:"id"`
	}
	in := wrapper{ID: id.NewRecordID()}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out wrapper
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.ID.String() != in.ID.String() {
		t.Errorf("got %q, want %q", out.ID.String(), in.ID.String())
	}
}
