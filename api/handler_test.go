package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/xraph/carbon"
	"github.com/xraph/carbon/api"
	"github.com/xraph/carbon/store/memory"
)

func newServer(t *testing.T, opts ...carbon.Option) (*carbon.Ledger, *httptest.Server) {
	t.Helper()
	l := carbon.New(memory.New(), opts...)
	srv := httptest.NewServer(api.NewHandler(l, "/carbon"))
	t.Cleanup(srv.Close)
	return l, srv
}

func do(t *testing.T, method, url, account, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if account != "" {
		req.Header.Set(api.DefaultAccountHeader, account)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestCreateRecord(t *testing.T) {
	_, srv := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/carbon/records", "alice", `{"amount":100,"category":"energy"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if resp.Header.Get(api.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}

	var rec carbon.Record
	decode(t, resp, &rec)
	if rec.Account != "alice" || rec.Amount != 100 || rec.Category != "energy" || rec.ID.IsNil() {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestCreateRecordStringAmount(t *testing.T) {
	_, srv := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/carbon/records", "alice", `{"amount":"75","category":"transport"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
}

func TestCreateRecordErrors(t *testing.T) {
	_, srv := newServer(t)

	tests := []struct {
		name    string
		account string
		body    string
		want    int
	}{
		{"negative", "alice", `{"amount":-5,"category":"energy"}`, http.StatusBadRequest},
		{"non-numeric", "alice", `{"amount":"lots","category":"energy"}`, http.StatusBadRequest},
		{"fraction", "alice", `{"amount":1.5,"category":"energy"}`, http.StatusBadRequest},
		{"missing amount", "alice", `{"category":"energy"}`, http.StatusBadRequest},
		{"malformed body", "alice", `{`, http.StatusBadRequest},
		{"no identity", "", `{"amount":1,"category":"energy"}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/carbon/records", tt.account, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestWritesGoToCallerOnly(t *testing.T) {
	_, srv := newServer(t)

	do(t, http.MethodPost, srv.URL+"/carbon/records", "alice", `{"amount":5,"category":"energy"}`)

	var bob struct {
		Records []carbon.Record `json:"records"`
	}
	decode(t, do(t, http.MethodGet, srv.URL+"/carbon/accounts/bob/records", "", ""), &bob)
	if len(bob.Records) != 0 {
		t.Fatalf("bob has %d records, want 0", len(bob.Records))
	}
}

func TestTotals(t *testing.T) {
	var now int64 = 10
	l, srv := newServer(t, carbon.WithClock(func() time.Time { return time.Unix(now, 0) }))
	ctx := context.Background()

	for _, r := range []struct {
		ts       int64
		amount   int64
		category string
	}{
		{10, 100, "energy"},
		{20, 50, "transport"},
		{30, 25, "energy"},
	} {
		now = r.ts
		if _, err := l.Record(ctx, "alice", r.amount, r.category); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		query string
		want  int64
	}{
		{"all", "", 175},
		{"category", "?category=energy", 125},
		{"unknown category", "?category=Energy", 0},
		{"window", "?start=15&end=30", 75},
		{"inclusive window", "?start=10&end=10", 100},
		{"inverted window", "?start=30&end=10", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodGet, srv.URL+"/carbon/accounts/alice/total"+tt.query, "", "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			var body struct {
				Total int64 `json:"total"`
			}
			decode(t, resp, &body)
			if body.Total != tt.want {
				t.Errorf("total = %d, want %d", body.Total, tt.want)
			}
		})
	}
}

func TestTotalBadQuery(t *testing.T) {
	_, srv := newServer(t)

	for _, q := range []string{"?start=x&end=1", "?start=1&end=y", "?category=a&start=1&end=2"} {
		resp := do(t, http.MethodGet, srv.URL+"/carbon/accounts/alice/total"+q, "", "")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestBreakdown(t *testing.T) {
	l, srv := newServer(t)
	ctx := context.Background()

	for _, c := range []string{"energy", "energy", "transport"} {
		if _, err := l.Record(ctx, "alice", 10, c); err != nil {
			t.Fatal(err)
		}
	}

	var body struct {
		Categories map[string]int64 `json:"categories"`
	}
	decode(t, do(t, http.MethodGet, srv.URL+"/carbon/accounts/alice/breakdown", "", ""), &body)
	if body.Categories["energy"] != 20 || body.Categories["transport"] != 10 {
		t.Errorf("breakdown = %v", body.Categories)
	}
}

type downStore struct {
	*memory.Store
}

func (downStore) History(context.Context, string) ([]carbon.Record, error) {
	return nil, errors.New("connection refused")
}

func TestStorageUnavailable(t *testing.T) {
	l := carbon.New(downStore{memory.New()})
	srv := httptest.NewServer(api.NewHandler(l, ""))
	t.Cleanup(srv.Close)

	resp := do(t, http.MethodGet, srv.URL+"/accounts/alice/total", "", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	var body struct {
		Retryable bool `json:"retryable"`
	}
	decode(t, resp, &body)
	if !body.Retryable {
		t.Error("expected retryable flag")
	}
}

func TestOverflow(t *testing.T) {
	l, srv := newServer(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := l.Record(ctx, "alice", 1<<62, "energy"); err != nil {
			t.Fatal(err)
		}
	}

	resp := do(t, http.MethodGet, srv.URL+"/carbon/accounts/alice/total", "", "")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestNotFound(t *testing.T) {
	_, srv := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/carbon/nope", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAccountWithSlash(t *testing.T) {
	_, srv := newServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/carbon/records", "org/team", `{"amount":7,"category":"energy"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record: status = %d, want 201", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, srv.URL+"/carbon/accounts/"+url.PathEscape("org/team")+"/total", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("total: status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Account string `json:"account"`
		Total   int64  `json:"total"`
	}
	decode(t, resp, &body)
	if body.Account != "org/team" || body.Total != 7 {
		t.Errorf("got %+v, want account org/team total 7", body)
	}

	var history struct {
		Records []carbon.Record `json:"records"`
	}
	decode(t, do(t, http.MethodGet, srv.URL+"/carbon/accounts/org%2Fteam/records", "", ""), &history)
	if len(history.Records) != 1 || history.Records[0].Account != "org/team" {
		t.Errorf("history = %+v", history.Records)
	}
}
