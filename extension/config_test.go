package extension

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/xraph/carbon/store/memory"
)

func TestMergeConfigurations(t *testing.T) {
	tests := []struct {
		name         string
		yaml, prog   Config
		wantBase     string
		wantHeader   string
		wantNoRoutes bool
	}{
		{
			name:       "defaults",
			wantBase:   "/carbon",
			wantHeader: "X-Carbon-Account",
		},
		{
			name:       "yaml wins",
			yaml:       Config{BasePath: "/emissions", AccountHeader: "X-User"},
			prog:       Config{BasePath: "/other", AccountHeader: "X-Other"},
			wantBase:   "/emissions",
			wantHeader: "X-User",
		},
		{
			name:         "programmatic fills gaps",
			prog:         Config{BasePath: "/api/carbon", DisableRoutes: true},
			wantBase:     "/api/carbon",
			wantHeader:   "X-Carbon-Account",
			wantNoRoutes: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeConfigurations(tt.yaml, tt.prog)
			if got.BasePath != tt.wantBase || got.AccountHeader != tt.wantHeader || got.DisableRoutes != tt.wantNoRoutes {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestBuildProvidesHandler(t *testing.T) {
	e := New(WithStore(memory.New()), WithAccountHeader("X-User"))
	e.config = mergeWithDefaults(e.config)
	e.build()

	if e.Engine() == nil || e.Handler() == nil {
		t.Fatal("expected engine and handler")
	}

	req := httptest.NewRequestWithContext(context.Background(), http.MethodPost, "/carbon/records",
		strings.NewReader(`{"amount":3,"category":"energy"}`))
	req.Header.Set("X-User", "alice")
	rec := httptest.NewRecorder()
	e.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if got, _ := e.Engine().Total(context.Background(), "alice"); got != 3 {
		t.Errorf("total = %d, want 3", got)
	}
}

func TestBuildWithoutRoutes(t *testing.T) {
	e := New(WithDisableRoutes())
	e.config = mergeWithDefaults(e.config)
	e.build()

	if e.Handler() != nil {
		t.Error("handler built despite DisableRoutes")
	}
	if err := e.Health(context.Background()); err != nil {
		t.Errorf("health: %v", err)
	}
}

type initCounter struct {
	n atomic.Int32
}

func (c *initCounter) Name() string { return "init-counter" }

func (c *initCounter) OnInit(context.Context, any) error {
	c.n.Add(1)
	return nil
}

// readOnlyStore refuses schema changes.
type readOnlyStore struct {
	*memory.Store
}

func (readOnlyStore) Migrate(context.Context) error { return errors.New("permission denied") }

func TestStartWithDisableMigrateInitsPlugins(t *testing.T) {
	counter := &initCounter{}
	e := New(WithStore(readOnlyStore{memory.New()}), WithDisableMigrate(), WithPlugin(counter))
	e.config = mergeWithDefaults(e.config)
	e.build()

	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := counter.n.Load(); got != 1 {
		t.Errorf("OnInit calls = %d, want 1", got)
	}
	if err := e.Stop(context.Background()); err != nil {
		t.Errorf("Stop: %v", err)
	}
}
