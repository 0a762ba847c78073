package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/carbon/record"
)

// hookTimeout bounds a single plugin callback.
const hookTimeout = 5 * time.Second

// Registry manages registered plugins and dispatches hooks to them.
// Hook implementations are discovered once at registration time.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger

	onInit             []OnInit
	onShutdown         []OnShutdown
	onEmissionRecorded []OnEmissionRecorded
	onRecordRejected   []OnRecordRejected
	onAggregated       []OnAggregated
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger: slog.Default(),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// Register adds a plugin to the registry and caches its hooks.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnEmissionRecorded); ok {
		r.onEmissionRecorded = append(r.onEmissionRecorded, v)
	}
	if v, ok := p.(OnRecordRejected); ok {
		r.onRecordRejected = append(r.onRecordRejected, v)
	}
	if v, ok := p.(OnAggregated); ok {
		r.onAggregated = append(r.onAggregated, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedInterfaces(p),
	)

	return nil
}

func implementedInterfaces(p Plugin) []string {
	var interfaces []string
	v := reflect.TypeOf(p)

	check := func(iface reflect.Type, name string) {
		if v.Implements(iface) {
			interfaces = append(interfaces, name)
		}
	}

	check(reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit")
	check(reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown")
	check(reflect.TypeOf((*OnEmissionRecorded)(nil)).Elem(), "OnEmissionRecorded")
	check(reflect.TypeOf((*OnRecordRejected)(nil)).Elem(), "OnRecordRejected")
	check(reflect.TypeOf((*OnAggregated)(nil)).Elem(), "OnAggregated")

	return interfaces
}

// Get returns a plugin by name, or nil.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, l any) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p.Name(), "OnInit", func() error {
			return p.OnInit(ctx, l)
		})
	}
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p.Name(), "OnShutdown", func() error {
			return p.OnShutdown(ctx)
		})
	}
}

// EmitEmissionRecorded notifies plugins of an appended record.
func (r *Registry) EmitEmissionRecorded(ctx context.Context, rec record.Record) {
	r.mu.RLock()
	plugins := r.onEmissionRecorded
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p.Name(), "OnEmissionRecorded", func() error {
			return p.OnEmissionRecorded(ctx, rec)
		})
	}
}

// EmitRecordRejected notifies plugins of a failed append.
func (r *Registry) EmitRecordRejected(ctx context.Context, account, category string, cause error) {
	r.mu.RLock()
	plugins := r.onRecordRejected
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p.Name(), "OnRecordRejected", func() error {
			return p.OnRecordRejected(ctx, account, category, cause)
		})
	}
}

// EmitAggregated notifies plugins of a completed aggregate query.
func (r *Registry) EmitAggregated(ctx context.Context, account, kind string, total int64, elapsed time.Duration) {
	r.mu.RLock()
	plugins := r.onAggregated
	r.mu.RUnlock()

	for _, p := range plugins {
		r.dispatch(ctx, p.Name(), "OnAggregated", func() error {
			return p.OnAggregated(ctx, account, kind, total, elapsed)
		})
	}
}

// dispatch runs a hook and logs its failure. Hook errors never reach the
// ledger caller.
func (r *Registry) dispatch(ctx context.Context, name, hook string, fn func() error) {
	if err := r.callWithTimeout(ctx, name, fn); err != nil {
		r.logger.Warn("plugin "+hook+" failed",
			"plugin", name,
			"error", err,
		)
	}
}

func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(hookTimeout):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
