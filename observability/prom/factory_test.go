package prom_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/xraph/carbon/observability"
	"github.com/xraph/carbon/observability/prom"
)

func TestFactoryRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := prom.NewFactory(reg)

	a := f.Counter("carbon.records.appended")
	b := f.Counter("carbon.records.appended")
	a.Inc()
	b.Add(2)

	c, ok := a.(prometheus.Counter)
	if !ok {
		t.Fatalf("counter is %T", a)
	}
	if got := testutil.ToFloat64(c); got != 3 {
		t.Errorf("counter = %v, want 3", got)
	}
}

func TestMetricsExtensionRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetricsExtension(prom.NewFactory(reg))

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"carbon_records_appended_total",
		"carbon_store_errors_total",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}
