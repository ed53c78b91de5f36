package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetricsRegistersOnRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	m.EmailsFetched.Add(3)
	m.Runs.WithLabelValues(StatusFailed).Inc()
	m.ErrorsCount.WithLabelValues("fetch_inbox").Inc()

	if got := testutil.ToFloat64(m.EmailsFetched); got != 3 {
		t.Errorf("emails fetched = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.Runs.WithLabelValues(StatusFailed)); got != 1 {
		t.Errorf("failed runs = %v, want 1", got)
	}

	n, err := testutil.GatherAndCount(reg, "test_errors_total")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if n != 1 {
		t.Errorf("errors_total series = %d, want 1", n)
	}
}

func TestNewMetricsSeparateRegistries(t *testing.T) {
	// Two instances on separate registries must not collide.
	NewMetrics("dup", prometheus.NewRegistry())
	NewMetrics("dup", prometheus.NewRegistry())
}
