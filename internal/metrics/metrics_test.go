package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorageRegistersCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorage(reg)

	m.Commits.WithLabelValues("profiles").Inc()
	m.Commits.WithLabelValues("profiles").Inc()
	m.LoadFallbacks.WithLabelValues("profiles", "decode").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Commits.WithLabelValues("profiles")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadFallbacks.WithLabelValues("profiles", "decode")))

	count, err := testutil.GatherAndCount(reg, "health_tracker_storage_commits_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewStorageWithoutRegistry(t *testing.T) {
	m := NewStorage(nil)
	m.CommitFailures.WithLabelValues("k").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommitFailures.WithLabelValues("k")))
}

func TestSummary(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorage(reg)
	m.Loads.WithLabelValues("active").Inc()
	m.LoadFallbacks.WithLabelValues("active", "missing").Inc()

	summary, err := Summary(reg)
	require.NoError(t, err)
	assert.Equal(t, 1.0, summary["health_tracker_storage_loads_total{key=active}"])
	assert.Equal(t, 1.0, summary["health_tracker_storage_load_fallbacks_total{key=active}{reason=missing}"])
}
