// Package metrics counts persistent store activity per storage key.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "health_tracker"

// Storage holds the counters updated by the storage package.
type Storage struct {
	Commits        *prometheus.CounterVec
	CommitFailures *prometheus.CounterVec
	Loads          *prometheus.CounterVec
	LoadFallbacks  *prometheus.CounterVec
}

// NewStorage creates the storage counters and registers them on reg.
// A nil reg leaves the counters unregistered.
func NewStorage(reg prometheus.Registerer) *Storage {
	m := &Storage{
		Commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "commits_total",
			Help:      "Values successfully written, by key.",
		}, []string{"key"}),
		CommitFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "commit_failures_total",
			Help:      "Writes rejected by the backend, by key.",
		}, []string{"key"}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "loads_total",
			Help:      "Load attempts, by key.",
		}, []string{"key"}),
		LoadFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "load_fallbacks_total",
			Help:      "Loads that returned the default value, by key and reason.",
		}, []string{"key", "reason"}),
	}
	if reg != nil {
		reg.MustRegister(m.Commits, m.CommitFailures, m.Loads, m.LoadFallbacks)
	}
	return m
}

// Summary flattens every counter sample into "name{labels}" -> value pairs,
// for dumping into a log line.
func Summary(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range m.GetLabel() {
				name += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}
			if c := m.GetCounter(); c != nil {
				out[name] = c.GetValue()
			}
		}
	}
	return out, nil
}
