package builder

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes build counters for scraping (the preview server mounts
// them at /metrics). All metrics are optional: a builder without metrics
// records nothing.
type Metrics struct {
	built    prometheus.Counter
	fresh    prometheus.Counter
	failed   prometheus.Counter
	removed  prometheus.Counter
	duration prometheus.Histogram
}

// NewMetrics creates and registers build metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		built: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "viewsnap",
			Name:      "artifacts_built_total",
			Help:      "Artifacts re-rendered because their dependency fingerprint changed.",
		}),
		fresh: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "viewsnap",
			Name:      "artifacts_fresh_total",
			Help:      "Artifacts skipped because their fingerprint matched the manifest.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "viewsnap",
			Name:      "artifacts_failed_total",
			Help:      "Entries whose render collaborator failed.",
		}),
		removed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "viewsnap",
			Name:      "artifacts_removed_total",
			Help:      "Orphaned artifacts reconciled out of the store and manifest.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "viewsnap",
			Name:      "build_duration_seconds",
			Help:      "Wall-clock duration of full build passes.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.built, m.fresh, m.failed, m.removed, m.duration)
	return m
}

// observe records the outcome of one build pass.
func (m *Metrics) observe(report *Report) {
	if m == nil {
		return
	}
	m.built.Add(float64(len(report.Built)))
	m.fresh.Add(float64(len(report.Fresh)))
	m.failed.Add(float64(len(report.Failures)))
	m.removed.Add(float64(len(report.Removed)))
	m.duration.Observe(report.Duration.Seconds())
}
