// Package metrics exports search counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"svw.info/griphus/internal/ports"
)

const namespace = "griphus"

// Recorder aggregates the cost of finished searches. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	solves     *prometheus.CounterVec
	searches   prometheus.Counter
	deadEnds   prometheus.Counter
	duplicates prometheus.Counter
	solutions  prometheus.Counter
	ticks      prometheus.Counter
	cacheSize  prometheus.Gauge
	duration   *prometheus.HistogramVec
}

// New creates a Recorder registered on reg. A nil reg leaves the collectors
// unregistered, which keeps tests independent of the global registry.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		solves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "runs_total",
			Help:      "Finished searches by outcome",
		}, []string{"outcome"}),
		searches: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "searches_total",
			Help:      "States examined by the search",
		}),
		deadEnds: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "dead_ends_total",
			Help:      "Branches pruned as dead ends",
		}),
		duplicates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "duplicates_total",
			Help:      "Branches pruned because the state was already visited",
		}),
		solutions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "solutions_total",
			Help:      "Exits reached",
		}),
		ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "ticks_total",
			Help:      "Controller ticks executed",
		}),
		cacheSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "last_cache_size",
			Help:      "Distinct states recorded by the most recent search",
		}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "duration_seconds",
			Help:      "Wall time of a search",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}, []string{"outcome"}),
	}
}

// ObserveSolve records one finished search.
func (r *Recorder) ObserveSolve(outcome string, st ports.Stats) {
	if r == nil {
		return
	}
	r.solves.WithLabelValues(outcome).Inc()
	r.searches.Add(float64(st.Searches))
	r.deadEnds.Add(float64(st.DeadEnds))
	r.duplicates.Add(float64(st.Duplicates))
	r.solutions.Add(float64(st.Solutions))
	r.ticks.Add(float64(st.Ticks))
	r.cacheSize.Set(float64(st.CacheSize))
	r.duration.WithLabelValues(outcome).Observe(st.Duration.Seconds())
}
