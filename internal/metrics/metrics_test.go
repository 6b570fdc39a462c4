package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/griphus/internal/ports"
)

func TestObserveSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveSolve("solved", ports.Stats{Ticks: 40, Searches: 10, DeadEnds: 3, Duplicates: 2, Solutions: 1, CacheSize: 8, Duration: time.Millisecond})
	r.ObserveSolve("exhausted", ports.Stats{Ticks: 5, Searches: 4, DeadEnds: 4, CacheSize: 3})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.solves.WithLabelValues("solved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.solves.WithLabelValues("exhausted")))
	assert.Equal(t, 14.0, testutil.ToFloat64(r.searches))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.deadEnds))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.duplicates))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.solutions))
	assert.Equal(t, 45.0, testutil.ToFloat64(r.ticks))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.cacheSize), "gauge keeps the last run")

	n, err := testutil.GatherAndCount(reg, "griphus_solver_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() { r.ObserveSolve("solved", ports.Stats{Searches: 1}) })
}

func TestUnregistered(t *testing.T) {
	a, b := New(nil), New(nil)
	a.ObserveSolve("solved", ports.Stats{Searches: 2})
	assert.Equal(t, 2.0, testutil.ToFloat64(a.searches))
	assert.Zero(t, testutil.ToFloat64(b.searches))
}
