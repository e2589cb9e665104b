package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	generationsTotal *prometheus.CounterVec
	solveDuration    prometheus.Histogram
	fallbacksTotal   prometheus.Counter
	tasksPlaced      prometheus.Counter
	tasksSkipped     prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Histogram, prometheus.Counter, prometheus.Counter, prometheus.Counter) {
	gen := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_generations_total",
			Help: "Number of schedule generations by outcome",
		},
		[]string{"outcome"},
	)
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "schedule_solve_duration_seconds",
			Help:    "Wall-clock duration of constraint solver runs",
			Buckets: prometheus.DefBuckets,
		},
	)
	fb := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "schedule_fallbacks_total",
			Help: "Number of schedules rebuilt by the deterministic fallback",
		},
	)
	placed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "schedule_tasks_placed_total",
			Help: "Number of tasks placed by the solver",
		},
	)
	skipped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "schedule_tasks_skipped_total",
			Help: "Number of tasks the solver dropped or excluded",
		},
	)
	return gen, dur, fb, placed, skipped
}

func init() {
	generationsTotal, solveDuration, fallbacksTotal, tasksPlaced, tasksSkipped = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers scheduler metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(generationsTotal, solveDuration, fallbacksTotal, tasksPlaced, tasksSkipped)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	generationsTotal, solveDuration, fallbacksTotal, tasksPlaced, tasksSkipped = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
