package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/aurelh/chronoplan/core/metrics"
)

// PromSink records generation outcomes in Prometheus metrics.
type PromSink struct {
	outcomes    *prometheus.CounterVec
	solve       *prometheus.HistogramVec
	fallbacks   prometheus.Counter
	utilization prometheus.Gauge
	stages      *prometheus.CounterVec
}

// NewPromSink registers generation metrics on the default Prometheus
// registerer. The Prometheus server should be started separately.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_outcomes_total",
		Help: "Schedule generations by outcome",
	}, []string{"outcome"})
	solve := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solver_run_seconds",
		Help:    "Solver run duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"optimal"})
	fallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "refinement_fallbacks_total",
		Help: "Refined schedules replaced by the deterministic formatter",
	})
	utilization := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "last_schedule_utilization_ratio",
		Help: "Utilization ratio of the most recent schedule",
	})
	stages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_stages_total",
		Help: "Generation pipeline stage transitions",
	}, []string{"stage"})

	if err := reg.Register(outcomes); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			outcomes = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(solve); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solve = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fallbacks); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fallbacks = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(utilization); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			utilization = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(stages); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			stages = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		outcomes:    outcomes,
		solve:       solve,
		fallbacks:   fallbacks,
		utilization: utilization,
		stages:      stages,
	}, nil
}

// RecordGeneration increments the outcome counter and updates the
// utilization gauge.
func (s *PromSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	s.outcomes.WithLabelValues(ev.Outcome).Inc()
	if ev.Outcome != coremetrics.OutcomeFailed {
		s.utilization.Set(ev.Summary.UtilizationRatio)
	}
	return nil
}

// RecordSolve observes the solver run duration.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.solve.WithLabelValues(strconv.FormatBool(ev.Optimal)).Observe(ev.Duration.Seconds())
	return nil
}

// RecordFallback counts deterministic fallback applications.
func (s *PromSink) RecordFallback(coremetrics.FallbackEvent) error {
	s.fallbacks.Inc()
	return nil
}

// RecordStage counts pipeline stage transitions.
func (s *PromSink) RecordStage(ev coremetrics.StageEvent) error {
	s.stages.WithLabelValues(ev.Stage).Inc()
	return nil
}
