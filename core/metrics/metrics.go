package metrics

import (
	"time"

	"github.com/google/uuid"

	"github.com/aurelh/chronoplan/core/model"
)

// Generation outcomes recorded on sinks.
const (
	OutcomeAccepted = "accepted"
	OutcomeFallback = "fallback"
	OutcomeFailed   = "failed"
)

// GenerationEvent summarizes one completed schedule generation.
type GenerationEvent struct {
	UserID        uuid.UUID
	ScheduleID    uuid.UUID
	Date          string
	Outcome       string
	SolveDuration time.Duration
	TasksPlaced   int
	TasksSkipped  int
	Summary       model.ScheduleMetrics
	Time          time.Time
}

// MetricsSink records generation results for observability purposes.
type MetricsSink interface {
	RecordGeneration(ev GenerationEvent) error
}

// SolveEvent captures one solver run.
type SolveEvent struct {
	Date      string
	Duration  time.Duration
	Placed    int
	Skipped   int
	Excluded  int
	Objective int
	Optimal   bool
	Time      time.Time
}

// SolveRecorder records solver runs.
type SolveRecorder interface {
	RecordSolve(ev SolveEvent) error
}

// FallbackEvent records a schedule rebuilt by the deterministic formatter
// after refinement failed or produced an invalid plan.
type FallbackEvent struct {
	UserID  uuid.UUID
	Date    string
	Reasons []string
	Time    time.Time
}

// FallbackRecorder records fallback applications.
type FallbackRecorder interface {
	RecordFallback(ev FallbackEvent) error
}

// StageEvent marks a generation pipeline transition.
type StageEvent struct {
	UserID uuid.UUID
	Date   string
	Stage  string
	Time   time.Time
}

// StageRecorder records pipeline stage transitions.
type StageRecorder interface {
	RecordStage(ev StageEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordGeneration(GenerationEvent) error { return nil }
func (NopSink) RecordSolve(SolveEvent) error           { return nil }
func (NopSink) RecordFallback(FallbackEvent) error     { return nil }
func (NopSink) RecordStage(StageEvent) error           { return nil }

// MultiSink fans events out to multiple sinks. Optional capabilities are
// forwarded only to sinks implementing the matching recorder interface.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordGeneration forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordGeneration(ev GenerationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordGeneration(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSolve forwards solver runs.
func (m *MultiSink) RecordSolve(ev SolveEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SolveRecorder); ok {
			if err := rec.RecordSolve(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFallback forwards fallback events.
func (m *MultiSink) RecordFallback(ev FallbackEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(FallbackRecorder); ok {
			if err := rec.RecordFallback(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordStage forwards stage transitions.
func (m *MultiSink) RecordStage(ev StageEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(StageRecorder); ok {
			if err := rec.RecordStage(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
