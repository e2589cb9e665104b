package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/aurelh/chronoplan/core/metrics"
	"github.com/aurelh/chronoplan/core/model"
)

func TestPromSink_RecordGeneration(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("NewPromSinkWithRegistry: %v", err)
	}
	ps := sink.(*PromSink)

	ev := coremetrics.GenerationEvent{
		Outcome: coremetrics.OutcomeAccepted,
		Summary: model.ScheduleMetrics{UtilizationRatio: 0.6},
	}
	if err := sink.RecordGeneration(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if err := sink.RecordGeneration(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}

	if got := testutil.ToFloat64(ps.outcomes.WithLabelValues("accepted")); got != 2 {
		t.Fatalf("accepted counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(ps.utilization); got != 0.6 {
		t.Fatalf("utilization gauge = %v, want 0.6", got)
	}
}

func TestPromSink_FailedGenerationKeepsUtilization(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("NewPromSinkWithRegistry: %v", err)
	}
	ps := sink.(*PromSink)

	_ = sink.RecordGeneration(coremetrics.GenerationEvent{
		Outcome: coremetrics.OutcomeAccepted,
		Summary: model.ScheduleMetrics{UtilizationRatio: 0.8},
	})
	_ = sink.RecordGeneration(coremetrics.GenerationEvent{Outcome: coremetrics.OutcomeFailed})

	if got := testutil.ToFloat64(ps.utilization); got != 0.8 {
		t.Fatalf("utilization gauge = %v, want 0.8", got)
	}
}

func TestPromSink_CapabilityRecorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("NewPromSinkWithRegistry: %v", err)
	}
	ps := sink.(*PromSink)

	rec, ok := sink.(coremetrics.FallbackRecorder)
	if !ok {
		t.Fatal("PromSink should implement FallbackRecorder")
	}
	_ = rec.RecordFallback(coremetrics.FallbackEvent{Time: time.Now()})
	if got := testutil.ToFloat64(ps.fallbacks); got != 1 {
		t.Fatalf("fallback counter = %v, want 1", got)
	}

	stageRec, ok := sink.(coremetrics.StageRecorder)
	if !ok {
		t.Fatal("PromSink should implement StageRecorder")
	}
	_ = stageRec.RecordStage(coremetrics.StageEvent{Stage: "solving"})
	_ = stageRec.RecordStage(coremetrics.StageEvent{Stage: "solving"})
	if got := testutil.ToFloat64(ps.stages.WithLabelValues("solving")); got != 2 {
		t.Fatalf("stage counter = %v, want 2", got)
	}
}

func TestPromSink_ReRegistrationReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration: %v", err)
	}
}
