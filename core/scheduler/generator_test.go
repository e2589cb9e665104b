package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/aurelh/chronoplan/core/chronotype"
	"github.com/aurelh/chronoplan/core/energy"
	"github.com/aurelh/chronoplan/core/events"
	"github.com/aurelh/chronoplan/core/metrics"
	"github.com/aurelh/chronoplan/core/model"
	"github.com/aurelh/chronoplan/core/refine"
	"github.com/aurelh/chronoplan/core/sleep"
	"github.com/aurelh/chronoplan/core/solver"
	"github.com/aurelh/chronoplan/internal/eventbus"
)

// echoRefiner reproduces the deterministic formatter output, optionally
// mutated, so tests can exercise both the accepted and rejected paths.
type echoRefiner struct {
	mutate func([]model.Block) []model.Block
}

func (r echoRefiner) Refine(_ context.Context, skeleton []model.PlacedTask, rc refine.Context) ([]model.Block, error) {
	blocks := fallbackBlocks(rc.Fixed, skeleton, rc.TaskNames, 0, model.MinutesPerDay)
	if r.mutate != nil {
		blocks = r.mutate(blocks)
	}
	return blocks, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (b *recordingBus) Publish(e eventbus.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) Subscribe() <-chan eventbus.Event  { return nil }
func (b *recordingBus) Unsubscribe(<-chan eventbus.Event) {}
func (b *recordingBus) Close()                            {}

type recordingSink struct {
	generations []metrics.GenerationEvent
}

func (s *recordingSink) RecordGeneration(e metrics.GenerationEvent) error {
	s.generations = append(s.generations, e)
	return nil
}

func newTestGenerator(t *testing.T, refiner refine.Service, sink metrics.MetricsSink, bus eventbus.EventBus) *Generator {
	t.Helper()
	gen, err := NewGenerator(
		chronotype.MEQAnalyzer{},
		sleep.NewWindowCalculator(nil),
		energy.NewCurveProvider(nil),
		solver.New(solver.Config{}, nil),
		refiner,
		sink,
		bus,
		nil,
	)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return gen
}

func earlyBirdWorkday() model.ScheduleInput {
	return model.ScheduleInput{
		UserID: uuid.New(),
		Date:   "2025-03-10",
		Tasks: []model.ScheduleTask{
			{ID: uuid.New(), Name: "Review report", DurationMin: 60, Priority: 5, Energy: model.EnergyHigh},
		},
		FixedEvents: []model.FixedInterval{
			{ID: "work", Name: "Work", StartMin: 540, EndMin: 1020},
		},
		Profile: model.Profile{Age: 30, MEQScore: 70, SleepNeed: 50},
	}
}

func assertContiguousDay(t *testing.T, blocks []model.Block) {
	t.Helper()
	cursor := 0
	for _, b := range blocks {
		if b.NextDay {
			continue
		}
		if b.StartMin != cursor {
			t.Fatalf("coverage break at %s: block %q starts at %s",
				model.FormatClock(cursor), b.Name, model.FormatClock(b.StartMin))
		}
		cursor = b.EndMin
	}
	if cursor != model.MinutesPerDay {
		t.Fatalf("day ends at %s, want 24:00", model.FormatClock(cursor))
	}
}

func TestGenerateAcceptedWithoutRefiner(t *testing.T) {
	gen := newTestGenerator(t, nil, nil, nil)
	input := earlyBirdWorkday()

	out := gen.Generate(context.Background(), input)

	if out.Err != "" {
		t.Fatalf("unexpected error: %s", out.Err)
	}
	if out.Fallback {
		t.Fatal("deterministic formatting without a refiner is not a fallback")
	}
	if out.Sleep == nil || out.Sleep.WakeMin != 360 || out.Sleep.BedMin != 1335 {
		t.Fatalf("sleep window = %+v", out.Sleep)
	}
	assertContiguousDay(t, out.Blocks)

	placed := false
	for _, b := range out.Blocks {
		if b.Type == model.BlockTask && b.TaskID == input.Tasks[0].ID {
			placed = true
		}
	}
	if !placed {
		t.Fatal("task missing from schedule blocks")
	}
	if out.Metrics.TaskCoverage != 1 {
		t.Fatalf("task coverage = %v, want 1", out.Metrics.TaskCoverage)
	}
}

func TestGenerateAcceptsValidRefinement(t *testing.T) {
	gen := newTestGenerator(t, echoRefiner{}, nil, nil)

	out := gen.Generate(context.Background(), earlyBirdWorkday())

	if out.Err != "" {
		t.Fatalf("unexpected error: %s", out.Err)
	}
	if out.Fallback {
		t.Fatal("valid refinement should be accepted, not replaced")
	}
	assertContiguousDay(t, out.Blocks)
}

func TestGenerateFallbackOnRefinerError(t *testing.T) {
	gen := newTestGenerator(t, refine.Mock{Err: errors.New("service unavailable")}, nil, nil)

	out := gen.Generate(context.Background(), earlyBirdWorkday())

	if out.Err != "" {
		t.Fatalf("unexpected error: %s", out.Err)
	}
	if !out.Fallback {
		t.Fatal("refiner error must trigger the fallback")
	}
	assertContiguousDay(t, out.Blocks)

	found := false
	for _, w := range out.Warnings {
		if strings.Contains(w, "refinement failed") {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings missing refinement failure: %v", out.Warnings)
	}
}

func TestGenerateFallbackOnRejectedRefinement(t *testing.T) {
	cases := map[string]func([]model.Block) []model.Block{
		"overlap": func(blocks []model.Block) []model.Block {
			return append(blocks, model.Block{Type: model.BlockFixed, Name: "Intruder", StartMin: 545, EndMin: 620})
		},
		"missing sleep": func(blocks []model.Block) []model.Block {
			out := blocks[:0]
			for _, b := range blocks {
				if b.Type != model.BlockSleep {
					out = append(out, b)
				}
			}
			return out
		},
		"moved task": func(blocks []model.Block) []model.Block {
			for i := range blocks {
				if blocks[i].Type == model.BlockTask {
					blocks[i].StartMin++
					blocks[i].EndMin++
				}
			}
			return blocks
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			gen := newTestGenerator(t, echoRefiner{mutate: mutate}, nil, nil)

			out := gen.Generate(context.Background(), earlyBirdWorkday())

			if out.Err != "" {
				t.Fatalf("unexpected error: %s", out.Err)
			}
			if !out.Fallback {
				t.Fatal("invalid refinement must trigger the fallback")
			}
			assertContiguousDay(t, out.Blocks)

			found := false
			for _, w := range out.Warnings {
				if strings.Contains(w, "refined schedule rejected") {
					found = true
				}
			}
			if !found {
				t.Fatalf("warnings missing rejection reason: %v", out.Warnings)
			}
		})
	}
}

func TestGeneratePreferredWakeOverride(t *testing.T) {
	gen := newTestGenerator(t, nil, nil, nil)
	input := earlyBirdWorkday()
	input.Preferences.PreferredWakeClock = "07:00"

	out := gen.Generate(context.Background(), input)

	if out.Err != "" {
		t.Fatalf("unexpected error: %s", out.Err)
	}
	// 07:00 wake instead of the 06:00 chronotype default; 7.5h need puts
	// bedtime at 23:15.
	if out.Sleep == nil || out.Sleep.WakeMin != 420 || out.Sleep.BedMin != 1395 {
		t.Fatalf("sleep window = %+v", out.Sleep)
	}
	assertContiguousDay(t, out.Blocks)
}

func TestGenerateInvalidPreferredWakeWarns(t *testing.T) {
	gen := newTestGenerator(t, nil, nil, nil)
	input := earlyBirdWorkday()
	input.Preferences.PreferredWakeClock = "25:99"

	out := gen.Generate(context.Background(), input)

	if out.Err != "" {
		t.Fatalf("unexpected error: %s", out.Err)
	}
	if out.Sleep == nil || out.Sleep.WakeMin != 360 {
		t.Fatalf("malformed preference must fall back to the default wake: %+v", out.Sleep)
	}
	found := false
	for _, w := range out.Warnings {
		if strings.Contains(w, "preferred wake time") {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings missing ignored preference: %v", out.Warnings)
	}
}

func TestGenerateNothingToSchedule(t *testing.T) {
	gen := newTestGenerator(t, nil, nil, nil)

	out := gen.Generate(context.Background(), model.ScheduleInput{
		UserID: uuid.New(),
		Date:   "2025-03-10",
	})

	if !strings.Contains(out.Err, "nothing to schedule") {
		t.Fatalf("error = %q", out.Err)
	}
	if len(out.Blocks) != 0 {
		t.Fatalf("failed generation produced blocks: %v", out.Blocks)
	}
}

func TestGenerateInfeasibleFixedEvents(t *testing.T) {
	gen := newTestGenerator(t, nil, nil, nil)
	input := earlyBirdWorkday()
	input.FixedEvents = append(input.FixedEvents,
		model.FixedInterval{ID: "evt-clash", Name: "Clash", StartMin: 600, EndMin: 700})

	out := gen.Generate(context.Background(), input)

	if !strings.Contains(out.Err, "no feasible schedule") {
		t.Fatalf("error = %q", out.Err)
	}
}

func TestGenerateStageEventsPublished(t *testing.T) {
	bus := &recordingBus{}
	gen := newTestGenerator(t, nil, nil, bus)

	gen.Generate(context.Background(), earlyBirdWorkday())

	stages := map[events.Stage]bool{}
	for _, e := range bus.events {
		if se, ok := e.(events.StageEvent); ok {
			stages[se.Stage] = true
		}
	}
	for _, want := range []events.Stage{events.StagePreparing, events.StageSolving, events.StageAccepted, events.StageComplete} {
		if !stages[want] {
			t.Fatalf("stage %s not published; saw %v", want, stages)
		}
	}
}

func TestGenerateRecordsGeneration(t *testing.T) {
	sink := &recordingSink{}
	gen := newTestGenerator(t, nil, sink, nil)

	out := gen.Generate(context.Background(), earlyBirdWorkday())

	if len(sink.generations) != 1 {
		t.Fatalf("expected one generation event, got %d", len(sink.generations))
	}
	e := sink.generations[0]
	if e.Outcome != metrics.OutcomeAccepted {
		t.Fatalf("outcome = %s", e.Outcome)
	}
	if e.ScheduleID != out.ScheduleID {
		t.Fatal("sink event carries a different schedule id")
	}
	if e.TasksPlaced != 1 {
		t.Fatalf("tasks placed = %d", e.TasksPlaced)
	}
}
