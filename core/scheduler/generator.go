package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aurelh/chronoplan/core/chronotype"
	"github.com/aurelh/chronoplan/core/energy"
	"github.com/aurelh/chronoplan/core/events"
	"github.com/aurelh/chronoplan/core/logger"
	"github.com/aurelh/chronoplan/core/metrics"
	"github.com/aurelh/chronoplan/core/model"
	"github.com/aurelh/chronoplan/core/refine"
	"github.com/aurelh/chronoplan/core/sleep"
	"github.com/aurelh/chronoplan/core/solver"
	"github.com/aurelh/chronoplan/internal/eventbus"
)

// Generator runs the full generation pipeline for one day. Collaborators are
// injected; the refinement service, metrics sink and event bus are optional.
type Generator struct {
	analyzer  chronotype.Analyzer
	sleepCalc sleep.Calculator
	energy    energy.Provider
	assembler *Assembler
	solver    *solver.Solver
	refiner   refine.Service
	sink      metrics.MetricsSink
	bus       eventbus.EventBus
	logger    logger.Logger
}

// NewGenerator wires a Generator. The analyzer, sleep calculator, energy
// provider and solver are required; a nil sink is replaced by a no-op.
func NewGenerator(analyzer chronotype.Analyzer, sleepCalc sleep.Calculator, prov energy.Provider, slv *solver.Solver, refiner refine.Service, sink metrics.MetricsSink, bus eventbus.EventBus, log logger.Logger) (*Generator, error) {
	if analyzer == nil || sleepCalc == nil || prov == nil || slv == nil {
		return nil, fmt.Errorf("scheduler: nil parameter provided to NewGenerator")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Generator{
		analyzer:  analyzer,
		sleepCalc: sleepCalc,
		energy:    prov,
		assembler: NewAssembler(log),
		solver:    slv,
		refiner:   refiner,
		sink:      sink,
		bus:       bus,
		logger:    log,
	}, nil
}

// Generate builds one day's schedule. Domain-level failures such as an
// infeasible day come back as a structured result with Err set; only
// programming errors may propagate as panics.
func (g *Generator) Generate(ctx context.Context, input model.ScheduleInput) model.GeneratedSchedule {
	scheduleID := uuid.New()
	g.stage(input, events.StagePreparing, "")

	if len(input.Tasks) == 0 && len(input.FixedEvents) == 0 {
		return g.fail(input, scheduleID, "nothing to schedule: no tasks and no fixed events", nil)
	}

	profile := input.Profile.Normalize()
	prefs := input.Preferences.Normalize()
	ct, _ := g.analyzer.Classify(profile)
	needHours := sleep.NeedHours(profile.SleepNeed)

	var warnings []string
	wakeOverride := sleep.NoWakeOverride
	if prefs.PreferredWakeClock != "" {
		m, err := model.ParseClock(prefs.PreferredWakeClock)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ignoring preferred wake time %q: %v", prefs.PreferredWakeClock, err))
		} else {
			wakeOverride = m
		}
	}
	win := g.sleepCalc.Ideal(ct, profile.Age, needHours, wakeOverride)
	if hasCommitments(input.FixedEvents) {
		var sleepWarnings []string
		win, sleepWarnings = g.sleepCalc.Adaptive(input.FixedEvents, ct, needHours, prefs.MorningRoutineMin, prefs.EveningRoutineMin, wakeOverride)
		warnings = append(warnings, sleepWarnings...)
	}
	curve := g.energy.Curve(ct, win)

	req, assemblyWarnings := g.assembler.Assemble(input, win, curve)
	warnings = append(warnings, assemblyWarnings...)

	g.stage(input, events.StageSolving, "")
	solveStart := time.Now()
	res, err := g.solver.Solve(ctx, req)
	solveTime := time.Since(solveStart)
	solveDuration.Observe(solveTime.Seconds())
	if err != nil {
		if errors.Is(err, solver.ErrInfeasible) {
			return g.fail(input, scheduleID, "no feasible schedule: fixed commitments conflict", warnings)
		}
		return g.fail(input, scheduleID, fmt.Sprintf("invalid schedule input: %v", err), warnings)
	}

	g.recordSolve(input, res, solveTime)
	tasksPlaced.Add(float64(len(res.Placed)))
	tasksSkipped.Add(float64(len(res.Skipped) + len(res.Excluded)))
	for _, id := range res.Excluded {
		warnings = append(warnings, fmt.Sprintf("task %s could not fit its time window", id))
	}

	taskNames := make(map[uuid.UUID]string, len(req.Tasks))
	for _, t := range req.Tasks {
		taskNames[t.ID] = t.Name
	}

	blocks, fellBack, fbReasons := g.refineOrFallback(ctx, input, req, res, win, curve, taskNames)
	warnings = append(warnings, fbReasons...)

	outcome := metrics.OutcomeAccepted
	if fellBack {
		outcome = metrics.OutcomeFallback
		fallbacksTotal.Inc()
		g.recordFallback(input, fbReasons)
	}

	g.stage(input, events.StageMetrics, "")
	summary := computeMetrics(blocks, len(req.Tasks), req.DayStartMin, req.DayEndMin)
	generationsTotal.WithLabelValues(outcome).Inc()
	if err := g.sink.RecordGeneration(metrics.GenerationEvent{
		UserID:        input.UserID,
		ScheduleID:    scheduleID,
		Date:          input.Date,
		Outcome:       outcome,
		SolveDuration: solveTime,
		TasksPlaced:   len(res.Placed),
		TasksSkipped:  len(res.Skipped) + len(res.Excluded),
		Summary:       summary,
		Time:          time.Now(),
	}); err != nil && g.logger != nil {
		g.logger.Warnf("record generation: %v", err)
	}

	g.stage(input, events.StageComplete, outcome)
	return model.GeneratedSchedule{
		UserID:     input.UserID,
		Date:       input.Date,
		ScheduleID: scheduleID,
		Blocks:     blocks,
		Metrics:    summary,
		Warnings:   warnings,
		Sleep:      &win,
		Fallback:   fellBack,
	}
}

// refineOrFallback sends the skeleton through the refinement service when
// one is configured and validates the response. Any refinement error or
// validation failure discards the refined output in favour of the
// deterministic formatter. Without a refiner the formatter is simply the
// output path, not a fallback.
func (g *Generator) refineOrFallback(ctx context.Context, input model.ScheduleInput, req solver.Request, res *solver.Result, win model.SleepWindow, curve model.EnergyCurve, taskNames map[uuid.UUID]string) ([]model.Block, bool, []string) {
	deterministic := func() []model.Block {
		return fallbackBlocks(req.Fixed, res.Placed, taskNames, req.DayStartMin, req.DayEndMin)
	}

	if g.refiner == nil {
		g.stage(input, events.StageAccepted, "")
		return deterministic(), false, nil
	}

	g.stage(input, events.StageRefining, "")
	refined, err := g.refiner.Refine(ctx, res.Placed, refine.Context{
		UserID:    input.UserID,
		Date:      input.Date,
		Fixed:     req.Fixed,
		Sleep:     win,
		Energy:    curve,
		TaskNames: taskNames,
	})
	if err != nil {
		if g.logger != nil {
			g.logger.Warnf("refinement failed, using fallback: %v", err)
		}
		g.stage(input, events.StageFallback, err.Error())
		return deterministic(), true, []string{fmt.Sprintf("refinement failed: %v", err)}
	}

	g.stage(input, events.StageValidating, "")
	failures := validateBlocks(refined, win, res.Placed)
	if len(failures) > 0 {
		if g.logger != nil {
			g.logger.Warnf("refined schedule rejected: %v", failures)
		}
		g.stage(input, events.StageFallback, fmt.Sprintf("%d validation failures", len(failures)))
		reasons := make([]string, 0, len(failures))
		for _, f := range failures {
			reasons = append(reasons, "refined schedule rejected: "+f)
		}
		return deterministic(), true, reasons
	}

	g.stage(input, events.StageAccepted, "")
	return refined, false, nil
}

// fail produces the structured result for PREPARING/SOLVING stage failures.
func (g *Generator) fail(input model.ScheduleInput, scheduleID uuid.UUID, msg string, warnings []string) model.GeneratedSchedule {
	if g.logger != nil {
		g.logger.Warnf("generation failed for %s on %s: %s", input.UserID, input.Date, msg)
	}
	g.stage(input, events.StageFailed, msg)
	generationsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
	if err := g.sink.RecordGeneration(metrics.GenerationEvent{
		UserID:  input.UserID,
		Date:    input.Date,
		Outcome: metrics.OutcomeFailed,
		Time:    time.Now(),
	}); err != nil && g.logger != nil {
		g.logger.Warnf("record generation: %v", err)
	}
	return model.GeneratedSchedule{
		UserID:     input.UserID,
		Date:       input.Date,
		ScheduleID: scheduleID,
		Warnings:   warnings,
		Err:        msg,
	}
}

// stage publishes a pipeline transition on the bus. Sink delivery happens
// through the event collector subscribed to the bus, never directly, so each
// transition is recorded exactly once.
func (g *Generator) stage(input model.ScheduleInput, s events.Stage, detail string) {
	if g.bus == nil {
		return
	}
	g.bus.Publish(events.StageEvent{
		UserID: input.UserID,
		Date:   input.Date,
		Stage:  s,
		Detail: detail,
		Time:   time.Now(),
	})
}

func (g *Generator) recordSolve(input model.ScheduleInput, res *solver.Result, d time.Duration) {
	if g.bus == nil {
		return
	}
	g.bus.Publish(events.SolveEvent{
		UserID:    input.UserID,
		Date:      input.Date,
		Duration:  d,
		Placed:    len(res.Placed),
		Skipped:   len(res.Skipped),
		Excluded:  len(res.Excluded),
		Objective: res.Objective,
		Optimal:   res.Optimal,
		Time:      time.Now(),
	})
}

func (g *Generator) recordFallback(input model.ScheduleInput, reasons []string) {
	if g.bus == nil {
		return
	}
	g.bus.Publish(events.FallbackEvent{
		UserID:  input.UserID,
		Date:    input.Date,
		Reasons: reasons,
		Time:    time.Now(),
	})
}

// hasCommitments reports whether any fixed event is a real commitment rather
// than a routine or sleep marker.
func hasCommitments(fixed []model.FixedInterval) bool {
	for _, f := range fixed {
		if !f.IsMarker() {
			return true
		}
	}
	return false
}
