// Package solver places tasks on a single day under non-overlap, window and
// dependency constraints, maximising a weighted objective. Tasks are
// optional: when the day cannot hold them all, the search drops the least
// valuable ones instead of failing.
package solver

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aurelh/chronoplan/core/logger"
	"github.com/aurelh/chronoplan/core/model"
)

// gridStep is the start-time discretisation in minutes.
const gridStep = 5

// ErrInfeasible indicates that no assignment satisfies the hard constraints,
// which with optional tasks can only happen when the fixed intervals
// themselves collide.
var ErrInfeasible = errors.New("schedule infeasible")

// Result is the outcome of one solve. Placed is empty (non-nil) when no task
// was scheduled; Optimal is false when the time budget expired and the best
// incumbent found so far was returned.
type Result struct {
	Placed    []model.PlacedTask
	Skipped   []uuid.UUID
	Excluded  []uuid.UUID
	Objective int
	Optimal   bool
}

// Solver runs a deterministic branch-and-bound over discretised start times.
type Solver struct {
	cfg    Config
	logger logger.Logger
}

// New returns a Solver with defaults applied to cfg.
func New(cfg Config, log logger.Logger) *Solver {
	cfg.SetDefaults()
	return &Solver{cfg: cfg, logger: log}
}

type candidate struct {
	start int
	score int
}

type searchTask struct {
	task       model.ScheduleTask
	candidates []candidate
	bestScore  int
}

type placement struct {
	start, end int
	placed     bool
}

// Solve places as many tasks as the constraints allow. It returns
// ErrInfeasible when the fixed intervals overlap each other, a validation
// error for malformed input, and otherwise a Result whose Placed slice is
// sorted by start time.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fixed := req.clippedFixed()
	if fixedOverlap(fixed) {
		return nil, ErrInfeasible
	}

	if len(req.Tasks) == 0 {
		return &Result{Placed: []model.PlacedTask{}, Optimal: true}, nil
	}

	gaps := freeGaps(fixed, req.DayStartMin, req.DayEndMin)

	var excluded []uuid.UUID
	tasks := make([]searchTask, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		cands := s.candidatesFor(t, req, gaps)
		if len(cands) == 0 {
			if s.logger != nil {
				s.logger.Warnf("task %s (%s) has no feasible start, excluded", t.ID, t.Name)
			}
			excluded = append(excluded, t.ID)
			continue
		}
		best := 0
		for _, c := range cands {
			if c.score > best {
				best = c.score
			}
		}
		tasks = append(tasks, searchTask{task: t, candidates: cands, bestScore: best})
	}

	orderTasks(tasks)

	// suffix bounds for pruning: the most the remaining tasks could add
	bound := make([]int, len(tasks)+1)
	for i := len(tasks) - 1; i >= 0; i-- {
		bound[i] = bound[i+1] + tasks[i].bestScore
	}

	st := &searchState{
		tasks:    tasks,
		bound:    bound,
		current:  make([]placement, len(tasks)),
		best:     make([]placement, len(tasks)),
		deadline: time.Now().Add(s.cfg.TimeLimit),
		ctx:      ctx,
	}
	st.search(0, 0)

	res := &Result{
		Placed:    make([]model.PlacedTask, 0, len(tasks)),
		Excluded:  excluded,
		Objective: st.bestScore,
		Optimal:   !st.stopped,
	}
	for i, p := range st.best {
		if p.placed {
			res.Placed = append(res.Placed, model.PlacedTask{
				TaskID:   tasks[i].task.ID,
				StartMin: p.start,
				EndMin:   p.end,
				Date:     req.Date,
			})
		} else {
			res.Skipped = append(res.Skipped, tasks[i].task.ID)
		}
	}
	sort.Slice(res.Placed, func(i, j int) bool { return res.Placed[i].StartMin < res.Placed[j].StartMin })

	if s.logger != nil {
		s.logger.Debugf("solve done: placed=%d skipped=%d excluded=%d objective=%d optimal=%t",
			len(res.Placed), len(res.Skipped), len(res.Excluded), res.Objective, res.Optimal)
	}
	return res, nil
}

// candidatesFor enumerates the grid-aligned starts inside the task's window
// that fit entirely within a free gap, scored and sorted best first.
func (s *Solver) candidatesFor(t model.ScheduleTask, req Request, gaps []gap) []candidate {
	lo := req.DayStartMin
	if t.EarliestStartMin != nil && *t.EarliestStartMin > lo {
		lo = *t.EarliestStartMin
	}
	hi := req.DayEndMin
	if t.LatestEndMin != nil && *t.LatestEndMin < hi {
		hi = *t.LatestEndMin
	}
	hi -= t.DurationMin

	var out []candidate
	for _, g := range gaps {
		from := g.start
		if from < lo {
			from = lo
		}
		from = alignUp(from)
		to := g.end - t.DurationMin
		if to > hi {
			to = hi
		}
		for start := from; start <= to; start += gridStep {
			out = append(out, candidate{start: start, score: s.score(t, start, req.Energy)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].start < out[j].start
	})
	return out
}

// score is the objective contribution of scheduling t at start: a flat bonus
// for being scheduled at all, a priority reward, an early-start preference
// and the energy match between the task and the user's curve at that hour.
func (s *Solver) score(t model.ScheduleTask, start int, curve model.EnergyCurve) int {
	v := s.cfg.ScheduledBonus + t.Priority*s.cfg.PriorityWeight - start*s.cfg.StartPenaltyWeight
	v += energyMatch(curve.At(start/60), t.Energy) * s.cfg.EnergyWeight * t.Energy
	return v
}

// energyMatch scores 0-100 how well a task's energy requirement matches the
// user's level during an hour. 100 is a perfect match.
func energyMatch(userEnergy float64, taskEnergy int) int {
	return int((1 - math.Abs(userEnergy-float64(taskEnergy)/3.0)) * 100)
}

// orderTasks sorts for the search: higher priority first so good incumbents
// appear early, ID as the deterministic tie-break.
func orderTasks(tasks []searchTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].task.Priority != tasks[j].task.Priority {
			return tasks[i].task.Priority > tasks[j].task.Priority
		}
		return tasks[i].task.ID.String() < tasks[j].task.ID.String()
	})
}

type searchState struct {
	tasks     []searchTask
	bound     []int
	current   []placement
	best      []placement
	bestScore int
	haveBest  bool
	deadline  time.Time
	ctx       context.Context
	nodes     int
	stopped   bool
}

// search explores task i with the accumulated score so far. Each task
// branches over its candidate starts and finally over being skipped, so a
// complete assignment always exists.
func (st *searchState) search(i, score int) {
	st.nodes++
	if st.nodes%256 == 0 {
		if time.Now().After(st.deadline) || st.ctx.Err() != nil {
			st.stopped = true
		}
	}
	if st.stopped {
		return
	}
	if i == len(st.tasks) {
		if !st.haveBest || score > st.bestScore {
			st.bestScore = score
			st.haveBest = true
			copy(st.best, st.current)
		}
		return
	}
	if st.haveBest && score+st.bound[i] <= st.bestScore {
		return
	}

	for _, c := range st.tasks[i].candidates {
		if !st.feasible(i, c.start) {
			continue
		}
		st.current[i] = placement{start: c.start, end: c.start + st.tasks[i].task.DurationMin, placed: true}
		st.search(i+1, score+c.score)
		if st.stopped {
			return
		}
	}
	st.current[i] = placement{}
	st.search(i+1, score)
}

// feasible checks candidate start of task i against the tasks already placed
// in this branch: pairwise non-overlap and, for every dependency edge
// touching i, start-after-end ordering. Edges to unplaced tasks are waived.
func (st *searchState) feasible(i, start int) bool {
	end := start + st.tasks[i].task.DurationMin
	for j := 0; j < i; j++ {
		p := st.current[j]
		if !p.placed {
			continue
		}
		if start < p.end && p.start < end {
			return false
		}
		if dependsOn(st.tasks[i].task, st.tasks[j].task.ID) && start < p.end {
			return false
		}
		if dependsOn(st.tasks[j].task, st.tasks[i].task.ID) && p.start < end {
			return false
		}
	}
	return true
}

func dependsOn(t model.ScheduleTask, prereq uuid.UUID) bool {
	for _, d := range t.DependsOn {
		if d == prereq {
			return true
		}
	}
	return false
}

type gap struct {
	start, end int
}

// freeGaps returns the maximal intervals of [dayStart,dayEnd) not covered by
// any fixed interval. Fixed intervals are assumed non-overlapping.
func freeGaps(fixed []model.FixedInterval, dayStart, dayEnd int) []gap {
	sorted := make([]model.FixedInterval, len(fixed))
	copy(sorted, fixed)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartMin < sorted[j].StartMin })

	var gaps []gap
	cursor := dayStart
	for _, f := range sorted {
		if f.StartMin > cursor {
			gaps = append(gaps, gap{start: cursor, end: f.StartMin})
		}
		if f.EndMin > cursor {
			cursor = f.EndMin
		}
	}
	if cursor < dayEnd {
		gaps = append(gaps, gap{start: cursor, end: dayEnd})
	}
	return gaps
}

func fixedOverlap(fixed []model.FixedInterval) bool {
	for i := 0; i < len(fixed); i++ {
		for j := i + 1; j < len(fixed); j++ {
			if fixed[i].Overlaps(fixed[j]) {
				return true
			}
		}
	}
	return false
}

func alignUp(min int) int {
	if r := min % gridStep; r != 0 {
		return min + gridStep - r
	}
	return min
}
