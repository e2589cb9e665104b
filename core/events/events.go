package events

import (
	"time"

	"github.com/google/uuid"
)

// Stage identifies a step of the generation pipeline.
type Stage string

const (
	StagePreparing  Stage = "preparing"
	StageSolving    Stage = "solving"
	StageRefining   Stage = "refining"
	StageValidating Stage = "validating"
	StageAccepted   Stage = "accepted"
	StageFallback   Stage = "fallback"
	StageMetrics    Stage = "metrics"
	StageComplete   Stage = "complete"
	StageFailed     Stage = "failed"
)

// StageEvent is published on the bus at every pipeline transition.
type StageEvent struct {
	UserID uuid.UUID
	Date   string
	Stage  Stage
	Detail string
	Time   time.Time
}

// SolveEvent summarizes one solver run. Skipped counts tasks the search
// chose to drop; Excluded counts tasks whose windows left no candidate
// start at all.
type SolveEvent struct {
	UserID    uuid.UUID
	Date      string
	Duration  time.Duration
	Placed    int
	Skipped   int
	Excluded  int
	Objective int
	Optimal   bool
	Time      time.Time
}

// FallbackEvent is published when a refined schedule was rejected and the
// deterministic fallback used instead.
type FallbackEvent struct {
	UserID  uuid.UUID
	Date    string
	Reasons []string
	Time    time.Time
}
