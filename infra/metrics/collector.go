package metrics

import (
	"context"

	"github.com/aurelh/chronoplan/core/events"
	coremetrics "github.com/aurelh/chronoplan/core/metrics"
	"github.com/aurelh/chronoplan/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and forwards pipeline
// events to the sinks that can record them. It stops when the context is
// canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.StageEvent:
					if r, ok := sink.(coremetrics.StageRecorder); ok {
						_ = r.RecordStage(coremetrics.StageEvent{
							UserID: e.UserID,
							Date:   e.Date,
							Stage:  string(e.Stage),
							Time:   e.Time,
						})
					}
				case events.SolveEvent:
					if r, ok := sink.(coremetrics.SolveRecorder); ok {
						_ = r.RecordSolve(coremetrics.SolveEvent{
							Date:      e.Date,
							Duration:  e.Duration,
							Placed:    e.Placed,
							Skipped:   e.Skipped,
							Excluded:  e.Excluded,
							Objective: e.Objective,
							Optimal:   e.Optimal,
							Time:      e.Time,
						})
					}
				case events.FallbackEvent:
					if r, ok := sink.(coremetrics.FallbackRecorder); ok {
						_ = r.RecordFallback(coremetrics.FallbackEvent{
							UserID:  e.UserID,
							Date:    e.Date,
							Reasons: e.Reasons,
							Time:    e.Time,
						})
					}
				}
			}
		}
	}()
}
