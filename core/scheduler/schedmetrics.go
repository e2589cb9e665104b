package scheduler

import (
	"gonum.org/v1/gonum/stat"

	"github.com/aurelh/chronoplan/core/model"
)

// computeMetrics summarizes the accepted block list. Utilization is the
// share of the day covered by anything other than free time, coverage the
// share of requested tasks that made it onto the schedule.
func computeMetrics(blocks []model.Block, taskCount, dayStart, dayEnd int) model.ScheduleMetrics {
	var m model.ScheduleMetrics

	dayMin := dayEnd - dayStart
	if dayMin <= 0 {
		return m
	}

	busy := 0
	placed := 0
	durations := make([]float64, 0, len(blocks))
	for _, b := range blocks {
		if b.NextDay {
			continue
		}
		durations = append(durations, float64(b.Duration()))
		switch b.Type {
		case model.BlockFree:
		case model.BlockTask:
			placed++
			m.ScheduledMin += b.Duration()
			busy += b.Duration()
		default:
			busy += b.Duration()
		}
	}

	m.UtilizationRatio = float64(busy) / float64(dayMin)
	if len(durations) > 0 {
		m.AvgBlockMin = stat.Mean(durations, nil)
	}
	if taskCount > 0 {
		m.TaskCoverage = float64(placed) / float64(taskCount)
	} else {
		m.TaskCoverage = 1
	}
	return m
}
