package scheduler

import (
	"fmt"

	"github.com/aurelh/chronoplan/core/model"
)

// validateBlocks checks a refined block list against the invariants the
// solver already guaranteed. It returns the list of violations; an empty
// list means the plan is acceptable.
func validateBlocks(blocks []model.Block, sleep model.SleepWindow, placed []model.PlacedTask) []string {
	var failures []string

	failures = append(failures, checkWellFormed(blocks)...)
	failures = append(failures, checkOverlaps(blocks)...)
	failures = append(failures, checkSleepBlocks(blocks, sleep)...)
	failures = append(failures, checkTaskFidelity(blocks, placed)...)
	failures = append(failures, checkOrder(blocks)...)

	return failures
}

func checkWellFormed(blocks []model.Block) []string {
	var failures []string
	for _, b := range blocks {
		if b.StartMin < 0 || b.EndMin > model.MinutesPerDay || b.StartMin >= b.EndMin {
			failures = append(failures, fmt.Sprintf(
				"block %q has malformed times [%d,%d)", b.Name, b.StartMin, b.EndMin))
		}
	}
	return failures
}

// checkOverlaps rejects any pairwise overlap among non-sleep blocks that do
// not spill into the next day.
func checkOverlaps(blocks []model.Block) []string {
	var failures []string
	for i := 0; i < len(blocks); i++ {
		if blocks[i].Type == model.BlockSleep || blocks[i].NextDay {
			continue
		}
		for j := i + 1; j < len(blocks); j++ {
			if blocks[j].Type == model.BlockSleep || blocks[j].NextDay {
				continue
			}
			if blocks[i].Overlaps(blocks[j]) {
				failures = append(failures, fmt.Sprintf(
					"blocks %q and %q overlap", blocks[i].Name, blocks[j].Name))
			}
		}
	}
	return failures
}

// checkSleepBlocks requires exactly the expected number of sleep blocks, one
// for a late bedtime and two otherwise, with the window's exact endpoints.
func checkSleepBlocks(blocks []model.Block, sleep model.SleepWindow) []string {
	var sleeps []model.Block
	for _, b := range blocks {
		if b.Type == model.BlockSleep {
			sleeps = append(sleeps, b)
		}
	}

	expected := sleep.Intervals()
	if len(sleeps) != len(expected) {
		return []string{fmt.Sprintf("expected %d sleep blocks, found %d", len(expected), len(sleeps))}
	}
	var failures []string
	for _, want := range expected {
		found := false
		for _, b := range sleeps {
			if b.StartMin == want.StartMin && b.EndMin == want.EndMin {
				found = true
				break
			}
		}
		if !found {
			failures = append(failures, fmt.Sprintf(
				"missing sleep block [%s,%s)", model.FormatClock(want.StartMin), model.FormatClock(want.EndMin)))
		}
	}
	return failures
}

// checkTaskFidelity requires every solver placement to survive refinement
// with identical times.
func checkTaskFidelity(blocks []model.Block, placed []model.PlacedTask) []string {
	var failures []string
	for _, p := range placed {
		found := false
		for _, b := range blocks {
			if b.Type == model.BlockTask && b.TaskID == p.TaskID {
				found = true
				if b.StartMin != p.StartMin || b.EndMin != p.EndMin {
					failures = append(failures, fmt.Sprintf(
						"task %s moved from [%d,%d) to [%d,%d)",
						p.TaskID, p.StartMin, p.EndMin, b.StartMin, b.EndMin))
				}
				break
			}
		}
		if !found {
			failures = append(failures, fmt.Sprintf("task %s missing from refined blocks", p.TaskID))
		}
	}
	return failures
}

// checkOrder requires non-decreasing start times, ignoring blocks that spill
// into the next day.
func checkOrder(blocks []model.Block) []string {
	prev := -1
	for _, b := range blocks {
		if b.NextDay {
			continue
		}
		if b.StartMin < prev {
			return []string{fmt.Sprintf("block %q out of chronological order", b.Name)}
		}
		prev = b.StartMin
	}
	return nil
}
