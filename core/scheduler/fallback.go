package scheduler

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/aurelh/chronoplan/core/model"
)

// fallbackBlocks deterministically formats the day from what the solver
// already guaranteed: the fixed intervals and placed tasks are merged
// chronologically and every remaining gap becomes a labeled free-time block,
// so the result covers [dayStart,dayEnd) exactly with no overlaps.
func fallbackBlocks(fixed []model.FixedInterval, placed []model.PlacedTask, taskNames map[uuid.UUID]string, dayStart, dayEnd int) []model.Block {
	blocks := make([]model.Block, 0, len(fixed)+2*len(placed)+1)

	for _, f := range fixed {
		blocks = append(blocks, model.Block{
			Type:     blockTypeFor(f),
			Name:     f.Label(),
			StartMin: f.StartMin,
			EndMin:   f.EndMin,
		})
	}
	for _, p := range placed {
		name := taskNames[p.TaskID]
		if name == "" {
			name = "Task"
		}
		blocks = append(blocks, model.Block{
			Type:     model.BlockTask,
			Name:     name,
			StartMin: p.StartMin,
			EndMin:   p.EndMin,
			TaskID:   p.TaskID,
		})
	}

	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].StartMin < blocks[j].StartMin })

	out := make([]model.Block, 0, 2*len(blocks)+1)
	cursor := dayStart
	for _, b := range blocks {
		if b.StartMin > cursor {
			out = append(out, freeBlock(cursor, b.StartMin))
		}
		out = append(out, b)
		if b.EndMin > cursor {
			cursor = b.EndMin
		}
	}
	if cursor < dayEnd {
		out = append(out, freeBlock(cursor, dayEnd))
	}
	return out
}

func freeBlock(start, end int) model.Block {
	return model.Block{
		Type:     model.BlockFree,
		Name:     "Free time",
		StartMin: start,
		EndMin:   end,
	}
}

func blockTypeFor(f model.FixedInterval) model.BlockType {
	id := strings.ToLower(f.ID)
	switch {
	case strings.Contains(id, "sleep"):
		return model.BlockSleep
	case strings.Contains(id, "routine"):
		return model.BlockRoutine
	case strings.Contains(id, "lunch"):
		return model.BlockMeal
	default:
		return model.BlockFixed
	}
}
