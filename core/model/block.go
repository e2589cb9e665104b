package model

import "github.com/google/uuid"

// BlockType tags the origin of a schedule block.
type BlockType string

const (
	BlockTask    BlockType = "task"
	BlockFixed   BlockType = "fixed"
	BlockSleep   BlockType = "sleep"
	BlockMeal    BlockType = "meal"
	BlockRoutine BlockType = "routine"
	BlockFree    BlockType = "free"
)

// Block is one contiguous entry of a generated day schedule. NextDay marks
// blocks that logically belong to the following calendar day, such as the
// tail of an evening routine split across midnight.
type Block struct {
	Type     BlockType `json:"type"`
	Name     string    `json:"name"`
	StartMin int       `json:"start_min"`
	EndMin   int       `json:"end_min"`
	TaskID   uuid.UUID `json:"task_id,omitempty"`
	NextDay  bool      `json:"next_day,omitempty"`
}

// Duration returns the block length in minutes.
func (b Block) Duration() int {
	return b.EndMin - b.StartMin
}

// Overlaps reports whether two blocks share at least one minute. Sleep and
// next-day blocks are compared like any other; callers decide which pairs
// are legitimate.
func (b Block) Overlaps(o Block) bool {
	lo := b.StartMin
	if o.StartMin > lo {
		lo = o.StartMin
	}
	hi := b.EndMin
	if o.EndMin < hi {
		hi = o.EndMin
	}
	return lo < hi
}
