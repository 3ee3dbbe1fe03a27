package history

import (
	"github.com/dshills/rewind/internal/change"
)

// History is the navigable record of change batches.
type History struct {
	// Prev holds recorded batches, most recent first.
	Prev []*change.Batch

	// Next holds undone batches, next to redo first.
	Next []*change.Batch

	// Limit bounds both queues. Zero means unbounded.
	Limit int
}

// New creates an empty history keeping at most limit batches.
func New(limit int) History {
	if limit < 0 {
		limit = 0
	}
	return History{Limit: limit}
}

// Record adds a batch as the most recent past and drops the redo trail.
// Recording a nil or empty batch returns the history unchanged.
func (h History) Record(b *change.Batch) History {
	if b.IsEmpty() {
		return h
	}

	prev := make([]*change.Batch, 0, len(h.Prev)+1)
	prev = append(prev, b)
	prev = append(prev, h.Prev...)

	return History{
		Prev:  h.bound(prev),
		Next:  nil,
		Limit: h.Limit,
	}
}

// Undo moves one batch from Prev to Next.
func (h History) Undo() History {
	return h.JumpPrev(1)
}

// Redo moves one batch from Next to Prev.
func (h History) Redo() History {
	return h.JumpNext(1)
}

// JumpPrev moves up to n batches from the front of Prev to the front of
// Next. The most recently undone batch ends up at Next[0].
func (h History) JumpPrev(n int) History {
	n = clamp(n, len(h.Prev))
	if n == 0 {
		return h
	}

	next := make([]*change.Batch, 0, n+len(h.Next))
	next = append(next, reversed(h.Prev[:n])...)
	next = append(next, h.Next...)

	return History{
		Prev:  copyOf(h.Prev[n:]),
		Next:  h.bound(next),
		Limit: h.Limit,
	}
}

// JumpNext moves up to n batches from the front of Next to the front of
// Prev. The most recently redone batch ends up at Prev[0].
func (h History) JumpNext(n int) History {
	n = clamp(n, len(h.Next))
	if n == 0 {
		return h
	}

	prev := make([]*change.Batch, 0, n+len(h.Prev))
	prev = append(prev, reversed(h.Next[:n])...)
	prev = append(prev, h.Prev...)

	return History{
		Prev:  h.bound(prev),
		Next:  copyOf(h.Next[n:]),
		Limit: h.Limit,
	}
}

// Jump moves index steps through the history: back for negative values,
// forward for positive values. Zero returns the history unchanged.
func (h History) Jump(index int) History {
	switch {
	case index < 0:
		return h.JumpPrev(-index)
	case index > 0:
		return h.JumpNext(index)
	default:
		return h
	}
}

// Slice returns the batches a Jump(index) moves, in the order they must be
// replayed: Next[:index] to apply for positive values, Prev[:-index] to
// revert for negative values.
func (h History) Slice(index int) []*change.Batch {
	switch {
	case index > 0:
		return copyOf(h.Next[:clamp(index, len(h.Next))])
	case index < 0:
		return copyOf(h.Prev[:clamp(-index, len(h.Prev))])
	default:
		return nil
	}
}

// Clear drops every batch and keeps the limit.
func (h History) Clear() History {
	return History{Limit: h.Limit}
}

// CanUndo returns true if undo is available.
func (h History) CanUndo() bool {
	return len(h.Prev) > 0
}

// CanRedo returns true if redo is available.
func (h History) CanRedo() bool {
	return len(h.Next) > 0
}

// UndoCount returns the number of undo steps available.
func (h History) UndoCount() int {
	return len(h.Prev)
}

// RedoCount returns the number of redo steps available.
func (h History) RedoCount() int {
	return len(h.Next)
}

// bound truncates a queue to the limit.
func (h History) bound(q []*change.Batch) []*change.Batch {
	if h.Limit > 0 && len(q) > h.Limit {
		return q[:h.Limit:h.Limit]
	}
	return q
}

func clamp(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}

func reversed(q []*change.Batch) []*change.Batch {
	out := make([]*change.Batch, len(q))
	for i, b := range q {
		out[len(q)-1-i] = b
	}
	return out
}

func copyOf(q []*change.Batch) []*change.Batch {
	if len(q) == 0 {
		return nil
	}
	out := make([]*change.Batch, len(q))
	copy(out, q)
	return out
}
