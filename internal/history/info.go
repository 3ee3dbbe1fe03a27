package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/rewind/internal/change"
)

// BatchInfo provides read-only info about a recorded batch.
// Used for displaying undo/redo history to users.
type BatchInfo struct {
	ID       uuid.UUID // Batch identifier
	Label    string    // What produced the batch
	Summary  string    // Human-readable description
	Recorded time.Time // When the batch was recorded
	Changes  int       // Number of change records
}

// InfoOf returns the display info of a batch.
func InfoOf(b *change.Batch) BatchInfo {
	return BatchInfo{
		ID:       b.ID,
		Label:    b.Label,
		Summary:  b.Summary(),
		Recorded: b.Recorded,
		Changes:  b.Len(),
	}
}

// UndoInfo returns info about available undo steps, most recent first.
func (h History) UndoInfo() []BatchInfo {
	return infos(h.Prev)
}

// RedoInfo returns info about available redo steps, next first.
func (h History) RedoInfo() []BatchInfo {
	return infos(h.Next)
}

// PeekUndo returns info about the next undo step without moving.
func (h History) PeekUndo() (BatchInfo, bool) {
	if len(h.Prev) == 0 {
		return BatchInfo{}, false
	}
	return InfoOf(h.Prev[0]), true
}

// PeekRedo returns info about the next redo step without moving.
func (h History) PeekRedo() (BatchInfo, bool) {
	if len(h.Next) == 0 {
		return BatchInfo{}, false
	}
	return InfoOf(h.Next[0]), true
}

func infos(q []*change.Batch) []BatchInfo {
	result := make([]BatchInfo, len(q))
	for i, b := range q {
		result[i] = InfoOf(b)
	}
	return result
}
