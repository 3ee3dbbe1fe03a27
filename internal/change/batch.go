package change

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Batch is the ordered set of changes recorded for one state transition.
// Batches are never modified after creation.
type Batch struct {
	ID       uuid.UUID
	Changes  []Change
	Recorded time.Time

	// Label names what produced the batch, e.g. an action type or a
	// group name. It may be empty.
	Label string
}

// NewBatch creates a batch holding a copy of the change slice.
func NewBatch(changes []Change) *Batch {
	c := make([]Change, len(changes))
	copy(c, changes)
	return &Batch{
		ID:       uuid.New(),
		Changes:  c,
		Recorded: time.Now(),
	}
}

// Len returns the number of changes in the batch.
// A nil batch has no changes.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Changes)
}

// IsEmpty returns true if the batch has no changes.
func (b *Batch) IsEmpty() bool {
	return b.Len() == 0
}

// Summary returns a human-readable description of the batch.
func (b *Batch) Summary() string {
	switch b.Len() {
	case 0:
		return "No changes"
	case 1:
		return b.Changes[0].String()
	}

	paths := make([]string, 0, 3)
	for i, c := range b.Changes {
		if i == 3 {
			paths = append(paths, "...")
			break
		}
		paths = append(paths, EffectivePath(c).String())
	}
	return fmt.Sprintf("%d changes (%s)", b.Len(), strings.Join(paths, ", "))
}

// ApplyTo replays the batch against state in place, in batch order.
func ApplyTo(state map[string]any, b *Batch) (map[string]any, error) {
	if b == nil {
		return state, nil
	}
	if state == nil {
		state = map[string]any{}
	}
	var out any = state
	for _, c := range b.Changes {
		var err error
		if out, err = Apply(out, c); err != nil {
			return state, err
		}
	}
	return asState(out), nil
}

// RevertTo undoes the batch against state in place, in reverse order.
func RevertTo(state map[string]any, b *Batch) (map[string]any, error) {
	if b == nil {
		return state, nil
	}
	if state == nil {
		state = map[string]any{}
	}
	var out any = state
	for i := len(b.Changes) - 1; i >= 0; i-- {
		var err error
		if out, err = Revert(out, b.Changes[i]); err != nil {
			return state, err
		}
	}
	return asState(out), nil
}

// ApplyBatch returns a copy of state with the batch applied.
// The input state is not modified.
func ApplyBatch(state map[string]any, b *Batch) (map[string]any, error) {
	return ApplyTo(CloneState(state), b)
}

// RevertBatch returns a copy of state with the batch reverted.
// The input state is not modified.
func RevertBatch(state map[string]any, b *Batch) (map[string]any, error) {
	return RevertTo(CloneState(state), b)
}

// ApplyBatches returns a copy of state with every batch applied in order.
func ApplyBatches(state map[string]any, batches []*Batch) (map[string]any, error) {
	out := CloneState(state)
	for i, b := range batches {
		var err error
		if out, err = ApplyTo(out, b); err != nil {
			return state, fmt.Errorf("batch %d: %w", i, err)
		}
	}
	return out, nil
}

// RevertBatches returns a copy of state with every batch reverted in the
// given order. Pass batches most recent first.
func RevertBatches(state map[string]any, batches []*Batch) (map[string]any, error) {
	out := CloneState(state)
	for i, b := range batches {
		var err error
		if out, err = RevertTo(out, b); err != nil {
			return state, fmt.Errorf("batch %d: %w", i, err)
		}
	}
	return out, nil
}

func asState(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
