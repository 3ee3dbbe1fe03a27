package history

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rewind/internal/change"
)

func batch(label string) *change.Batch {
	b := change.NewBatch([]change.Change{
		&change.New{Path: change.Path{label}, RHS: true},
	})
	b.Label = label
	return b
}

func labels(q []*change.Batch) []string {
	out := make([]string, len(q))
	for i, b := range q {
		out[i] = b.Label
	}
	return out
}

func recordAll(h History, names ...string) History {
	for _, n := range names {
		h = h.Record(batch(n))
	}
	return h
}

func TestRecord(t *testing.T) {
	h := recordAll(New(0), "a", "b", "c")

	assert.Equal(t, []string{"c", "b", "a"}, labels(h.Prev))
	assert.Empty(t, h.Next)
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.Equal(t, 3, h.UndoCount())
}

func TestRecordEmptyBatch(t *testing.T) {
	h := recordAll(New(0), "a")

	assert.Equal(t, h, h.Record(nil))
	assert.Equal(t, h, h.Record(change.NewBatch(nil)))
}

func TestRecordDropsRedo(t *testing.T) {
	h := recordAll(New(0), "a", "b").Undo()
	require.True(t, h.CanRedo())

	h = h.Record(batch("c"))
	assert.Equal(t, []string{"c", "a"}, labels(h.Prev))
	assert.False(t, h.CanRedo())
}

func TestLimit(t *testing.T) {
	h := recordAll(New(2), "a", "b", "c")
	assert.Equal(t, []string{"c", "b"}, labels(h.Prev))
	assert.Equal(t, 2, h.Limit)

	h = h.Jump(-5)
	assert.Equal(t, []string{"b", "c"}, labels(h.Next))

	assert.Equal(t, 0, New(-3).Limit)
}

func TestUndoRedo(t *testing.T) {
	h := recordAll(New(0), "a", "b", "c")

	h = h.Undo()
	assert.Equal(t, []string{"b", "a"}, labels(h.Prev))
	assert.Equal(t, []string{"c"}, labels(h.Next))

	h = h.Undo()
	assert.Equal(t, []string{"a"}, labels(h.Prev))
	assert.Equal(t, []string{"b", "c"}, labels(h.Next))

	h = h.Redo()
	assert.Equal(t, []string{"b", "a"}, labels(h.Prev))
	assert.Equal(t, []string{"c"}, labels(h.Next))
}

func TestUndoRedoAtEnds(t *testing.T) {
	empty := New(0)
	assert.Equal(t, empty, empty.Undo())
	assert.Equal(t, empty, empty.Redo())

	h := recordAll(New(0), "a")
	assert.Equal(t, h, h.Redo())
}

func TestJump(t *testing.T) {
	base := recordAll(New(0), "a", "b", "c", "d").Jump(-2)
	require.Equal(t, []string{"b", "a"}, labels(base.Prev))
	require.Equal(t, []string{"c", "d"}, labels(base.Next))

	tests := []struct {
		name  string
		index int
		prev  []string
		next  []string
		slice []string
	}{
		{"zero", 0, []string{"b", "a"}, []string{"c", "d"}, nil},
		{"back one", -1, []string{"a"}, []string{"b", "c", "d"}, []string{"b"}},
		{"back all", -2, []string{}, []string{"a", "b", "c", "d"}, []string{"b", "a"}},
		{"back clamped", -9, []string{}, []string{"a", "b", "c", "d"}, []string{"b", "a"}},
		{"forward one", 1, []string{"c", "b", "a"}, []string{"d"}, []string{"c"}},
		{"forward clamped", 9, []string{"d", "c", "b", "a"}, []string{}, []string{"c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := base.Jump(tt.index)
			assert.Equal(t, tt.prev, labels(h.Prev))
			assert.Equal(t, tt.next, labels(h.Next))

			if tt.slice == nil {
				assert.Empty(t, base.Slice(tt.index))
			} else {
				assert.Equal(t, tt.slice, labels(base.Slice(tt.index)))
			}
		})
	}

	// The receiver is untouched.
	assert.Equal(t, []string{"b", "a"}, labels(base.Prev))
	assert.Equal(t, []string{"c", "d"}, labels(base.Next))
}

func TestJumpReplay(t *testing.T) {
	h := New(0)
	state := map[string]any{}
	for _, v := range []float64{1, 2, 3} {
		next := map[string]any{"n": v}
		var c change.Change = &change.New{Path: change.Path{"n"}, RHS: v}
		if old, ok := state["n"]; ok {
			c = &change.Edit{Path: change.Path{"n"}, LHS: old, RHS: v}
		}
		h = h.Record(change.NewBatch([]change.Change{c}))
		state = next
	}

	back, err := change.RevertBatches(state, h.Slice(-2))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 1.0}, back)
	h = h.Jump(-2)

	forward, err := change.ApplyBatches(back, h.Slice(2))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 3.0}, forward)
}

func TestClear(t *testing.T) {
	h := recordAll(New(5), "a", "b").Undo().Clear()

	assert.Empty(t, h.Prev)
	assert.Empty(t, h.Next)
	assert.Equal(t, 5, h.Limit)
}

func TestInfo(t *testing.T) {
	h := recordAll(New(0), "a", "b").Undo()

	undo := h.UndoInfo()
	require.Len(t, undo, 1)
	assert.Equal(t, "a", undo[0].Label)
	assert.Equal(t, 1, undo[0].Changes)
	assert.Equal(t, "N a: true", undo[0].Summary)
	assert.Equal(t, h.Prev[0].ID, undo[0].ID)

	info, ok := h.PeekRedo()
	require.True(t, ok)
	assert.Equal(t, "b", info.Label)

	_, ok = New(0).PeekUndo()
	assert.False(t, ok)
}

func TestFromState(t *testing.T) {
	h := recordAll(New(0), "a")

	tests := []struct {
		name    string
		state   map[string]any
		wantErr bool
	}{
		{"value", map[string]any{DefaultKey: h}, false},
		{"pointer", map[string]any{DefaultKey: &h}, false},
		{"missing", map[string]any{}, true},
		{"nil pointer", map[string]any{DefaultKey: (*History)(nil)}, true},
		{"wrong type", map[string]any{DefaultKey: "nope"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromState(tt.state, DefaultKey)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, h, got)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotHistory)
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, DefaultKey, fe.Key)
		})
	}
}

func TestSplit(t *testing.T) {
	h := recordAll(New(0), "a")
	state := map[string]any{"x": 1.0, "hist": h}

	rest, got, err := Split(state, "hist")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1.0}, rest)
	assert.Equal(t, h, got)
	assert.Contains(t, state, "hist")

	_, _, err = Split(state, DefaultKey)
	assert.ErrorIs(t, err, ErrNotHistory)
}
