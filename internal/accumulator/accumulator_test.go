package accumulator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rewind/internal/change"
)

func TestDiffAccumulates(t *testing.T) {
	acc := New()

	changes, err := acc.Diff(map[string]any{"a": 1.0}, map[string]any{"a": 2.0})
	require.NoError(t, err)
	require.Len(t, changes, 1)

	changes, err = acc.Diff(map[string]any{"a": 2.0}, map[string]any{"a": 3.0, "b": true})
	require.NoError(t, err)
	assert.Equal(t, []change.Change{
		&change.Edit{Path: change.Path{"a"}, LHS: 1.0, RHS: 3.0},
		&change.New{Path: change.Path{"b"}, RHS: true},
	}, changes)
	assert.Equal(t, 2, acc.Len())

	acc.Clear()
	assert.Zero(t, acc.Len())
	assert.Nil(t, acc.Changes())
}

func TestDiffCancels(t *testing.T) {
	tests := []struct {
		name   string
		states []map[string]any
	}{
		{
			name: "edit back",
			states: []map[string]any{
				{"a": 1.0}, {"a": 2.0}, {"a": 1.0},
			},
		},
		{
			name: "new then delete",
			states: []map[string]any{
				{}, {"a": 1.0}, {},
			},
		},
		{
			name: "delete then new same value",
			states: []map[string]any{
				{"a": "x"}, {}, {"a": "x"},
			},
		},
		{
			name: "array push then pop",
			states: []map[string]any{
				{"l": []any{1.0}}, {"l": []any{1.0, 2.0}}, {"l": []any{1.0}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := New()
			var changes []change.Change
			for i := 1; i < len(tt.states); i++ {
				var err error
				changes, err = acc.Diff(tt.states[i-1], tt.states[i])
				require.NoError(t, err)
			}
			assert.Empty(t, changes)
		})
	}
}

func TestMerge(t *testing.T) {
	p := change.Path{"a"}

	tests := []struct {
		name string
		a, b change.Change
		want change.Change
	}{
		{
			name: "edit edit",
			a:    &change.Edit{Path: p, LHS: 1, RHS: 2},
			b:    &change.Edit{Path: p, LHS: 2, RHS: 3},
			want: &change.Edit{Path: p, LHS: 1, RHS: 3},
		},
		{
			name: "new edit",
			a:    &change.New{Path: p, RHS: 2},
			b:    &change.Edit{Path: p, LHS: 2, RHS: 3},
			want: &change.New{Path: p, RHS: 3},
		},
		{
			name: "delete new",
			a:    &change.Delete{Path: p, LHS: 1},
			b:    &change.New{Path: p, RHS: 2},
			want: &change.Edit{Path: p, LHS: 1, RHS: 2},
		},
		{
			name: "edit delete",
			a:    &change.Edit{Path: p, LHS: 1, RHS: 2},
			b:    &change.Delete{Path: p, LHS: 2},
			want: &change.Delete{Path: p, LHS: 1},
		},
		{
			name: "new delete",
			a:    &change.New{Path: p, RHS: 2},
			b:    &change.Delete{Path: p, LHS: 2},
			want: nil,
		},
		{
			name: "array items",
			a:    &change.Array{Path: p, Index: 0, Item: &change.New{RHS: 1}},
			b:    &change.Array{Path: p, Index: 0, Item: &change.Delete{LHS: 1}},
			want: nil,
		},
		{
			name: "array delete then new",
			a:    &change.Array{Path: p, Index: 0, Item: &change.Delete{LHS: "a"}},
			b:    &change.Array{Path: p, Index: 0, Item: &change.New{RHS: "c"}},
			want: &change.Array{Path: p, Index: 0, Item: &change.Edit{LHS: "a", RHS: "c"}},
		},
		{
			name: "array then edit",
			a:    &change.Array{Path: p, Index: 1, Item: &change.New{RHS: 1}},
			b:    &change.Edit{Path: change.Path{"a", 1}, LHS: 1, RHS: 2},
			want: &change.Array{Path: p, Index: 1, Item: &change.New{RHS: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Merge(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeConflict(t *testing.T) {
	p := change.Path{"a"}

	tests := []struct {
		name string
		a, b change.Change
	}{
		{"delete delete", &change.Delete{Path: p, LHS: 1}, &change.Delete{Path: p, LHS: 1}},
		{"edit new", &change.Edit{Path: p, LHS: 1, RHS: 2}, &change.New{Path: p, RHS: 3}},
		{"new new", &change.New{Path: p, RHS: 1}, &change.New{Path: p, RHS: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Merge(tt.a, tt.b)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMergeConflict)

			var me *MergeError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, p, me.Path)
			assert.Equal(t, tt.a.Kind(), me.First)
			assert.Equal(t, tt.b.Kind(), me.Second)
		})
	}
}

func TestPushTwice(t *testing.T) {
	acc := New()
	del := &change.Delete{Path: change.Path{"a"}, LHS: 1.0}

	require.NoError(t, acc.Push(del))
	err := acc.Push(del)
	assert.ErrorIs(t, err, ErrMergeConflict)
	assert.Equal(t, 1, acc.Len())
}

func TestFlatten(t *testing.T) {
	acc := New(WithFlatten(func(_ change.Path, key any) bool {
		return key == "layout"
	}))

	lhs := map[string]any{
		"layout": map[string]any{"a": 1.0, "b": []any{1.0}},
		"title":  "x",
	}
	rhs := map[string]any{
		"layout": map[string]any{"a": 2.0, "b": []any{1.0, 2.0}},
		"title":  "y",
	}

	changes, err := acc.Diff(lhs, rhs)
	require.NoError(t, err)
	assert.Equal(t, []change.Change{
		&change.Edit{
			Path: change.Path{"layout"},
			LHS:  map[string]any{"a": 1.0, "b": []any{1.0}},
			RHS:  map[string]any{"a": 2.0, "b": []any{1.0, 2.0}},
		},
		&change.Edit{Path: change.Path{"title"}, LHS: "x", RHS: "y"},
	}, changes)

	// A second transition merges into the same coarse edit.
	next := map[string]any{
		"layout": map[string]any{"a": 3.0, "b": []any{1.0, 2.0}},
		"title":  "y",
	}
	changes, err = acc.Diff(rhs, next)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, &change.Edit{
		Path: change.Path{"layout"},
		LHS:  map[string]any{"a": 1.0, "b": []any{1.0}},
		RHS:  map[string]any{"a": 3.0, "b": []any{1.0, 2.0}},
	}, changes[0])

	b := change.NewBatch(changes)
	out, err := change.ApplyBatch(lhs, b)
	require.NoError(t, err)
	assert.Equal(t, next, out)
}

func TestPrefilter(t *testing.T) {
	acc := New(WithPrefilter(func(parent change.Path, key any) bool {
		return len(parent) == 0 && key == "cache"
	}))

	changes, err := acc.Diff(
		map[string]any{"cache": 1.0, "v": 1.0},
		map[string]any{"cache": 2.0, "v": 2.0, "o": map[string]any{"cache": 1.0}},
	)
	require.NoError(t, err)
	assert.Equal(t, []change.Change{
		&change.Edit{Path: change.Path{"v"}, LHS: 1.0, RHS: 2.0},
		&change.New{Path: change.Path{"o"}, RHS: map[string]any{"cache": 1.0}},
	}, changes)
}

func TestRestore(t *testing.T) {
	acc := New()
	_, err := acc.Diff(map[string]any{}, map[string]any{"a": 1.0})
	require.NoError(t, err)

	snapshot := acc.Changes()

	_, err = acc.Diff(map[string]any{"a": 1.0}, map[string]any{"a": 2.0})
	require.NoError(t, err)

	acc.Restore(snapshot)
	assert.Equal(t, []change.Change{&change.New{Path: change.Path{"a"}, RHS: 1.0}}, acc.Changes())

	acc.Restore(nil)
	assert.Zero(t, acc.Len())
}

func TestDiffAcrossTransitionsReplays(t *testing.T) {
	tests := []struct {
		name   string
		states []map[string]any
	}{
		{
			name: "shrink from the front",
			states: []map[string]any{
				{"l": []any{"a", "b"}}, {"l": []any{"b"}}, {"l": []any{}},
			},
		},
		{
			name: "shrink then refill",
			states: []map[string]any{
				{"l": []any{"a", "b"}}, {"l": []any{"b"}}, {"l": []any{}}, {"l": []any{"c"}},
			},
		},
		{
			name: "grow then edit",
			states: []map[string]any{
				{"l": []any{"a"}}, {"l": []any{"a", "b"}}, {"l": []any{"a", "b", "c"}}, {"l": []any{"a", "d", "c"}},
			},
		},
		{
			name: "shrink then grow",
			states: []map[string]any{
				{"l": []any{"a", "b", "c"}}, {"l": []any{"a"}}, {"l": []any{"a", "x"}}, {"l": []any{"y", "x", "z"}},
			},
		},
		{
			name: "nested elements",
			states: []map[string]any{
				{"l": []any{map[string]any{"n": 1.0}, map[string]any{"n": 2.0}}},
				{"l": []any{map[string]any{"n": 2.0}}},
				{"l": []any{map[string]any{"n": 3.0}}},
				{"l": []any{}},
			},
		},
		{
			name: "arrays and keys",
			states: []map[string]any{
				{"l": []any{1.0, 2.0}, "k": "a"},
				{"l": []any{2.0}, "k": "b"},
				{"l": []any{2.0, 3.0, 4.0}, "k": "a", "o": map[string]any{"l": []any{1.0}}},
				{"l": []any{4.0}, "o": map[string]any{"l": []any{}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := New()
			var changes []change.Change
			for i := 1; i < len(tt.states); i++ {
				var err error
				changes, err = acc.Diff(tt.states[i-1], tt.states[i])
				require.NoError(t, err, "transition %d", i)
			}

			first, last := tt.states[0], tt.states[len(tt.states)-1]
			b := change.NewBatch(changes)

			applied, err := change.ApplyBatch(first, b)
			require.NoError(t, err)
			assert.Equal(t, last, applied)

			reverted, err := change.RevertBatch(last, b)
			require.NoError(t, err)
			assert.Equal(t, first, reverted)
		})
	}
}

func TestMergeKeepsSplicesOrdered(t *testing.T) {
	acc := New()

	_, err := acc.Diff(map[string]any{"l": []any{"a", "b"}}, map[string]any{"l": []any{"b"}})
	require.NoError(t, err)
	changes, err := acc.Diff(map[string]any{"l": []any{"b"}}, map[string]any{"l": []any{}})
	require.NoError(t, err)

	// The edit of l[0] cannot absorb the later removal of l[0] across the
	// removal of l[1].
	assert.Equal(t, []change.Change{
		&change.Edit{Path: change.Path{"l", 0}, LHS: "a", RHS: "b"},
		&change.Array{Path: change.Path{"l"}, Index: 1, Item: &change.Delete{LHS: "b"}},
		&change.Array{Path: change.Path{"l"}, Index: 0, Item: &change.Delete{LHS: "b"}},
	}, changes)

	changes, err = acc.Diff(map[string]any{"l": []any{}}, map[string]any{"l": []any{"c"}})
	require.NoError(t, err)
	require.Len(t, changes, 3)
	assert.Equal(t, &change.Array{
		Path:  change.Path{"l"},
		Index: 0,
		Item:  &change.Edit{LHS: "b", RHS: "c"},
	}, changes[2])
}
