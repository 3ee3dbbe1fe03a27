package change

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathString(t *testing.T) {
	tests := []struct {
		path Path
		want string
	}{
		{nil, ""},
		{Path{"a"}, "a"},
		{Path{"a", "b", 2, "c"}, "a.b[2].c"},
		{Path{0, "a"}, "[0].a"},
		{Path{"m", 1, 2}, "m[1][2]"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.path.String())
		})
	}
}

func TestPathAppend(t *testing.T) {
	base := make(Path, 1, 4)
	base[0] = "a"

	x := base.Append("x")
	y := base.Append("y")

	assert.Equal(t, Path{"a", "x"}, x)
	assert.Equal(t, Path{"a", "y"}, y)
	assert.Equal(t, Path{"a"}, base)
}

func TestPathHasPrefix(t *testing.T) {
	p := Path{"a", 1, "b"}

	assert.True(t, p.HasPrefix(nil))
	assert.True(t, p.HasPrefix(Path{"a", 1}))
	assert.True(t, p.HasPrefix(p))
	assert.False(t, p.HasPrefix(Path{"a", "1"}))
	assert.False(t, p.HasPrefix(Path{"a", 1, "b", "c"}))
}

func TestEffectivePath(t *testing.T) {
	arr := &Array{Path: Path{"list"}, Index: 3, Item: &New{RHS: 1}}
	assert.Equal(t, Path{"list", 3}, EffectivePath(arr))
	assert.Equal(t, Path{"list"}, arr.ChangePath())

	edit := &Edit{Path: Path{"a"}, LHS: 1, RHS: 2}
	assert.Equal(t, Path{"a"}, EffectivePath(edit))
}

func TestBeforeAfter(t *testing.T) {
	tests := []struct {
		name       string
		c          Change
		before     any
		hasBefore  bool
		after      any
		hasAfter   bool
		kindLetter string
	}{
		{"edit", &Edit{LHS: 1, RHS: 2}, 1, true, 2, true, "E"},
		{"new", &New{RHS: 2}, nil, false, 2, true, "N"},
		{"delete", &Delete{LHS: 1}, 1, true, nil, false, "D"},
		{"array", &Array{Item: &New{RHS: 2}}, nil, false, nil, false, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, ok := Before(tt.c)
			assert.Equal(t, tt.hasBefore, ok)
			assert.Equal(t, tt.before, before)

			after, ok := After(tt.c)
			assert.Equal(t, tt.hasAfter, ok)
			assert.Equal(t, tt.after, after)

			assert.Equal(t, tt.kindLetter, tt.c.Kind().String())
		})
	}
}

func TestCopyIsDeep(t *testing.T) {
	orig := &Array{
		Path:  Path{"a"},
		Index: 0,
		Item:  &New{RHS: map[string]any{"x": []any{1.0}}},
	}

	cp := Copy(orig).(*Array)
	cp.Path[0] = "b"
	cp.Item.(*New).RHS.(map[string]any)["x"].([]any)[0] = 2.0

	assert.Equal(t, Path{"a"}, orig.Path)
	assert.Equal(t, 1.0, orig.Item.(*New).RHS.(map[string]any)["x"].([]any)[0])
}

func TestApplyRevert(t *testing.T) {
	tests := []struct {
		name   string
		before map[string]any
		c      Change
		after  map[string]any
	}{
		{
			name:   "edit",
			before: map[string]any{"a": 1.0},
			c:      &Edit{Path: Path{"a"}, LHS: 1.0, RHS: 2.0},
			after:  map[string]any{"a": 2.0},
		},
		{
			name:   "new nested",
			before: map[string]any{"o": map[string]any{}},
			c:      &New{Path: Path{"o", "k"}, RHS: "v"},
			after:  map[string]any{"o": map[string]any{"k": "v"}},
		},
		{
			name:   "delete",
			before: map[string]any{"a": 1.0, "b": true},
			c:      &Delete{Path: Path{"b"}, LHS: true},
			after:  map[string]any{"a": 1.0},
		},
		{
			name:   "array append",
			before: map[string]any{"l": []any{1.0}},
			c:      &Array{Path: Path{"l"}, Index: 1, Item: &New{RHS: 2.0}},
			after:  map[string]any{"l": []any{1.0, 2.0}},
		},
		{
			name:   "array remove",
			before: map[string]any{"l": []any{1.0, 2.0, 3.0}},
			c:      &Array{Path: Path{"l"}, Index: 2, Item: &Delete{LHS: 3.0}},
			after:  map[string]any{"l": []any{1.0, 2.0}},
		},
		{
			name:   "array element edit",
			before: map[string]any{"l": []any{map[string]any{"n": 1.0}}},
			c:      &Edit{Path: Path{"l", 0, "n"}, LHS: 1.0, RHS: 5.0},
			after:  map[string]any{"l": []any{map[string]any{"n": 5.0}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applied, err := Apply(CloneState(tt.before), tt.c)
			require.NoError(t, err)
			assert.Equal(t, tt.after, applied)

			reverted, err := Revert(CloneState(tt.after), tt.c)
			require.NoError(t, err)
			assert.Equal(t, tt.before, reverted)
		})
	}
}

func TestApplyClonesValues(t *testing.T) {
	value := map[string]any{"x": 1.0}
	c := &New{Path: Path{"o"}, RHS: value}

	out, err := Apply(map[string]any{}, c)
	require.NoError(t, err)

	out.(map[string]any)["o"].(map[string]any)["x"] = 2.0
	assert.Equal(t, 1.0, value["x"])
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name   string
		target any
		c      Change
		want   error
	}{
		{"missing parent", map[string]any{}, &Edit{Path: Path{"x", "y"}, RHS: 1}, ErrPathNotFound},
		{"int key on map", map[string]any{}, &Edit{Path: Path{0}, RHS: 1}, ErrKeyType},
		{"string key on slice", []any{1}, &Edit{Path: Path{"a"}, RHS: 1}, ErrKeyType},
		{"index range", []any{1}, &Edit{Path: Path{5}, RHS: 1}, ErrIndexRange},
		{"array on scalar", map[string]any{"s": "x"}, &Array{Path: Path{"s"}, Index: 0, Item: &Delete{}}, ErrKeyType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(tt.target, tt.c)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var pe *PathError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, "apply", pe.Op)
			assert.Equal(t, EffectivePath(tt.c), pe.Path)
		})
	}
}

func TestBatchReplay(t *testing.T) {
	b := NewBatch([]Change{
		&Edit{Path: Path{"a"}, LHS: 1.0, RHS: 2.0},
		&New{Path: Path{"l"}, RHS: []any{}},
		&Array{Path: Path{"l"}, Index: 0, Item: &New{RHS: "x"}},
	})
	before := map[string]any{"a": 1.0}
	after := map[string]any{"a": 2.0, "l": []any{"x"}}

	applied, err := ApplyBatch(before, b)
	require.NoError(t, err)
	assert.Equal(t, after, applied)
	assert.Equal(t, map[string]any{"a": 1.0}, before, "input must not change")

	reverted, err := RevertBatch(applied, b)
	require.NoError(t, err)
	assert.Equal(t, before, reverted)

	second := NewBatch([]Change{&Delete{Path: Path{"a"}, LHS: 2.0}})
	out, err := ApplyBatches(before, []*Batch{b, second})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"l": []any{"x"}}, out)

	back, err := RevertBatches(out, []*Batch{second, b})
	require.NoError(t, err)
	assert.Equal(t, before, back)
}

func TestBatchReplayFailureKeepsInput(t *testing.T) {
	bad := NewBatch([]Change{&Edit{Path: Path{"missing", "x"}, RHS: 1}})
	state := map[string]any{"a": 1.0}

	out, err := ApplyBatches(state, []*Batch{bad})
	require.Error(t, err)
	assert.Equal(t, state, out)
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestBatchSummary(t *testing.T) {
	var nilBatch *Batch
	assert.Equal(t, "No changes", nilBatch.Summary())
	assert.True(t, nilBatch.IsEmpty())

	one := NewBatch([]Change{&Edit{Path: Path{"a"}, LHS: 1, RHS: 2}})
	assert.Equal(t, "E a: 1 -> 2", one.Summary())

	many := NewBatch([]Change{
		&New{Path: Path{"a"}, RHS: 1},
		&Delete{Path: Path{"b"}, LHS: 1},
		&Array{Path: Path{"c"}, Index: 2, Item: &New{RHS: 1}},
		&Edit{Path: Path{"d"}, LHS: 1, RHS: 2},
	})
	assert.Equal(t, "4 changes (a, b, c[2], ...)", many.Summary())
	assert.NotEqual(t, one.ID, many.ID)
}

func TestNewBatchCopiesSlice(t *testing.T) {
	changes := []Change{&New{Path: Path{"a"}, RHS: 1}}
	b := NewBatch(changes)
	changes[0] = &New{Path: Path{"b"}, RHS: 2}

	assert.Equal(t, Path{"a"}, b.Changes[0].ChangePath())
}
