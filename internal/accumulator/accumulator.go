// Package accumulator collects the changes between successive states into
// a single pending batch.
//
// Changes that touch the same path are merged as they arrive, so a value
// edited twice produces one edit and a value that returns to where it
// started produces nothing. Changes separated by a splice of the same
// array are kept apart, so the pending batch always replays in order. Subtrees selected by the flatten predicate are
// recorded as one coarse edit of the whole subtree instead of many
// fine-grained changes.
//
//	acc := accumulator.New(accumulator.WithFlatten(func(parent change.Path, key any) bool {
//	    return key == "layout"
//	}))
//	changes, err := acc.Diff(before, after)
//	// ... record changes ...
//	acc.Clear()
//
// An Accumulator is owned by a single goroutine.
package accumulator

import (
	"log/slog"

	"github.com/dshills/rewind/internal/change"
	"github.com/dshills/rewind/internal/diff"
)

// Predicate decides something about key under parent.
type Predicate func(parent change.Path, key any) bool

// Option configures an Accumulator.
type Option func(*Accumulator)

// WithFlatten sets the predicate selecting subtrees that are recorded as
// a single edit. Array splices under a selected subtree are flattened too.
func WithFlatten(fn Predicate) Option {
	return func(a *Accumulator) {
		a.flatten = fn
	}
}

// WithPrefilter sets the predicate selecting subtrees that are not
// compared at all.
func WithPrefilter(fn Predicate) Option {
	return func(a *Accumulator) {
		a.prefilter = fn
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Accumulator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Accumulator merges change records into a pending batch.
type Accumulator struct {
	flatten   Predicate
	prefilter Predicate
	logger    *slog.Logger

	// Per-Diff session state.
	flattened []change.Path
	lhs, rhs  any

	// Pending batch, kept until Clear.
	changes []change.Change
}

// New creates an accumulator.
func New(opts ...Option) *Accumulator {
	a := &Accumulator{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Diff compares lhs and rhs, pushes every resulting change and returns
// a copy of the pending batch. Changes from earlier calls stay pending
// until Clear is called. Neither input is modified.
func (a *Accumulator) Diff(lhs, rhs any) ([]change.Change, error) {
	a.flattened = nil
	a.lhs = lhs
	a.rhs = rhs

	var pushErr error
	diff.Compute(lhs, rhs, a.skip, func(c change.Change) {
		if pushErr != nil {
			return
		}
		pushErr = a.Push(c)
	})

	// Snapshots are only needed while the engine runs.
	a.lhs, a.rhs = nil, nil

	return a.Changes(), pushErr
}

// Push adds a single change to the pending batch, flattening or merging
// it as configured.
func (a *Accumulator) Push(c change.Change) error {
	flat := a.flatPath(c)
	if a.isFlattened(flat) {
		return nil
	}

	if !flat.Equal(change.EffectivePath(c)) {
		a.flattened = append(a.flattened, flat)
		a.logger.Debug("flattening change", "path", flat.String(), "kind", c.Kind().String())
		return a.addChange(&change.Edit{
			Path: flat,
			LHS:  change.Clone(valueAt(a.lhs, flat)),
			RHS:  change.Clone(valueAt(a.rhs, flat)),
		})
	}
	return a.addChange(c)
}

// Changes returns a copy of the pending batch.
func (a *Accumulator) Changes() []change.Change {
	if len(a.changes) == 0 {
		return nil
	}
	out := make([]change.Change, len(a.changes))
	copy(out, a.changes)
	return out
}

// Len returns the number of pending changes.
func (a *Accumulator) Len() int {
	return len(a.changes)
}

// Clear discards the pending batch.
func (a *Accumulator) Clear() {
	a.changes = nil
}

// Restore replaces the pending batch with a copy of changes, typically
// a snapshot taken earlier with Changes.
func (a *Accumulator) Restore(changes []change.Change) {
	a.changes = nil
	if len(changes) > 0 {
		a.changes = make([]change.Change, len(changes))
		copy(a.changes, changes)
	}
}

// skip is the prefilter handed to the diff engine. Anything under a
// path flattened in this session has already been recorded.
func (a *Accumulator) skip(parent change.Path, key any) bool {
	if a.isFlattened(parent.Append(key)) {
		return true
	}
	return a.prefilter != nil && a.prefilter(parent, key)
}

// flatPath truncates the change's path after the first key the flatten
// predicate selects.
func (a *Accumulator) flatPath(c change.Change) change.Path {
	path := c.ChangePath()
	if a.flatten != nil {
		for i, key := range path {
			if a.flatten(path[:i], key) {
				return path[:i+1]
			}
		}
	}
	return change.EffectivePath(c)
}

func (a *Accumulator) isFlattened(path change.Path) bool {
	for _, done := range a.flattened {
		if path.HasPrefix(done) {
			return true
		}
	}
	return false
}

// addChange appends c or merges it with the most recent pending change at
// the same effective path. The batch stays replayable in order: a merge
// only happens when the merged record can take the place of either change
// without crossing a splice of the same array. Otherwise c is appended
// as is.
func (a *Accumulator) addChange(c change.Change) error {
	path := change.EffectivePath(c)
	existing := -1
	for i := len(a.changes) - 1; i >= 0; i-- {
		if change.EffectivePath(a.changes[i]).Equal(path) {
			existing = i
			break
		}
	}

	if existing < 0 {
		a.changes = append(a.changes, c)
		return nil
	}

	tail := a.changes[existing+1:]
	inPlace := commutes(c, tail)
	atEnd := commutes(a.changes[existing], tail)
	if !inPlace && !atEnd {
		a.logger.Debug("keeping change unmerged", "path", path.String())
		a.changes = append(a.changes, c)
		return nil
	}

	merged, err := Merge(a.changes[existing], c)
	if err != nil {
		return err
	}
	switch {
	case merged == nil:
		a.logger.Debug("changes cancel out", "path", path.String())
		a.changes = append(a.changes[:existing], a.changes[existing+1:]...)
	case inPlace:
		a.changes[existing] = merged
	default:
		a.changes = append(a.changes[:existing], a.changes[existing+1:]...)
		a.changes = append(a.changes, merged)
	}
	return nil
}

// commutes reports whether c can be replayed before or after every change
// in others with the same result.
func commutes(c change.Change, others []change.Change) bool {
	for _, o := range others {
		if interferes(c, o) {
			return false
		}
	}
	return true
}

// interferes reports whether the order of x and y matters: one contains
// the other, or one inserts or removes an element of an array the other
// reaches into.
func interferes(x, y change.Change) bool {
	px, py := change.EffectivePath(x), change.EffectivePath(y)
	if px.HasPrefix(py) || py.HasPrefix(px) {
		return true
	}
	if p, ok := spliceOf(x); ok && py.HasPrefix(p) {
		return true
	}
	if p, ok := spliceOf(y); ok && px.HasPrefix(p) {
		return true
	}
	return false
}

// spliceOf returns the path of the array whose indices c shifts.
func spliceOf(c change.Change) (change.Path, bool) {
	arr, ok := c.(*change.Array)
	if !ok {
		return nil, false
	}
	switch arr.Item.(type) {
	case *change.New, *change.Delete:
		return arr.Path, true
	default:
		return nil, false
	}
}

// valueAt reads the value at path, or nil when any key is missing.
func valueAt(root any, path change.Path) any {
	node := root
	for _, key := range path {
		switch n := node.(type) {
		case map[string]any:
			k, _ := key.(string)
			node = n[k]
		case []any:
			idx, ok := key.(int)
			if !ok || idx < 0 || idx >= len(n) {
				return nil
			}
			node = n[idx]
		default:
			return nil
		}
	}
	return node
}
