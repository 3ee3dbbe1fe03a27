// Package diff computes the structural difference between two JSON-like
// documents as a stream of change records.
//
// Maps are compared key by key in sorted order. Slices are compared
// element by element; elements that exist on only one side are reported
// as *change.Array records. Removed elements are emitted from the highest
// index down and appended elements from the lowest index up, so that
// replaying the records in emission order with change.Apply reproduces
// the right-hand side.
package diff

import (
	"reflect"
	"sort"

	"github.com/dshills/rewind/internal/change"
)

// SkipFunc reports whether the key under parent must be ignored entirely.
// It is consulted before a property or element is compared.
type SkipFunc func(parent change.Path, key any) bool

// Sink receives each change as it is found.
type Sink func(change.Change)

// Compute compares lhs and rhs and passes every difference to sink.
// A nil skip compares everything. Neither input is modified.
func Compute(lhs, rhs any, skip SkipFunc, sink Sink) {
	w := walker{skip: skip, sink: sink}
	w.compare(nil, lhs, rhs)
}

// Diff compares lhs and rhs and returns the collected changes.
func Diff(lhs, rhs any, skip SkipFunc) []change.Change {
	var out []change.Change
	Compute(lhs, rhs, skip, func(c change.Change) {
		out = append(out, c)
	})
	return out
}

type walker struct {
	skip SkipFunc
	sink Sink
}

func (w *walker) skipped(parent change.Path, key any) bool {
	return w.skip != nil && w.skip(parent, key)
}

func (w *walker) compare(path change.Path, lhs, rhs any) {
	switch l := lhs.(type) {
	case map[string]any:
		if r, ok := rhs.(map[string]any); ok {
			w.compareMaps(path, l, r)
			return
		}
	case []any:
		if r, ok := rhs.([]any); ok {
			w.compareSlices(path, l, r)
			return
		}
	}

	if !sameScalar(lhs, rhs) {
		w.sink(&change.Edit{Path: path, LHS: change.Clone(lhs), RHS: change.Clone(rhs)})
	}
}

func (w *walker) compareMaps(path change.Path, lhs, rhs map[string]any) {
	for _, k := range sortedKeys(lhs) {
		if w.skipped(path, k) {
			continue
		}
		lv := lhs[k]
		rv, ok := rhs[k]
		if !ok {
			w.sink(&change.Delete{Path: path.Append(k), LHS: change.Clone(lv)})
			continue
		}
		w.compare(path.Append(k), lv, rv)
	}

	for _, k := range sortedKeys(rhs) {
		if _, ok := lhs[k]; ok {
			continue
		}
		if w.skipped(path, k) {
			continue
		}
		w.sink(&change.New{Path: path.Append(k), RHS: change.Clone(rhs[k])})
	}
}

func (w *walker) compareSlices(path change.Path, lhs, rhs []any) {
	common := min(len(lhs), len(rhs))

	for i := 0; i < common; i++ {
		if w.skipped(path, i) {
			continue
		}
		w.compare(path.Append(i), lhs[i], rhs[i])
	}

	for i := len(lhs) - 1; i >= common; i-- {
		if w.skipped(path, i) {
			continue
		}
		w.sink(&change.Array{
			Path:  path.Clone(),
			Index: i,
			Item:  &change.Delete{LHS: change.Clone(lhs[i])},
		})
	}

	for i := common; i < len(rhs); i++ {
		if w.skipped(path, i) {
			continue
		}
		w.sink(&change.Array{
			Path:  path.Clone(),
			Index: i,
			Item:  &change.New{RHS: change.Clone(rhs[i])},
		})
	}
}

// sameScalar compares two non-container values, or containers of
// different kinds which are never equal.
func sameScalar(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
