// Package deducer reconstructs derived values at past (or undone) points of
// a state's history by replaying its change batches.
//
// A Deducer wraps a selector. Given a state carrying a history field, it
// reverts the recorded batches one at a time starting from the current
// state (or, WithNext, applies the undone batches) and runs the selector
// on each reconstructed state:
//
//	counts := deducer.New(func(state map[string]any, _ ...any) float64 {
//	    n, _ := state["count"].(float64)
//	    return n
//	}, deducer.WithLimit(10))
//	past, err := counts.Deduce(state) // oldest first
//
// Step i is the state i+1 batches away from the current state. WithIndex,
// WithRange and WithLimit select steps; results are always returned in
// chronological order.
//
// Results are memoized. A call whose batch sequence holds the same batches
// as the previous call returns the previous result without replaying.
// Otherwise each step's result is reused when the batch at the same
// distance from the oldest end is unchanged, so recording a new batch only
// runs the selector for the new step. Selector arguments are not part of
// the memo key.
//
// A Deducer is owned by a single goroutine.
package deducer

import (
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/rewind/internal/change"
	"github.com/dshills/rewind/internal/history"
)

// Selector derives a value from a reconstructed state.
// The state must be treated as read-only.
type Selector[T any] func(state map[string]any, args ...any) T

type step[T any] struct {
	batch  *change.Batch
	result T
}

type memo[T any] struct {
	batches []*change.Batch
	results []T
}

// Deducer replays history batches through a selector.
type Deducer[T any] struct {
	selector Selector[T]
	cfg      config

	steps *lru.Cache[int, step[T]]
	last  *memo[T]
}

// New creates a deducer for selector.
func New[T any](selector Selector[T], opts ...Option) *Deducer[T] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.conflicting() {
		cfg.logger.Warn("index, range, or limit should not be combined",
			"key", cfg.key,
			"index", cfg.hasIndex,
			"range", cfg.hasRange,
			"limit", cfg.hasLimit,
		)
	}

	// Only fails for a non-positive size, which the options rule out.
	steps, _ := lru.New[int, step[T]](cfg.cacheSize)

	return &Deducer[T]{
		selector: selector,
		cfg:      cfg,
		steps:    steps,
	}
}

// Deduce returns the selector's result at every selected step, oldest
// first. The returned slice is shared with the memo and must not be
// modified.
func (d *Deducer[T]) Deduce(state map[string]any, args ...any) ([]T, error) {
	current, h, err := history.Split(state, d.cfg.key)
	if err != nil {
		return nil, err
	}

	batches := h.Prev
	if d.cfg.next {
		batches = h.Next
	}

	if d.last != nil && sameBatches(d.last.batches, batches) {
		return d.last.results, nil
	}

	current = change.CloneState(current)
	n := len(batches)
	lower, upper := d.cfg.window(n)

	var results []T
	for i := 0; i < n && i <= upper; i++ {
		if current, err = d.replay(current, batches[i]); err != nil {
			return nil, fmt.Errorf("deduce step %d: %w", i, err)
		}
		if i < lower {
			continue
		}

		result := d.selectAt(i-n, batches[i], current, args)
		if d.cfg.unique && len(results) > 0 && reflect.DeepEqual(results[len(results)-1], result) {
			continue
		}
		results = append(results, result)
	}

	// Steps run from the current state outward; backward replay visits
	// the past newest first.
	if !d.cfg.next {
		for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
			results[i], results[j] = results[j], results[i]
		}
	}

	d.last = &memo[T]{
		batches: append([]*change.Batch(nil), batches...),
		results: results,
	}
	return results, nil
}

// Value returns the first deduced result and whether there was one.
// It is meant for deducers configured WithIndex.
func (d *Deducer[T]) Value(state map[string]any, args ...any) (T, bool, error) {
	var zero T
	results, err := d.Deduce(state, args...)
	if err != nil || len(results) == 0 {
		return zero, false, err
	}
	return results[0], true, nil
}

// Reset drops every memoized result.
func (d *Deducer[T]) Reset() {
	d.steps.Purge()
	d.last = nil
}

func (d *Deducer[T]) replay(state map[string]any, b *change.Batch) (map[string]any, error) {
	if d.cfg.next {
		return change.ApplyTo(state, b)
	}
	return change.RevertTo(state, b)
}

// selectAt returns the memoized result for the step at offset from the
// oldest end when the batch there is unchanged, or runs the selector.
func (d *Deducer[T]) selectAt(offset int, b *change.Batch, state map[string]any, args []any) T {
	if cached, ok := d.steps.Get(offset); ok && cached.batch == b {
		return cached.result
	}
	result := d.selector(state, args...)
	d.steps.Add(offset, step[T]{batch: b, result: result})
	return result
}

func sameBatches(a, b []*change.Batch) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
