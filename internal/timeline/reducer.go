package timeline

import (
	"errors"
	"fmt"

	"github.com/dshills/rewind/internal/accumulator"
	"github.com/dshills/rewind/internal/change"
	"github.com/dshills/rewind/internal/history"
	"github.com/dshills/rewind/internal/metrics"
)

// wrapper records the transitions of a reducer.
type wrapper struct {
	reducer Reducer
	opts    options
	acc     *accumulator.Accumulator
}

func newWrapper(reducer Reducer, opts ...Option) *wrapper {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &wrapper{
		reducer: reducer,
		opts:    o,
		acc: accumulator.New(
			accumulator.WithFlatten(o.flatten),
			accumulator.WithPrefilter(o.prefilter),
			accumulator.WithLogger(o.logger),
		),
	}
}

// Wrap returns a reducer that keeps a history of reducer's transitions.
// The returned reducer holds the pending changes of skipped actions and
// must be owned by a single goroutine.
func Wrap(reducer Reducer, opts ...Option) Reducer {
	w := newWrapper(reducer, opts...)
	return func(state map[string]any, action Action) map[string]any {
		return w.reduce(state, action, false)
	}
}

// reduce runs one transition. With hold set, ordinary actions accumulate
// their changes without recording them.
func (w *wrapper) reduce(raw map[string]any, action Action, hold bool) map[string]any {
	state, h, err := w.split(raw)
	if err != nil {
		return w.fail("split", raw, action, err)
	}

	switch action.Type {
	case w.opts.types.Undo:
		if !h.CanUndo() {
			return w.unchanged(raw, state, h)
		}
		next, err := change.RevertBatch(state, h.Prev[0])
		if err != nil {
			return w.fail(metrics.OpUndo, raw, action, err)
		}
		return w.finish(metrics.OpUndo, next, h.Undo())

	case w.opts.types.Redo:
		if !h.CanRedo() {
			return w.unchanged(raw, state, h)
		}
		next, err := change.ApplyBatch(state, h.Next[0])
		if err != nil {
			return w.fail(metrics.OpRedo, raw, action, err)
		}
		return w.finish(metrics.OpRedo, next, h.Redo())

	case w.opts.types.Jump:
		batches := h.Slice(action.Index)
		if len(batches) == 0 {
			return w.unchanged(raw, state, h)
		}
		var next map[string]any
		if action.Index > 0 {
			next, err = change.ApplyBatches(state, batches)
		} else {
			next, err = change.RevertBatches(state, batches)
		}
		if err != nil {
			return w.fail(metrics.OpJump, raw, action, err)
		}
		return w.finish(metrics.OpJump, next, h.Jump(action.Index))

	case w.opts.types.Clear:
		return w.finish(metrics.OpClear, state, h.Clear())
	}

	var lhs map[string]any
	if raw != nil {
		lhs = state
	}
	rhs := w.reducer(lhs, action)
	if rhs == nil {
		rhs = map[string]any{}
	}

	var changes []change.Change
	if raw != nil || !w.opts.ignoreInitial {
		pending := w.acc.Changes()
		changes, err = w.acc.Diff(lhs, rhs)
		if err != nil {
			w.acc.Restore(pending)
			return w.fail(metrics.OpRecord, raw, action, err)
		}
	}

	if hold || (w.opts.skip != nil && w.opts.skip(action)) {
		w.opts.metrics.Transition(metrics.OpSkip)
		return w.compose(rhs, h)
	}

	w.acc.Clear()
	return w.record(rhs, h, changes, action.Type)
}

// record adds changes to the history as one batch labelled label.
func (w *wrapper) record(state map[string]any, h history.History, changes []change.Change, label string) map[string]any {
	if len(changes) == 0 {
		return w.compose(state, h)
	}

	b := change.NewBatch(changes)
	b.Label = label
	w.opts.metrics.Recorded(b.Len())
	w.opts.logger.Debug("recorded batch", "label", label, "changes", b.Len())
	return w.finish(metrics.OpRecord, state, h.Record(b))
}

// commit records the held changes as one batch.
func (w *wrapper) commit(raw map[string]any, label string) map[string]any {
	state, h, err := w.split(raw)
	if err != nil {
		return w.fail("commit", raw, Action{Type: label}, err)
	}
	changes := w.acc.Changes()
	w.acc.Clear()
	return w.record(state, h, changes, label)
}

// split separates the history from the rest of the state. A state without
// a history field starts a new one.
func (w *wrapper) split(raw map[string]any) (map[string]any, history.History, error) {
	if raw == nil {
		return map[string]any{}, history.New(w.opts.limit), nil
	}
	if _, ok := raw[w.opts.key]; !ok {
		state := make(map[string]any, len(raw))
		for k, v := range raw {
			state[k] = v
		}
		return state, history.New(w.opts.limit), nil
	}
	return history.Split(raw, w.opts.key)
}

// compose returns a new state holding the fields of state and h.
func (w *wrapper) compose(state map[string]any, h history.History) map[string]any {
	out := make(map[string]any, len(state)+1)
	for k, v := range state {
		out[k] = v
	}
	out[w.opts.key] = h
	return out
}

func (w *wrapper) finish(op string, state map[string]any, h history.History) map[string]any {
	w.opts.metrics.Transition(op)
	w.opts.metrics.Depth(h.UndoCount(), h.RedoCount())
	return w.compose(state, h)
}

// unchanged returns the input state when there is one, or a fresh state
// holding h.
func (w *wrapper) unchanged(raw, state map[string]any, h history.History) map[string]any {
	if raw != nil {
		if _, ok := raw[w.opts.key]; ok {
			return raw
		}
	}
	return w.compose(state, h)
}

func (w *wrapper) fail(op string, raw map[string]any, action Action, err error) map[string]any {
	w.opts.metrics.Failure(op)

	msg := "transition failed"
	if errors.Is(err, accumulator.ErrMergeConflict) {
		msg = "conflicting changes"
	}
	w.opts.logger.Error(msg,
		"action", action.Type,
		"key", w.opts.key,
		"err", fmt.Errorf("%s: %w", op, err),
	)
	return raw
}
