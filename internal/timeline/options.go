package timeline

import (
	"log/slog"

	"github.com/dshills/rewind/internal/accumulator"
	"github.com/dshills/rewind/internal/config"
	"github.com/dshills/rewind/internal/history"
	"github.com/dshills/rewind/internal/metrics"
	"github.com/dshills/rewind/internal/pattern"
)

// Option configures a wrapped reducer.
type Option func(*options)

type options struct {
	key           string
	limit         int
	types         ActionTypes
	skip          func(Action) bool
	ignoreInitial bool
	flatten       accumulator.Predicate
	prefilter     accumulator.Predicate
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

func defaultOptions() options {
	return options{
		key:           history.DefaultKey,
		types:         DefaultActionTypes(),
		ignoreInitial: true,
		logger:        slog.Default(),
	}
}

// WithKey sets the state field holding the history.
func WithKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

// WithLimit bounds the number of batches kept. Zero is unbounded.
func WithLimit(limit int) Option {
	return func(o *options) {
		if limit >= 0 {
			o.limit = limit
		}
	}
}

// WithActionTypes overrides the navigation action types.
// Empty fields keep their current value.
func WithActionTypes(types ActionTypes) Option {
	return func(o *options) {
		if types.Undo != "" {
			o.types.Undo = types.Undo
		}
		if types.Redo != "" {
			o.types.Redo = types.Redo
		}
		if types.Jump != "" {
			o.types.Jump = types.Jump
		}
		if types.Clear != "" {
			o.types.Clear = types.Clear
		}
	}
}

// WithSkip sets a predicate selecting actions whose changes are held back.
// Held changes are recorded together with the next action that is not
// skipped.
func WithSkip(fn func(Action) bool) Option {
	return func(o *options) {
		o.skip = fn
	}
}

// WithIgnoreInitial controls whether the first transition, from no state
// to the reducer's initial state, is recorded. It is ignored by default.
func WithIgnoreInitial(ignore bool) Option {
	return func(o *options) {
		o.ignoreInitial = ignore
	}
}

// WithFlatten sets the predicate selecting subtrees recorded as a single
// edit.
func WithFlatten(fn accumulator.Predicate) Option {
	return func(o *options) {
		o.flatten = fn
	}
}

// WithPrefilter sets the predicate selecting subtrees that are never
// recorded.
func WithPrefilter(fn accumulator.Predicate) Option {
	return func(o *options) {
		o.prefilter = fn
	}
}

// WithMetrics sets the collectors updated on every transition.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithLogger sets the logger used for failed transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// FromConfig applies a loaded configuration.
func FromConfig(cfg config.Config) Option {
	return func(o *options) {
		WithKey(cfg.Key)(o)
		WithLimit(cfg.Limit)(o)
		WithIgnoreInitial(cfg.IgnoreInitial)(o)
		WithActionTypes(ActionTypes{
			Undo:  cfg.Actions.Undo,
			Redo:  cfg.Actions.Redo,
			Jump:  cfg.Actions.Jump,
			Clear: cfg.Actions.Clear,
		})(o)
		if p := pattern.New(cfg.Flatten...).Predicate(); p != nil {
			o.flatten = p
		}
		if p := pattern.New(cfg.Prefilter...).Predicate(); p != nil {
			o.prefilter = p
		}
	}
}
