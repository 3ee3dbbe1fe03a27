package deducer

import (
	"log/slog"

	"github.com/dshills/rewind/internal/history"
)

// DefaultCacheSize is the number of per-step results kept by default.
const DefaultCacheSize = 1024

// Option configures a Deducer during creation.
type Option func(*config)

type config struct {
	key       string
	next      bool
	unique    bool
	index     int
	hasIndex  bool
	lower     int
	upper     int
	hasRange  bool
	limit     int
	hasLimit  bool
	cacheSize int
	logger    *slog.Logger
}

func defaultConfig() config {
	return config{
		key:       history.DefaultKey,
		cacheSize: DefaultCacheSize,
		logger:    slog.Default(),
	}
}

// WithKey sets the state field holding the history.
func WithKey(key string) Option {
	return func(c *config) {
		if key != "" {
			c.key = key
		}
	}
}

// WithNext replays the redo queue forward instead of the undo queue
// backward.
func WithNext() Option {
	return func(c *config) {
		c.next = true
	}
}

// WithUnique collapses consecutive equal results into one.
func WithUnique() Option {
	return func(c *config) {
		c.unique = true
	}
}

// WithIndex selects the single step at index.
func WithIndex(index int) Option {
	return func(c *config) {
		c.index = index
		c.hasIndex = true
	}
}

// WithRange selects steps lower through upper, inclusive.
func WithRange(lower, upper int) Option {
	return func(c *config) {
		c.lower = lower
		c.upper = upper
		c.hasRange = true
	}
}

// WithLimit selects the limit steps nearest to the current state.
func WithLimit(limit int) Option {
	return func(c *config) {
		if limit > 0 {
			c.limit = limit
			c.hasLimit = true
		}
	}
}

// WithCacheSize sets the number of per-step results kept.
func WithCacheSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.cacheSize = size
		}
	}
}

// WithLogger sets the logger used for configuration warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// conflicting reports whether more than one of index, range and limit
// was given.
func (c config) conflicting() bool {
	n := 0
	for _, set := range []bool{c.hasIndex, c.hasRange, c.hasLimit} {
		if set {
			n++
		}
	}
	return n > 1
}

// window resolves the inclusive step bounds for a sequence of length n.
// Precedence is index, then range, then limit.
func (c config) window(n int) (lower, upper int) {
	switch {
	case c.hasIndex:
		return c.index, c.index
	case c.hasRange:
		return max(c.lower, 0), min(c.upper, n-1)
	case c.hasLimit:
		return 0, min(c.limit, n) - 1
	default:
		return 0, n - 1
	}
}
