// Package watch reloads a document file whenever it changes on disk.
//
// The containing directory is watched rather than the file itself, so
// editors that save by writing a new file and renaming it over the old
// one are followed. Rapid successive changes are coalesced into one
// reload.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/rewind/internal/document"
)

// DefaultDelay is the quiet period after the last change before a reload.
const DefaultDelay = 100 * time.Millisecond

// ErrNoHandler is returned when creating a watcher without a handler.
var ErrNoHandler = errors.New("watch: nil handler")

// Handler receives each successfully reloaded document.
type Handler func(doc map[string]any)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithLogger sets the logger for watcher events.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithErrorHandler sets a function called with reload and watch errors.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watcher reloads a single document file.
type Watcher struct {
	path    string
	handler Handler
	delay   time.Duration
	logger  *slog.Logger
	onError func(error)
}

// New creates a watcher for the document at path. The format is taken
// from the file extension.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, ErrNoHandler
	}
	if _, err := document.FormatOf(path); err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:    absPath,
		handler: handler,
		delay:   DefaultDelay,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Run watches the file until ctx is cancelled. The handler is called from
// the goroutine running Run.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Debug("watching document", "path", w.path)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				timer.Reset(w.delay)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.fail(fmt.Errorf("watch %s: %w", w.path, err))

		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

// relevant reports whether ev may have changed the file's content.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	doc, err := document.ReadFile(w.path)
	if err != nil {
		w.fail(err)
		return
	}
	w.logger.Debug("document reloaded", "path", w.path, "keys", len(doc))
	w.handler(doc)
}

func (w *Watcher) fail(err error) {
	w.logger.Warn("document reload failed", "err", err)
	if w.onError != nil {
		w.onError(err)
	}
}
