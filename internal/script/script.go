// Package script compiles Lua expressions into state selectors.
//
// A selector sees the state as the global table "state" and any extra
// arguments as the array "args". The source is either an expression or a
// chunk ending in a return statement:
//
//	sel, err := script.Compile("state.count * 2")
//	sel, err := script.Compile("local n = 0 for _ in pairs(state.items) do n = n + 1 end return n")
//
// Only the base, table, string and math libraries are available.
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single evaluation.
const DefaultTimeout = time.Second

// Errors for selector operations.
var (
	// ErrClosed is returned when evaluating a closed selector.
	ErrClosed = errors.New("selector is closed")

	// ErrCompile is returned when the source is not valid Lua.
	ErrCompile = errors.New("compile selector")
)

// Option configures a Selector.
type Option func(*Selector)

// WithTimeout bounds each evaluation. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Selector) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used for evaluation errors in Select.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Selector evaluates compiled Lua source against states.
// It is safe for concurrent use; evaluations are serialized.
type Selector struct {
	mu sync.Mutex

	L      *lua.LState
	fn     *lua.LFunction
	source string

	timeout time.Duration
	logger  *slog.Logger
	closed  bool
}

// Compile creates a selector from source.
func Compile(source string, opts ...Option) (*Selector, error) {
	s := &Selector{
		source:  source,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // We'll open selectively
	})
	openSafeLibraries(L)

	// Expressions are tried first so "state.x" works without "return".
	fn, err := L.LoadString("return " + source)
	if err != nil {
		var chunkErr error
		fn, chunkErr = L.LoadString(source)
		if chunkErr != nil {
			L.Close()
			return nil, fmt.Errorf("%w: %v", ErrCompile, chunkErr)
		}
	}

	s.L = L
	s.fn = fn
	return s, nil
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Source returns the source the selector was compiled from.
func (s *Selector) Source() string {
	return s.source
}

// Eval runs the selector against state and returns its result converted
// to Go values.
func (s *Selector) Eval(state map[string]any, args ...any) (result any, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	s.L.SetGlobal("state", toLua(s.L, state))
	s.L.SetGlobal("args", toLua(s.L, args))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	top := s.L.GetTop()
	s.L.Push(s.fn)
	if callErr := s.L.PCall(0, 1, nil); callErr != nil {
		s.L.SetTop(top)
		return nil, fmt.Errorf("eval selector: %w", callErr)
	}
	ret := s.L.Get(-1)
	s.L.SetTop(top)

	return toGo(ret), nil
}

// Select is Eval for use as a deducer selector. Errors are logged and
// yield nil.
func (s *Selector) Select(state map[string]any, args ...any) any {
	result, err := s.Eval(state, args...)
	if err != nil {
		s.logger.Warn("selector failed", "source", s.source, "err", err)
		return nil
	}
	return result
}

// Close releases the Lua state.
func (s *Selector) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
