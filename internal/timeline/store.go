package timeline

import (
	"sync"

	"github.com/dshills/rewind/internal/change"
	"github.com/dshills/rewind/internal/history"
)

// Store holds the current state of a wrapped reducer.
// It is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	w     *wrapper
	state map[string]any

	subscribers map[int]func(map[string]any)
	nextSubID   int

	// Grouping state
	grouping     bool
	groupName    string
	groupState   map[string]any
	groupPending []change.Change
}

// NewStore wraps reducer and initializes the state by dispatching an
// InitType action.
func NewStore(reducer Reducer, opts ...Option) *Store {
	s := &Store{
		w:           newWrapper(reducer, opts...),
		subscribers: make(map[int]func(map[string]any)),
	}
	s.state = s.w.reduce(nil, Action{Type: InitType}, false)
	return s
}

// Dispatch runs action and returns the resulting state. Subscribers are
// notified after the state is updated.
func (s *Store) Dispatch(action Action) map[string]any {
	s.mu.Lock()
	if s.grouping && s.isNavigation(action.Type) {
		s.endGroupLocked()
	}
	s.state = s.w.reduce(s.state, action, s.grouping)
	state := s.state
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, state)
	return state
}

// State returns the current state. It must be treated as read-only.
func (s *Store) State() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns the current history.
func (s *Store) History() history.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, err := history.FromState(s.state, s.w.opts.key)
	if err != nil {
		return history.New(s.w.opts.limit)
	}
	return h
}

// Key returns the state field holding the history.
func (s *Store) Key() string {
	return s.w.opts.key
}

// Subscribe registers fn to be called with the new state after every
// dispatch. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(state map[string]any)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Undo reverts the most recent batch.
func (s *Store) Undo() map[string]any {
	return s.Dispatch(Action{Type: s.w.opts.types.Undo})
}

// Redo reapplies the most recently undone batch.
func (s *Store) Redo() map[string]any {
	return s.Dispatch(Action{Type: s.w.opts.types.Redo})
}

// Jump moves index steps through the history.
func (s *Store) Jump(index int) map[string]any {
	return s.Dispatch(Action{Type: s.w.opts.types.Jump, Index: index})
}

// Clear drops the history and keeps the state.
func (s *Store) Clear() map[string]any {
	return s.Dispatch(Action{Type: s.w.opts.types.Clear})
}

func (s *Store) isNavigation(actionType string) bool {
	t := s.w.opts.types
	return actionType == t.Undo || actionType == t.Redo || actionType == t.Jump || actionType == t.Clear
}

func (s *Store) subscribersLocked() []func(map[string]any) {
	if len(s.subscribers) == 0 {
		return nil
	}
	subs := make([]func(map[string]any), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(map[string]any), state map[string]any) {
	for _, fn := range subs {
		fn(state)
	}
}
