package timeline

// GroupScope provides a convenient way to group dispatches using defer.
// Usage:
//
//	func rename(s *Store, name string) {
//	    defer s.GroupScope("rename").End()
//	    // ... multiple dispatches ...
//	}
type GroupScope struct {
	store  *Store
	active bool
}

// GroupScope starts a new group scope.
// Call End() or use with defer to properly close the group.
func (s *Store) GroupScope(name string) *GroupScope {
	s.BeginGroup(name)
	return &GroupScope{
		store:  s,
		active: true,
	}
}

// End ends the group scope.
// Safe to call multiple times; only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.store.EndGroup()
		g.active = false
	}
}

// Cancel cancels the group scope and restores the state it started from.
func (g *GroupScope) Cancel() {
	if g.active {
		g.store.CancelGroup()
		g.active = false
	}
}

// BeginGroup starts a dispatch group.
// Changes dispatched while grouping are recorded as a single batch when
// the group ends. Navigation actions end the group first.
func (s *Store) BeginGroup(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.grouping {
		// Already grouping, ignore nested calls
		return
	}

	s.grouping = true
	s.groupName = name
	s.groupState = s.state
	s.groupPending = s.w.acc.Changes()
}

// EndGroup finishes a dispatch group and records its changes.
func (s *Store) EndGroup() {
	s.mu.Lock()
	if !s.grouping {
		s.mu.Unlock()
		return
	}
	s.endGroupLocked()
	state := s.state
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, state)
}

func (s *Store) endGroupLocked() {
	s.grouping = false
	s.state = s.w.commit(s.state, s.groupName)
	s.groupName = ""
	s.groupState = nil
	s.groupPending = nil
}

// CancelGroup ends a dispatch group without recording it and restores
// the state from before the group.
func (s *Store) CancelGroup() {
	s.mu.Lock()
	if !s.grouping {
		s.mu.Unlock()
		return
	}

	s.grouping = false
	s.state = s.groupState
	s.w.acc.Restore(s.groupPending)
	s.groupName = ""
	s.groupState = nil
	s.groupPending = nil

	state := s.state
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, state)
}

// IsGrouping returns true if currently in a dispatch group.
func (s *Store) IsGrouping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grouping
}

// Transaction executes a function within a grouped undo context.
// If the function returns an error, the group is cancelled.
// Otherwise, the group is ended normally.
func (s *Store) Transaction(name string, fn func() error) error {
	s.BeginGroup(name)

	err := fn()
	if err != nil {
		s.CancelGroup()
		return err
	}

	s.EndGroup()
	return nil
}

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	undoDepth int
}

// Checkpoint creates a checkpoint at the current history position.
func (s *Store) Checkpoint() Checkpoint {
	return Checkpoint{undoDepth: s.History().UndoCount()}
}

// UndoToCheckpoint undoes every batch recorded since the checkpoint.
func (s *Store) UndoToCheckpoint(cp Checkpoint) map[string]any {
	if n := s.History().UndoCount() - cp.undoDepth; n > 0 {
		return s.Jump(-n)
	}
	return s.State()
}

// RedoToCheckpoint redoes undone batches up to the checkpoint depth.
// Note: This only works if the redo queue has the batches.
func (s *Store) RedoToCheckpoint(cp Checkpoint) map[string]any {
	if n := cp.undoDepth - s.History().UndoCount(); n > 0 {
		return s.Jump(n)
	}
	return s.State()
}
