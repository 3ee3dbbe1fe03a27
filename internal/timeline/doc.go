// Package timeline adds undo, redo and jump to a state reducer.
//
// Wrap turns a reducer into one whose state carries a history field
// (DefaultKey, "diff") alongside the reducer's own fields. Ordinary
// actions run the reducer; the difference between the old and new state is
// recorded as one batch. The navigation actions move through the recorded
// batches instead:
//
//	Action type        Effect
//	@@rewind/UNDO      revert the most recent batch
//	@@rewind/REDO      reapply the most recently undone batch
//	@@rewind/JUMP      move Index steps (negative: back, positive: forward)
//	@@rewind/CLEAR     drop the history, keep the state
//
// Store wraps a reducer and holds the current state behind a mutex. It
// adds grouping, where several dispatches commit as a single batch, and
// checkpoints:
//
//	store := timeline.NewStore(reducer, timeline.WithLimit(100))
//	err := store.Transaction("rename", func() error {
//	    store.Dispatch(timeline.Action{Type: "SET_NAME", Payload: "a"})
//	    store.Dispatch(timeline.Action{Type: "SET_TITLE", Payload: "b"})
//	    return nil
//	})
//	store.Undo() // reverts both
//
// A reducer cannot fail, so a transition that cannot be carried out (a
// malformed history field, a batch that no longer fits the state, changes
// that cannot be merged) is logged and leaves the state unchanged.
package timeline
