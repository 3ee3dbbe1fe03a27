// Package history provides the bounded undo/redo timeline of change batches.
//
// A History is a plain value with two queues:
//
//   - Prev holds recorded batches, most recent first. Reverting Prev[0]
//     yields the state before the last recorded transition.
//   - Next holds undone batches, the next one to redo first. Applying
//     Next[0] yields the state after the last undo.
//
// # Transitions
//
// Every transition is a method on a History value that returns a new
// History; the receiver is never modified and no slice is shared between
// the two. Code holding an older History keeps seeing the old timeline.
//
//	h := history.New(100)   // keep at most 100 batches, 0 keeps everything
//	h = h.Record(batch)     // drops the redo trail
//	h = h.Undo()
//	h = h.Redo()
//	h = h.Jump(-3)          // three steps back
//
// Transitions only move batches between the queues. The caller reverts
// or applies the batches to its state, using Slice to find them before
// calling Jump:
//
//	batches := h.Slice(-3)
//	state, err = change.RevertBatches(state, batches)
//	h = h.Jump(-3)
//
// # Limits
//
// Navigating past either end clamps to the available batches. Recording
// beyond Limit discards the oldest batch.
package history
