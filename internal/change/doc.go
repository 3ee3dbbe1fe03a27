// Package change defines the structural change records produced by diffing
// two JSON-like documents, and the primitives that replay them.
//
// # Records
//
// A Change is one of four variants:
//   - Edit: the value at a path was replaced
//   - New: a value appeared at a path
//   - Delete: the value at a path was removed
//   - Array: an element was inserted into or removed from a slice; the
//     nested Item describes what happened at the element's index
//
// # Batches
//
// A Batch groups the changes produced by one state transition. Batches are
// immutable once created and are always passed by pointer; two batches are
// the same batch only if they are the same pointer.
//
// # Apply and Revert
//
//	next, err := change.ApplyBatch(state, batch)  // state is not modified
//	prev, err := change.RevertBatch(next, batch)  // prev is structurally equal to state
//
// Revert processes a batch in reverse order, which keeps slice indices
// valid when a batch both removes and appends elements.
package change
