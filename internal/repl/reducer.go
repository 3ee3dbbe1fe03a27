package repl

import (
	"github.com/dshills/rewind/internal/timeline"
)

// Document action types. Each carries the complete next document as its
// payload, so the recorded batch label tells which command produced it.
const (
	ActionLoad   = "document/LOAD"
	ActionReload = "document/RELOAD"
	ActionSet    = "document/SET"
	ActionDelete = "document/DELETE"
)

// Reducer is the document reducer driven by the session. The initial
// document is empty.
func Reducer(state map[string]any, action timeline.Action) map[string]any {
	switch action.Type {
	case ActionLoad, ActionReload, ActionSet, ActionDelete:
		if doc, ok := action.Payload.(map[string]any); ok {
			return doc
		}
	}
	if state == nil {
		return map[string]any{}
	}
	return state
}
