package timeline

import (
	"github.com/dshills/rewind/internal/config"
)

// Action types understood by default.
const (
	UndoType  = config.DefaultUndoType
	RedoType  = config.DefaultRedoType
	JumpType  = config.DefaultJumpType
	ClearType = config.DefaultClearType
	InitType  = "@@rewind/INIT"
)

// Action describes a state transition.
type Action struct {
	// Type selects the transition.
	Type string
	// Index is the number of steps of a jump.
	Index int
	// Payload carries data for the wrapped reducer.
	Payload any
}

// Reducer computes the next state from the current state and an action.
// The current state is nil on the first call and must not be modified.
type Reducer func(state map[string]any, action Action) map[string]any

// ActionTypes names the navigation action types.
type ActionTypes struct {
	Undo  string
	Redo  string
	Jump  string
	Clear string
}

// DefaultActionTypes returns the built-in action types.
func DefaultActionTypes() ActionTypes {
	return ActionTypes{
		Undo:  UndoType,
		Redo:  RedoType,
		Jump:  JumpType,
		Clear: ClearType,
	}
}

// Undo returns an undo action with the default type.
func Undo() Action {
	return Action{Type: UndoType}
}

// Redo returns a redo action with the default type.
func Redo() Action {
	return Action{Type: RedoType}
}

// Jump returns a jump action with the default type.
func Jump(index int) Action {
	return Action{Type: JumpType, Index: index}
}

// Clear returns a clear action with the default type.
func Clear() Action {
	return Action{Type: ClearType}
}
