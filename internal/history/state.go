package history

import (
	"errors"
	"fmt"
)

// DefaultKey is the state field holding the history.
const DefaultKey = "diff"

// ErrNotHistory indicates a state field does not hold a history.
var ErrNotHistory = errors.New("not a history")

// FieldError reports a state whose history field is missing or malformed.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%q: %v", e.Key, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// FromState reads the history stored under key in state.
// Both History and *History values are accepted.
func FromState(state map[string]any, key string) (History, error) {
	raw, ok := state[key]
	if !ok {
		return History{}, &FieldError{Key: key, Err: fmt.Errorf("%w: field is missing", ErrNotHistory)}
	}

	switch h := raw.(type) {
	case History:
		return h, nil
	case *History:
		if h == nil {
			return History{}, &FieldError{Key: key, Err: fmt.Errorf("%w: nil history", ErrNotHistory)}
		}
		return *h, nil
	default:
		return History{}, &FieldError{Key: key, Err: fmt.Errorf("%w: field holds %T", ErrNotHistory, raw)}
	}
}

// Split returns a shallow copy of state without the history field, and
// the history itself.
func Split(state map[string]any, key string) (map[string]any, History, error) {
	h, err := FromState(state, key)
	if err != nil {
		return nil, History{}, err
	}
	rest := make(map[string]any, len(state))
	for k, v := range state {
		if k != key {
			rest[k] = v
		}
	}
	return rest, h, nil
}
