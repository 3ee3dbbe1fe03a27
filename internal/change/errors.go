package change

import (
	"errors"
	"fmt"
)

// Errors returned when a change cannot be replayed against a document.
var (
	// ErrPathNotFound indicates an intermediate container does not exist.
	ErrPathNotFound = errors.New("path not found")

	// ErrKeyType indicates a key does not fit its container
	// (a string key on a slice, or an int key on a map).
	ErrKeyType = errors.New("key does not match container type")

	// ErrIndexRange indicates a slice index is out of range.
	ErrIndexRange = errors.New("index out of range")
)

// PathError records a failed apply or revert and the path that caused it.
type PathError struct {
	Op   string
	Path Path
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path.String(), e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}
