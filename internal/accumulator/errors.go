package accumulator

import (
	"errors"
	"fmt"

	"github.com/dshills/rewind/internal/change"
)

// ErrMergeConflict indicates two changes at the same path cannot be
// observed one after the other, such as a path deleted twice without
// being recreated in between. It usually means the same record was
// pushed twice.
var ErrMergeConflict = errors.New("conflicting changes")

// MergeError describes a merge that has no valid result.
type MergeError struct {
	Path   change.Path
	First  change.Kind
	Second change.Kind
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge %s then %s at %q: %v", e.First, e.Second, e.Path.String(), ErrMergeConflict)
}

func (e *MergeError) Unwrap() error {
	return ErrMergeConflict
}
