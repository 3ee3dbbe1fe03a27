package accumulator

import (
	"github.com/dshills/rewind/internal/change"
)

// Merge collapses two changes observed one after the other at the same
// effective path into a single change. A nil change with a nil error
// means the two cancel out: the value is back where it started.
//
//   - edit then edit, new then edit: one edit (or new) from a's old value to b's new value
//   - delete then edit/new: an edit from a's old value to b's new value
//   - edit then delete: a delete of a's old value
//   - array changes merge through their items
//
// Delete then delete, and new after an existing value, return a *MergeError.
func Merge(a, b change.Change) (change.Change, error) {
	return merge(change.EffectivePath(a), a, b)
}

func merge(path change.Path, a, b change.Change) (change.Change, error) {
	aArr, aIsArr := a.(*change.Array)
	bArr, bIsArr := b.(*change.Array)

	if aIsArr || bIsArr {
		ai, bi := itemOf(a), itemOf(b)
		item, err := merge(path, ai, bi)
		if err != nil || item == nil {
			return nil, err
		}
		if aIsArr {
			return &change.Array{Path: aArr.Path, Index: aArr.Index, Item: item}, nil
		}
		return &change.Array{Path: bArr.Path, Index: bArr.Index, Item: item}, nil
	}

	before, hadBefore := change.Before(a)
	after, hasAfter := change.After(b)
	if hadBefore == hasAfter && (!hadBefore || change.Equal(before, after)) {
		return nil, nil
	}

	aKind, bKind := a.Kind(), b.Kind()
	switch {
	case aKind == change.KindDelete && bKind == change.KindDelete:
		return nil, &MergeError{Path: path, First: aKind, Second: bKind}

	case aKind == change.KindDelete:
		return &change.Edit{Path: a.ChangePath(), LHS: before, RHS: after}, nil

	case bKind == change.KindDelete:
		return &change.Delete{Path: b.ChangePath(), LHS: before}, nil

	case bKind == change.KindEdit:
		if aKind == change.KindNew {
			return &change.New{Path: a.ChangePath(), RHS: after}, nil
		}
		return &change.Edit{Path: a.ChangePath(), LHS: before, RHS: after}, nil

	default:
		return nil, &MergeError{Path: path, First: aKind, Second: bKind}
	}
}

// itemOf returns the nested item of an array change, or the change itself
// stripped of its path.
func itemOf(c change.Change) change.Change {
	if arr, ok := c.(*change.Array); ok {
		return arr.Item
	}
	return change.WithPath(c, nil)
}
