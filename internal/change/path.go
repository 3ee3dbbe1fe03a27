package change

import (
	"fmt"
	"strconv"
	"strings"
)

// Path locates a value inside a document. Elements are either string
// (object property) or int (slice index).
type Path []any

// Append returns a new path with key added at the end.
// The receiver is never modified.
func (p Path) Append(key any) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// Equal reports whether two paths have identical keys.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is equal to the leading keys of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// Clone returns a copy of the path.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// String renders the path as "a.b[2].c".
func (p Path) String() string {
	var sb strings.Builder
	for _, key := range p {
		switch k := key.(type) {
		case int:
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(k))
			sb.WriteByte(']')
		case string:
			if sb.Len() > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(k)
		default:
			if sb.Len() > 0 {
				sb.WriteByte('.')
			}
			fmt.Fprintf(&sb, "%v", k)
		}
	}
	return sb.String()
}
