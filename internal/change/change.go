package change

import "fmt"

// Kind identifies the variant of a Change.
type Kind uint8

const (
	// KindEdit indicates a value was replaced.
	KindEdit Kind = iota

	// KindNew indicates a value was added.
	KindNew

	// KindDelete indicates a value was removed.
	KindDelete

	// KindArray indicates a slice element was inserted or removed.
	KindArray
)

// String returns the single-letter code of the kind.
func (k Kind) String() string {
	switch k {
	case KindEdit:
		return "E"
	case KindNew:
		return "N"
	case KindDelete:
		return "D"
	case KindArray:
		return "A"
	default:
		return "?"
	}
}

// Change is one structural difference between two documents.
// It is implemented by *Edit, *New, *Delete and *Array only.
type Change interface {
	// Kind returns the variant of the change.
	Kind() Kind

	// ChangePath returns the location of the change. Items nested
	// inside an *Array have an empty path.
	ChangePath() Path

	// String returns a short human-readable description.
	String() string

	isChange()
}

// Edit records that the value at Path changed from LHS to RHS.
type Edit struct {
	Path Path
	LHS  any
	RHS  any
}

// New records that RHS was added at Path.
type New struct {
	Path Path
	RHS  any
}

// Delete records that LHS was removed from Path.
type Delete struct {
	Path Path
	LHS  any
}

// Array records a change to the element at Index of the slice at Path.
type Array struct {
	Path  Path
	Index int
	Item  Change
}

func (*Edit) Kind() Kind   { return KindEdit }
func (*New) Kind() Kind    { return KindNew }
func (*Delete) Kind() Kind { return KindDelete }
func (*Array) Kind() Kind  { return KindArray }

func (c *Edit) ChangePath() Path   { return c.Path }
func (c *New) ChangePath() Path    { return c.Path }
func (c *Delete) ChangePath() Path { return c.Path }
func (c *Array) ChangePath() Path  { return c.Path }

func (*Edit) isChange()   {}
func (*New) isChange()    {}
func (*Delete) isChange() {}
func (*Array) isChange()  {}

func (c *Edit) String() string {
	return fmt.Sprintf("E %s: %s -> %s", c.Path, brief(c.LHS), brief(c.RHS))
}

func (c *New) String() string {
	return fmt.Sprintf("N %s: %s", c.Path, brief(c.RHS))
}

func (c *Delete) String() string {
	return fmt.Sprintf("D %s: %s", c.Path, brief(c.LHS))
}

func (c *Array) String() string {
	return fmt.Sprintf("A %s[%d]: %s", c.Path, c.Index, c.Item)
}

// brief formats a value and truncates long renderings.
func brief(v any) string {
	s := fmt.Sprintf("%v", v)
	if len(s) > 24 {
		s = s[:21] + "..."
	}
	return s
}

// Before returns the value a change replaced or removed, and whether
// such a value exists. New and Array changes have no previous value.
func Before(c Change) (any, bool) {
	switch c := c.(type) {
	case *Edit:
		return c.LHS, true
	case *Delete:
		return c.LHS, true
	default:
		return nil, false
	}
}

// After returns the value a change introduced, and whether such a value
// exists. Delete and Array changes have no new value.
func After(c Change) (any, bool) {
	switch c := c.(type) {
	case *Edit:
		return c.RHS, true
	case *New:
		return c.RHS, true
	default:
		return nil, false
	}
}

// EffectivePath returns the path used to decide whether two changes touch
// the same location. Array changes include their element index so that
// changes to distinct elements never collide.
func EffectivePath(c Change) Path {
	if a, ok := c.(*Array); ok {
		return a.Path.Append(a.Index)
	}
	return c.ChangePath()
}

// WithPath returns a shallow copy of c relocated to path.
func WithPath(c Change, path Path) Change {
	switch c := c.(type) {
	case *Edit:
		return &Edit{Path: path, LHS: c.LHS, RHS: c.RHS}
	case *New:
		return &New{Path: path, RHS: c.RHS}
	case *Delete:
		return &Delete{Path: path, LHS: c.LHS}
	case *Array:
		return &Array{Path: path, Index: c.Index, Item: c.Item}
	default:
		panic(fmt.Sprintf("change: unknown change type %T", c))
	}
}

// Copy returns a deep copy of c, including values and nested items.
func Copy(c Change) Change {
	switch c := c.(type) {
	case *Edit:
		return &Edit{Path: c.Path.Clone(), LHS: Clone(c.LHS), RHS: Clone(c.RHS)}
	case *New:
		return &New{Path: c.Path.Clone(), RHS: Clone(c.RHS)}
	case *Delete:
		return &Delete{Path: c.Path.Clone(), LHS: Clone(c.LHS)}
	case *Array:
		return &Array{Path: c.Path.Clone(), Index: c.Index, Item: Copy(c.Item)}
	default:
		panic(fmt.Sprintf("change: unknown change type %T", c))
	}
}
