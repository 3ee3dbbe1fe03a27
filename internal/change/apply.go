package change

import "fmt"

// Apply replays c against target and returns the updated target.
// Maps and slices reachable from target are modified in place; the
// returned value only differs from target when c rewrites the root.
// Values copied out of c are cloned so the change stays immutable.
func Apply(target any, c Change) (any, error) {
	out, err := apply(target, c)
	if err != nil {
		return target, &PathError{Op: "apply", Path: EffectivePath(c), Err: err}
	}
	return out, nil
}

// Revert undoes c against target and returns the updated target.
// Revert(Apply(x, c), c) is structurally equal to x.
func Revert(target any, c Change) (any, error) {
	out, err := revert(target, c)
	if err != nil {
		return target, &PathError{Op: "revert", Path: EffectivePath(c), Err: err}
	}
	return out, nil
}

func apply(target any, c Change) (any, error) {
	switch c := c.(type) {
	case *Edit:
		return assign(target, c.Path, c.RHS, false)
	case *New:
		return assign(target, c.Path, c.RHS, true)
	case *Delete:
		return remove(target, c.Path)
	case *Array:
		return modify(target, c.Path, func(v any) (any, error) {
			return applyItem(v, c.Index, c.Item)
		})
	default:
		return target, fmt.Errorf("unknown change type %T", c)
	}
}

func revert(target any, c Change) (any, error) {
	switch c := c.(type) {
	case *Edit:
		return assign(target, c.Path, c.LHS, false)
	case *New:
		return remove(target, c.Path)
	case *Delete:
		return assign(target, c.Path, c.LHS, true)
	case *Array:
		return modify(target, c.Path, func(v any) (any, error) {
			return revertItem(v, c.Index, c.Item)
		})
	default:
		return target, fmt.Errorf("unknown change type %T", c)
	}
}

func applyItem(v any, index int, item Change) (any, error) {
	switch item := item.(type) {
	case *New:
		return insertAt(v, index, item.RHS)
	case *Delete:
		return removeAt(v, index)
	case *Edit:
		return setKey(v, index, Clone(item.RHS))
	case *Array:
		return modify(v, Path{index}, func(elem any) (any, error) {
			return apply(elem, item)
		})
	default:
		return v, fmt.Errorf("unknown change type %T", item)
	}
}

func revertItem(v any, index int, item Change) (any, error) {
	switch item := item.(type) {
	case *New:
		return removeAt(v, index)
	case *Delete:
		return insertAt(v, index, item.LHS)
	case *Edit:
		return setKey(v, index, Clone(item.LHS))
	case *Array:
		return modify(v, Path{index}, func(elem any) (any, error) {
			return revert(elem, item)
		})
	default:
		return v, fmt.Errorf("unknown change type %T", item)
	}
}

// modify replaces the value at path with fn(value) and returns the
// updated root.
func modify(node any, path Path, fn func(any) (any, error)) (any, error) {
	if len(path) == 0 {
		return fn(node)
	}
	child, err := childOf(node, path[0])
	if err != nil {
		return node, err
	}
	updated, err := modify(child, path[1:], fn)
	if err != nil {
		return node, err
	}
	return setKey(node, path[0], updated)
}

// assign stores a clone of value at path. When insert is true and the
// parent is a slice, the value is inserted instead of overwriting.
func assign(root any, path Path, value any, insert bool) (any, error) {
	if len(path) == 0 {
		return Clone(value), nil
	}
	last := path[len(path)-1]
	return modify(root, path[:len(path)-1], func(parent any) (any, error) {
		if idx, ok := last.(int); ok && insert {
			return insertAt(parent, idx, value)
		}
		return setKey(parent, last, Clone(value))
	})
}

// remove deletes the value at path.
func remove(root any, path Path) (any, error) {
	if len(path) == 0 {
		return nil, nil
	}
	last := path[len(path)-1]
	return modify(root, path[:len(path)-1], func(parent any) (any, error) {
		switch p := parent.(type) {
		case map[string]any:
			k, ok := last.(string)
			if !ok {
				return parent, ErrKeyType
			}
			delete(p, k)
			return p, nil
		case []any:
			idx, ok := last.(int)
			if !ok {
				return parent, ErrKeyType
			}
			return removeAt(p, idx)
		default:
			return parent, ErrPathNotFound
		}
	})
}

func childOf(node any, key any) (any, error) {
	switch n := node.(type) {
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			return nil, ErrKeyType
		}
		v, ok := n[k]
		if !ok {
			return nil, ErrPathNotFound
		}
		return v, nil
	case []any:
		idx, ok := key.(int)
		if !ok {
			return nil, ErrKeyType
		}
		if idx < 0 || idx >= len(n) {
			return nil, ErrIndexRange
		}
		return n[idx], nil
	default:
		return nil, ErrPathNotFound
	}
}

// setKey stores value under key. Setting the index one past the end of a
// slice appends.
func setKey(node any, key any, value any) (any, error) {
	switch n := node.(type) {
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			return node, ErrKeyType
		}
		n[k] = value
		return n, nil
	case []any:
		idx, ok := key.(int)
		if !ok {
			return node, ErrKeyType
		}
		switch {
		case idx >= 0 && idx < len(n):
			n[idx] = value
			return n, nil
		case idx == len(n):
			return append(n, value), nil
		default:
			return node, ErrIndexRange
		}
	default:
		return node, ErrPathNotFound
	}
}

func insertAt(node any, index int, value any) (any, error) {
	s, ok := node.([]any)
	if !ok {
		if node == nil && index == 0 {
			return []any{Clone(value)}, nil
		}
		return node, ErrKeyType
	}
	if index < 0 || index > len(s) {
		return node, ErrIndexRange
	}
	s = append(s, nil)
	copy(s[index+1:], s[index:])
	s[index] = Clone(value)
	return s, nil
}

func removeAt(node any, index int) (any, error) {
	s, ok := node.([]any)
	if !ok {
		return node, ErrKeyType
	}
	if index < 0 || index >= len(s) {
		return node, ErrIndexRange
	}
	copy(s[index:], s[index+1:])
	s[len(s)-1] = nil
	return s[:len(s)-1], nil
}
