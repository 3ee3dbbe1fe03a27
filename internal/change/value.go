package change

import "reflect"

// Clone returns a deep copy of a JSON-like value. Maps and slices are
// copied recursively; any other value is returned as is.
func Clone(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return CloneState(v)
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	default:
		return v
	}
}

// CloneState returns a deep copy of a document. A nil document yields nil.
func CloneState(state map[string]any) map[string]any {
	if state == nil {
		return nil
	}
	out := make(map[string]any, len(state))
	for k, item := range state {
		out[k] = Clone(item)
	}
	return out
}

// Equal reports whether two JSON-like values are structurally equal.
func Equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
