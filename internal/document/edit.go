package document

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Get returns the value at path and whether it exists.
func Get(doc map[string]any, path string) (any, bool) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, false
	}
	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return nil, false
	}
	return res.Value(), true
}

// Set returns a copy of doc with value stored at path. Missing parents
// are created.
func Set(doc map[string]any, path string, value any) (map[string]any, error) {
	return edit(doc, func(data []byte) ([]byte, error) {
		return sjson.SetBytes(data, path, value)
	})
}

// SetRaw returns a copy of doc with the JSON text raw stored at path.
func SetRaw(doc map[string]any, path string, raw string) (map[string]any, error) {
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("set %s: invalid JSON value %q", path, raw)
	}
	return edit(doc, func(data []byte) ([]byte, error) {
		return sjson.SetRawBytes(data, path, []byte(raw))
	})
}

// Delete returns a copy of doc without the value at path.
func Delete(doc map[string]any, path string) (map[string]any, error) {
	return edit(doc, func(data []byte) ([]byte, error) {
		return sjson.DeleteBytes(data, path)
	})
}

// Encode returns the compact JSON encoding of v.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Pretty returns the indented JSON encoding of v.
func Pretty(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(pretty.Pretty(data)), nil
}

func edit(doc map[string]any, fn func([]byte) ([]byte, error)) (map[string]any, error) {
	if doc == nil {
		doc = map[string]any{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	data, err = fn(data)
	if err != nil {
		return nil, err
	}
	return Decode(data, JSON)
}
