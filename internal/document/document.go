// Package document converts JSON, YAML and TOML documents into plain state
// maps and edits them by path.
//
// Decoded documents are normalized so that the same content yields the
// same value in every format: objects are map[string]any, arrays are
// []any, and every number is a float64.
//
// Paths use gjson syntax, with dots separating keys and array indexes:
//
//	name, _ := document.Get(doc, "panels.0.title")
//	doc, err := document.Set(doc, "panels.0.title", "Inbox")
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a document encoding.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

var (
	// ErrUnsupportedFormat indicates a format or extension is not known.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNotObject indicates a document's root is not an object.
	ErrNotObject = errors.New("document root is not an object")
)

// FormatOf returns the format implied by a file name's extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// ReadFile reads and decodes the document at path.
func ReadFile(path string) (map[string]any, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
