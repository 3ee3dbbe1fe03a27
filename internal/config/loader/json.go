package loader

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/dshills/rewind/internal/config"
)

func decodeJSON(source string, data []byte, cfg *config.Config) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}

		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			perr.Line, perr.Column = position(data, syntaxErr.Offset)
		case errors.As(err, &typeErr):
			perr.Line, perr.Column = position(data, typeErr.Offset)
		}
		return perr
	}
	return nil
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, column int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line = bytes.Count(before, []byte("\n")) + 1
	column = int(offset) - bytes.LastIndexByte(before, '\n')
	return line, column
}
