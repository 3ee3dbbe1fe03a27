package loader

import (
	"bytes"
	"errors"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/rewind/internal/config"
)

func decodeTOML(source string, data []byte, cfg *config.Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}

		var decodeErr *toml.DecodeError
		var strictErr *toml.StrictMissingError
		switch {
		case errors.As(err, &decodeErr):
			perr.Line, perr.Column = decodeErr.Position()
		case errors.As(err, &strictErr) && len(strictErr.Errors) > 0:
			perr.Line, perr.Column = strictErr.Errors[0].Position()
		}
		return perr
	}
	return nil
}
