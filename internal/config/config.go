package config

import (
	"fmt"
	"strings"
)

// Default configuration values.
const (
	DefaultKey       = "diff"
	DefaultUndoType  = "@@rewind/UNDO"
	DefaultRedoType  = "@@rewind/REDO"
	DefaultJumpType  = "@@rewind/JUMP"
	DefaultClearType = "@@rewind/CLEAR"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config holds every setting of a history-tracked store.
type Config struct {
	// Key is the state field holding the history.
	Key string `toml:"key" yaml:"key" json:"key" env:"KEY"`

	// Limit bounds the number of recorded batches. Zero is unbounded.
	Limit int `toml:"limit" yaml:"limit" json:"limit" env:"LIMIT"`

	// IgnoreInitial skips diffing the first transition from an empty state.
	IgnoreInitial bool `toml:"ignore_initial" yaml:"ignore_initial" json:"ignore_initial" env:"IGNORE_INITIAL"`

	// Flatten lists path patterns recorded as one edit of the whole subtree.
	Flatten []string `toml:"flatten" yaml:"flatten" json:"flatten" env:"FLATTEN" envSeparator:","`

	// Prefilter lists path patterns that are never compared.
	Prefilter []string `toml:"prefilter" yaml:"prefilter" json:"prefilter" env:"PREFILTER" envSeparator:","`

	Actions Actions `toml:"actions" yaml:"actions" json:"actions" envPrefix:"ACTION_"`
	Log     Log     `toml:"log" yaml:"log" json:"log" envPrefix:"LOG_"`
	Metrics Metrics `toml:"metrics" yaml:"metrics" json:"metrics" envPrefix:"METRICS_"`
}

// Actions names the action types that navigate the history.
type Actions struct {
	Undo  string `toml:"undo" yaml:"undo" json:"undo" env:"UNDO"`
	Redo  string `toml:"redo" yaml:"redo" json:"redo" env:"REDO"`
	Jump  string `toml:"jump" yaml:"jump" json:"jump" env:"JUMP"`
	Clear string `toml:"clear" yaml:"clear" json:"clear" env:"CLEAR"`
}

// Log configures logging output.
type Log struct {
	Level  string `toml:"level" yaml:"level" json:"level" env:"LEVEL"`
	Format string `toml:"format" yaml:"format" json:"format" env:"FORMAT"`
}

// Metrics configures the metrics endpoint.
type Metrics struct {
	// Addr is the listen address of the metrics endpoint. Empty disables it.
	Addr string `toml:"addr" yaml:"addr" json:"addr" env:"ADDR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Key:           DefaultKey,
		IgnoreInitial: true,
		Actions: Actions{
			Undo:  DefaultUndoType,
			Redo:  DefaultRedoType,
			Jump:  DefaultJumpType,
			Clear: DefaultClearType,
		},
		Log: Log{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Key) == "" {
		return &ValidationError{Field: "key", Message: "must not be empty"}
	}
	if c.Limit < 0 {
		return &ValidationError{Field: "limit", Message: "must not be negative", Value: c.Limit}
	}

	seen := make(map[string]string, 4)
	for _, a := range []struct{ field, value string }{
		{"actions.undo", c.Actions.Undo},
		{"actions.redo", c.Actions.Redo},
		{"actions.jump", c.Actions.Jump},
		{"actions.clear", c.Actions.Clear},
	} {
		if a.value == "" {
			return &ValidationError{Field: a.field, Message: "must not be empty"}
		}
		if other, ok := seen[a.value]; ok {
			return &ValidationError{Field: a.field, Message: fmt.Sprintf("duplicates %s", other), Value: a.value}
		}
		seen[a.value] = a.field
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Field: "log.level", Message: "must be debug, info, warn, or error", Value: c.Log.Level}
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return &ValidationError{Field: "log.format", Message: "must be text or json", Value: c.Log.Format}
	}
	return nil
}
