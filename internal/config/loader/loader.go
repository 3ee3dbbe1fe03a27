// Package loader reads rewind configuration from files and the environment.
//
// The file format is chosen by extension: .toml, .yaml/.yml or .json.
// A missing file is not an error; the built-in defaults apply. Environment
// variables carrying the prefix (REWIND_ by default) override file values.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/rewind/internal/config"
)

// DefaultEnvPrefix is the prefix of environment overrides.
const DefaultEnvPrefix = "REWIND_"

// ErrUnsupportedFormat indicates a configuration file extension is not known.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}

// Option configures a Loader.
type Option func(*Loader)

// WithFS sets the file system configuration files are read from.
func WithFS(fsys FileSystem) Option {
	return func(l *Loader) {
		if fsys != nil {
			l.fs = fsys
		}
	}
}

// WithEnvPrefix sets the prefix of environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.prefix = prefix
	}
}

// WithEnvironment replaces the process environment with env.
func WithEnvironment(env map[string]string) Option {
	return func(l *Loader) {
		l.environ = env
	}
}

// Loader layers defaults, a configuration file and the environment.
type Loader struct {
	fs      FileSystem
	prefix  string
	environ map[string]string
}

// New creates a loader reading from the OS file system and environment.
func New(opts ...Option) *Loader {
	l := &Loader{
		fs:     DefaultFS(),
		prefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the configuration at path with a default loader.
func Load(path string) (config.Config, error) {
	return New().Load(path)
}

// Load returns the defaults overlaid with the file at path, if any, and
// then the environment. The result is validated.
func (l *Loader) Load(path string) (config.Config, error) {
	cfg := config.Default()

	if path != "" {
		if err := l.loadFile(path, &cfg); err != nil {
			return config.Config{}, err
		}
	}

	if err := l.applyEnv(&cfg); err != nil {
		return config.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (l *Loader) loadFile(path string, cfg *config.Config) error {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // File doesn't exist, not an error
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Decode(path, data, cfg)
}

// Decode parses data into cfg using the format implied by source's
// extension. Fields absent from data keep their current values.
func Decode(source string, data []byte, cfg *config.Config) error {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".toml":
		return decodeTOML(source, data, cfg)
	case ".yaml", ".yml":
		return decodeYAML(source, data, cfg)
	case ".json":
		return decodeJSON(source, data, cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, source)
	}
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
