package loader

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/dshills/rewind/internal/config"
)

// applyEnv overrides cfg with the prefixed environment variables that are
// set. List settings are comma separated.
func (l *Loader) applyEnv(cfg *config.Config) error {
	opts := env.Options{
		Prefix:      l.prefix,
		Environment: l.environ,
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
