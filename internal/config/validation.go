package config

import (
	"regexp"

	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
)

var metricNamespace = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks cross-field constraints after defaults are applied.
func Validate(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Extensions))
	for i, def := range cfg.Extensions {
		if err := def.Validate(); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid extension").
				WithContext("index", i).
				WithContext("name", def.Name).
				Build()
		}
		name := def.Name
		if name == "" {
			name = def.Builtin
		}
		if seen[name] {
			return errors.ConfigError("duplicate extension name").
				WithContext("name", name).
				Build()
		}
		seen[name] = true
	}
	if !metricNamespace.MatchString(cfg.Metrics.Namespace) {
		return errors.ConfigError("metrics namespace must be a valid Prometheus identifier").
			WithContext("namespace", cfg.Metrics.Namespace).
			Build()
	}
	return nil
}
