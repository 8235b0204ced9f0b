// Package config loads blockmark's YAML configuration.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blockmark/internal/extension"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
)

// CurrentVersion is the only configuration version Load accepts.
const CurrentVersion = "1"

// DefaultPath is where commands look for a config file when none is given.
const DefaultPath = "blockmark.yaml"

// Config is the root of blockmark.yaml.
type Config struct {
	Version    string                 `yaml:"version"`
	Logging    LoggingConfig          `yaml:"logging"`
	Parser     ParserConfig           `yaml:"parser"`
	Extensions []extension.Definition `yaml:"extensions,omitempty"`
	Render     RenderConfig           `yaml:"render"`
	Server     ServerConfig           `yaml:"server"`
	Metrics    MetricsConfig          `yaml:"metrics"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// ParserConfig tunes input handling.
type ParserConfig struct {
	Frontmatter   FrontmatterMode `yaml:"frontmatter"`
	Normalize     NormalForm      `yaml:"normalize"`
	MaxInputBytes int             `yaml:"max_input_bytes"`
}

// RenderConfig holds the defaults for the render command and endpoint.
type RenderConfig struct {
	Format RenderFormat `yaml:"format"`
	Width  int          `yaml:"width"`
}

// ServerConfig configures `blockmark serve`.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// MetricsConfig toggles the Prometheus recorder and /metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Load reads configPath, expands ${VAR} references, applies defaults and
// validates the result. .env files in the working directory are loaded first.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return nil, errors.NewError(errors.CategoryNotFound, "configuration file not found").
			WithContext("path", configPath).
			Build()
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}
	return Parse([]byte(os.ExpandEnv(string(data))))
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if errors.HasCategory(err, errors.CategoryNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Parse decodes YAML data that has already been environment-expanded.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Build()
	}
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Version != CurrentVersion {
		return nil, errors.ConfigError("unsupported configuration version").
			WithContext("version", cfg.Version).
			WithContext("expected", CurrentVersion).
			Build()
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	// Defaults over an empty config cannot fail.
	_ = applyDefaults(cfg)
	return cfg
}

// Init writes an example configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Default()
	example.Extensions = []extension.Definition{
		{Name: "strike", Builtin: "strikethrough"},
		{Name: "spoiler", Pattern: `\|\|(.+?)\|\|`, Fields: []string{"body"}, Inline: []string{"body"}},
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
