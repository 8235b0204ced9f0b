package config

import "time"

const (
	DefaultMaxInputBytes = 1 << 20
	DefaultRenderWidth   = 80
	DefaultServerAddr    = ":8080"
	DefaultReadTimeout   = 10 * time.Second
	DefaultMaxBodyBytes  = 1 << 20
)

// applyDefaults normalizes enum spellings and fills zero values. Unknown
// enum values are reported instead of silently replaced.
func applyDefaults(cfg *Config) error {
	var err error
	if cfg.Logging.Level, err = logLevels.Parse(string(cfg.Logging.Level)); err != nil {
		return err
	}
	if cfg.Logging.Format, err = logFormats.Parse(string(cfg.Logging.Format)); err != nil {
		return err
	}
	if cfg.Parser.Frontmatter, err = frontmatterModes.Parse(string(cfg.Parser.Frontmatter)); err != nil {
		return err
	}
	if cfg.Parser.Normalize == "" {
		cfg.Parser.Normalize = NormalFormNFC
	} else if cfg.Parser.Normalize, err = normalForms.Parse(string(cfg.Parser.Normalize)); err != nil {
		return err
	}
	if cfg.Parser.MaxInputBytes <= 0 {
		cfg.Parser.MaxInputBytes = DefaultMaxInputBytes
	}

	if cfg.Render.Format, err = renderFormats.Parse(string(cfg.Render.Format)); err != nil {
		return err
	}
	if cfg.Render.Width <= 0 {
		cfg.Render.Width = DefaultRenderWidth
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "blockmark"
	}
	return nil
}
