package config

import (
	"log/slog"

	"git.home.luguber.info/inful/blockmark/internal/foundation/normalization"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = normalization.New("log level", map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// SlogLevel maps l onto slog's levels.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormats = normalization.New("log format", map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

// FrontmatterMode mirrors the parser's frontmatter handling choices.
type FrontmatterMode string

const (
	FrontmatterLines FrontmatterMode = "lines"
	FrontmatterYAML  FrontmatterMode = "yaml"
	FrontmatterOff   FrontmatterMode = "off"
)

var frontmatterModes = normalization.New("frontmatter mode", map[string]FrontmatterMode{
	"lines": FrontmatterLines,
	"yaml":  FrontmatterYAML,
	"off":   FrontmatterOff,
	"none":  FrontmatterOff,
}, FrontmatterLines)

// NormalForm is the Unicode normalization applied to input.
type NormalForm string

const (
	NormalFormNone NormalForm = "none"
	NormalFormNFC  NormalForm = "nfc"
	NormalFormNFKC NormalForm = "nfkc"
)

var normalForms = normalization.New("normalization form", map[string]NormalForm{
	"none": NormalFormNone,
	"nfc":  NormalFormNFC,
	"nfkc": NormalFormNFKC,
}, NormalFormNone)

// RenderFormat names an output renderer.
type RenderFormat string

const (
	RenderJSON     RenderFormat = "json"
	RenderHTML     RenderFormat = "html"
	RenderMarkdown RenderFormat = "markdown"
	RenderText     RenderFormat = "text"
)

var renderFormats = normalization.New("render format", map[string]RenderFormat{
	"json":     RenderJSON,
	"html":     RenderHTML,
	"markdown": RenderMarkdown,
	"md":       RenderMarkdown,
	"text":     RenderText,
	"txt":      RenderText,
}, RenderJSON)

// ParseRenderFormat resolves a user-supplied format name. An empty name
// yields json.
func ParseRenderFormat(raw string) (RenderFormat, error) {
	return renderFormats.Parse(raw)
}

// ParseLogLevel resolves a log level name. An empty name yields info.
func ParseLogLevel(raw string) (LogLevel, error) {
	return logLevels.Parse(raw)
}

// ParseLogFormat resolves a log format name. An empty name yields text.
func ParseLogFormat(raw string) (LogFormat, error) {
	return logFormats.Parse(raw)
}
