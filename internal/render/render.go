// Package render writes parsed documents in the supported output formats.
package render

import (
	"io"

	"git.home.luguber.info/inful/blockmark/internal/ast"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/foundation/normalization"
)

// Renderer writes one document to w.
type Renderer interface {
	Render(w io.Writer, doc *ast.Document) error
}

// Format names an output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// DefaultWidth is the text wrap width used when none is given.
const DefaultWidth = 80

var formats = normalization.New("render format", map[string]Format{
	"json":     FormatJSON,
	"html":     FormatHTML,
	"markdown": FormatMarkdown,
	"md":       FormatMarkdown,
	"text":     FormatText,
	"txt":      FormatText,
}, FormatJSON)

// Formats lists the accepted format names, aliases included.
func Formats() []string { return formats.Keys() }

// ForFormat returns the renderer for format. width only applies to text
// and falls back to DefaultWidth when not positive.
func ForFormat(format string, width int) (Renderer, error) {
	f, err := formats.Parse(format)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatHTML:
		return HTML{}, nil
	case FormatMarkdown:
		return Markdown{}, nil
	case FormatText:
		if width <= 0 {
			width = DefaultWidth
		}
		return Text{Width: width}, nil
	default:
		return JSON{Indent: "  "}, nil
	}
}

// ContentType returns the MIME type of format's output.
func ContentType(format string) string {
	switch formats.Normalize(format) {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

func nilDocument() error {
	return errors.ValidationError("cannot render a nil document").Build()
}
