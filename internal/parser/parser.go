// Package parser turns a whole document into an ast.Document.
//
// A Parser holds an ordered recognizer list: caller extensions first (most
// recently added first), then the built-in block recognizers ending with
// the paragraph fallback. Parsers are immutable values; Extend returns a new
// Parser and leaves the receiver untouched, so one Parser can be shared by
// concurrent callers.
package parser

import (
	stderrors "errors"
	"strings"

	"git.home.luguber.info/inful/blockmark/internal/ast"
	"git.home.luguber.info/inful/blockmark/internal/block"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/frontmatter"
)

// ErrNoRecognizer means no recognizer accepted non-empty input. The
// paragraph fallback accepts any non-empty text, so this signals a bug in
// the recognizer set.
var ErrNoRecognizer = stderrors.New("no recognizer matched")

// FrontmatterMode selects how a leading "---" header is handled.
type FrontmatterMode string

const (
	// FrontmatterLines reads "key: value" lines.
	FrontmatterLines FrontmatterMode = "lines"
	// FrontmatterYAML decodes the header as YAML and flattens it.
	FrontmatterYAML FrontmatterMode = "yaml"
	// FrontmatterOff treats a header as ordinary blocks.
	FrontmatterOff FrontmatterMode = "off"
)

// Option configures a Parser.
type Option func(*Parser)

// WithFrontmatter sets the frontmatter mode. The default is FrontmatterLines.
func WithFrontmatter(mode FrontmatterMode) Option {
	return func(p *Parser) { p.frontmatter = mode }
}

// WithoutBuiltins drops the built-in recognizers. Parsing then fails with
// ErrNoRecognizer on any text no extension accepts; this exists for
// testing recognizer sets in isolation.
func WithoutBuiltins() Option {
	return func(p *Parser) { p.builtins = nil }
}

// Parser parses documents with a fixed recognizer list.
type Parser struct {
	custom      []block.Recognizer // highest priority first
	builtins    []block.Recognizer
	frontmatter FrontmatterMode
}

// New returns a Parser with only the built-in recognizers.
func New(opts ...Option) *Parser {
	p := &Parser{
		builtins:    block.Builtins(),
		frontmatter: FrontmatterLines,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Extend returns a new Parser whose recognizers are rs followed by p's.
// Recognizers are added in argument order, so the last argument ranks
// first. All custom recognizers outrank the built-ins.
func (p *Parser) Extend(rs ...block.Recognizer) *Parser {
	custom := make([]block.Recognizer, 0, len(p.custom)+len(rs))
	for i := len(rs) - 1; i >= 0; i-- {
		custom = append(custom, rs[i])
	}
	custom = append(custom, p.custom...)
	return &Parser{
		custom:      custom,
		builtins:    p.builtins,
		frontmatter: p.frontmatter,
	}
}

// Recognizers returns the recognizer list in priority order.
func (p *Parser) Recognizers() []block.Recognizer {
	out := make([]block.Recognizer, 0, len(p.custom)+len(p.builtins))
	out = append(out, p.custom...)
	return append(out, p.builtins...)
}

// Parse splits off frontmatter and parses the body into blocks.
func (p *Parser) Parse(input string) (*ast.Document, error) {
	input = normalizeNewlines(input)

	doc := &ast.Document{Frontmatter: map[string]string{}}
	body := input
	if p.frontmatter != FrontmatterOff {
		head, rest, ok := frontmatter.SplitString(input)
		if ok {
			fm, err := p.decodeFrontmatter(head)
			if err != nil {
				return nil, err
			}
			doc.Frontmatter = fm
			body = rest
		}
	}

	blocks, err := p.ParseBlocks(body)
	if err != nil {
		return nil, err
	}
	doc.Blocks = blocks
	return doc, nil
}

func (p *Parser) decodeFrontmatter(head string) (map[string]string, error) {
	if p.frontmatter == FrontmatterYAML {
		fm, err := frontmatter.ParseYAMLFlat([]byte(head))
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryParse, "invalid YAML frontmatter").Build()
		}
		return fm, nil
	}
	return frontmatter.ParseLines(head), nil
}

// ParseBlocks parses text with no frontmatter handling.
func (p *Parser) ParseBlocks(text string) ([]ast.Block, error) {
	rest := strings.TrimSpace(normalizeNewlines(text))
	recognizers := p.Recognizers()

	blocks := make([]ast.Block, 0)
	for consumed := 0; rest != ""; {
		b, end, err := dispatch(recognizers, rest)
		if err != nil {
			if c, ok := errors.AsClassified(err); ok {
				return nil, c.WithContext("offset", consumed)
			}
			return nil, err
		}
		blocks = append(blocks, b)

		next := strings.TrimLeft(rest[end:], " \t\r\n")
		consumed += len(rest) - len(next)
		rest = next
	}
	return blocks, nil
}

// dispatch runs the first recognizer that matches the start of text and
// returns its block and the length of the consumed span.
func dispatch(recognizers []block.Recognizer, text string) (ast.Block, int, error) {
	for _, r := range recognizers {
		m, ok := r.Match(text)
		if !ok {
			continue
		}
		b, err := r.Extract(m)
		if err != nil {
			return nil, 0, errors.WrapError(err, errors.CategoryParse, "recognizer failed").
				WithContext("recognizer", r.Name).
				Build()
		}
		if b == nil {
			return nil, 0, errors.InternalError("recognizer returned no block").
				WithContext("recognizer", r.Name).
				Build()
		}
		if c, ok := b.(ast.Custom); ok && c.Source == "" {
			c.Source = m.Text
			b = c
		}
		return b, m.End, nil
	}
	return nil, 0, errors.WrapError(ErrNoRecognizer, errors.CategoryInternal, "no recognizer accepted the remaining input").
		Fatal().
		Build()
}

func normalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
