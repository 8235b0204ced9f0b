// Package convert wraps the parser with the checks and bookkeeping a
// long-running caller needs: input limits, Unicode normalization, content
// fingerprints, metrics and logging.
package convert

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/inful/mdfp"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/blockmark/internal/ast"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/frontmatter"
	"git.home.luguber.info/inful/blockmark/internal/logfields"
	"git.home.luguber.info/inful/blockmark/internal/metrics"
	"git.home.luguber.info/inful/blockmark/internal/parser"
)

// Form selects the Unicode normalization applied before parsing.
type Form string

const (
	FormNone Form = "none"
	FormNFC  Form = "nfc"
	FormNFKC Form = "nfkc"
)

// DefaultMaxInputBytes bounds input size when no limit is configured.
const DefaultMaxInputBytes = 1 << 20

// Result is the outcome of one conversion.
type Result struct {
	Name        string
	Document    *ast.Document
	Fingerprint string
	Bytes       int
	Duration    time.Duration
}

// Option configures a Converter.
type Option func(*Converter)

// WithNormalization sets the Unicode normalization form. Unknown forms
// disable normalization.
func WithNormalization(f Form) Option {
	return func(c *Converter) { c.form = f }
}

// WithMaxInputBytes sets the input size limit. n <= 0 keeps the default.
func WithMaxInputBytes(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Converter) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// Converter turns source bytes into documents. It is safe for concurrent use.
type Converter struct {
	parser   *parser.Parser
	form     Form
	maxBytes int
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New creates a Converter around p. A nil p uses parser.New().
func New(p *parser.Parser, opts ...Option) *Converter {
	if p == nil {
		p = parser.New()
	}
	c := &Converter{
		parser:   p,
		form:     FormNFC,
		maxBytes: DefaultMaxInputBytes,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parser returns the parser used by c.
func (c *Converter) Parser() *parser.Parser { return c.parser }

// Convert validates, normalizes and parses src. name identifies the input
// in logs and errors only.
func (c *Converter) Convert(ctx context.Context, name string, src []byte) (*Result, error) {
	start := time.Now()
	res, err := c.convert(ctx, name, src)
	elapsed := time.Since(start)

	c.recorder.ObserveParseDuration(elapsed)
	c.recorder.ObserveInputBytes(len(src))
	c.recorder.IncParseResult(resultLabel(err))

	if err != nil {
		c.logger.Debug("Conversion failed",
			logfields.File(name),
			logfields.Bytes(len(src)),
			logfields.Duration(elapsed),
			logfields.Error(err))
		return nil, err
	}

	res.Duration = elapsed
	for kind, n := range ast.CountByKind(res.Document) {
		c.recorder.IncBlocks(kind.String(), n)
	}
	c.logger.Debug("Converted document",
		logfields.File(name),
		logfields.Bytes(res.Bytes),
		logfields.Blocks(len(res.Document.Blocks)),
		logfields.Fingerprint(res.Fingerprint),
		logfields.Duration(elapsed))
	return res, nil
}

func (c *Converter) convert(ctx context.Context, name string, src []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "conversion canceled").
			WithContext("file", name).
			Build()
	}
	if len(src) > c.maxBytes {
		return nil, errors.ValidationError("input exceeds size limit").
			WithContext("file", name).
			WithContext("bytes", len(src)).
			WithContext("limit", c.maxBytes).
			Build()
	}
	if !utf8.Valid(src) {
		return nil, errors.ValidationError("input is not valid UTF-8").
			WithContext("file", name).
			WithContext("offset", invalidOffset(src)).
			Build()
	}

	text := c.normalize(string(src))
	doc, err := c.parser.Parse(text)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("file", name)
		}
		return nil, errors.WrapError(err, errors.CategoryParse, "parse failed").
			WithContext("file", name).
			Build()
	}

	fp, err := Fingerprint(doc)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name:        name,
		Document:    doc,
		Fingerprint: fp,
		Bytes:       len(src),
	}, nil
}

func (c *Converter) normalize(s string) string {
	switch c.form {
	case FormNFC:
		return norm.NFC.String(s)
	case FormNFKC:
		return norm.NFKC.String(s)
	default:
		return s
	}
}

// Fingerprint hashes a document's frontmatter and block tree with mdfp.
// Layout differences that parse to the same tree share a fingerprint. An
// existing fingerprint field in the frontmatter is ignored.
func Fingerprint(doc *ast.Document) (string, error) {
	if doc == nil {
		return "", errors.InternalError("fingerprint of nil document").Build()
	}
	fields := make(map[string]string, len(doc.Frontmatter))
	for k, v := range doc.Frontmatter {
		if k == mdfp.FingerprintField {
			continue
		}
		fields[k] = v
	}
	head, err := frontmatter.SerializeYAML(fields)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "serialize frontmatter").Build()
	}
	blocks := doc.Blocks
	if blocks == nil {
		blocks = []ast.Block{}
	}
	body, err := json.Marshal(blocks)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "encode blocks").Build()
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(head), "\n"), string(body)), nil
}

func resultLabel(err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.HasCategory(err, errors.CategoryValidation):
		return metrics.ResultInvalid
	case errors.HasCategory(err, errors.CategoryRuntime):
		return metrics.ResultCanceled
	default:
		return metrics.ResultFailed
	}
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
