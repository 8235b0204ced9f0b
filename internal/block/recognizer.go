// Package block recognizes and extracts the built-in block kinds.
//
// A Recognizer pairs an anchored pattern with an extractor. The parser
// tries recognizers in priority order against the start of the remaining
// input; the first whose pattern matches a non-empty prefix wins.
//
// The Extract* functions can also be called directly. They then validate
// their input and return ErrNotMatched (wrapped in a validation error) when
// the text is not a block of their kind.
package block

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/blockmark/internal/ast"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
)

// ErrNotMatched is the cause of every extractor validation error.
var ErrNotMatched = stderrors.New("text does not match block pattern")

// Match is a recognized prefix of the input.
type Match struct {
	// Text is the matched span with surrounding whitespace trimmed.
	Text string
	// Groups are the pattern's submatches against the untrimmed span;
	// Groups[0] is the untrimmed span itself. Unmatched groups are "".
	Groups []string
	// End is the length of the untrimmed span in the input.
	End int
}

// ExtractFunc builds a block from a match.
type ExtractFunc func(m Match) (ast.Block, error)

// Recognizer detects one block kind at the start of the input.
type Recognizer struct {
	Name    string
	pattern *regexp.Regexp
	extract ExtractFunc
}

// NewRecognizer compiles pattern and anchors it to the start of the input.
// A leading "^" in pattern is allowed but not required.
func NewRecognizer(name, pattern string, extract ExtractFunc) (Recognizer, error) {
	if name == "" {
		return Recognizer{}, errors.ValidationError("recognizer name is required").Build()
	}
	if extract == nil {
		return Recognizer{}, errors.ValidationError("recognizer extractor is required").
			WithContext("recognizer", name).Build()
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return Recognizer{}, errors.WrapError(err, errors.CategoryValidation, "invalid recognizer pattern").
			WithContext("recognizer", name).
			WithContext("pattern", pattern).
			Build()
	}
	return Recognizer{Name: name, pattern: re, extract: extract}, nil
}

// FromRegexp is NewRecognizer for an already compiled pattern.
func FromRegexp(name string, re *regexp.Regexp, extract ExtractFunc) (Recognizer, error) {
	if re == nil {
		return Recognizer{}, errors.ValidationError("recognizer pattern is required").
			WithContext("recognizer", name).Build()
	}
	return NewRecognizer(name, re.String(), extract)
}

// MustRecognizer is NewRecognizer that panics on error. It is meant for
// package-level recognizers with constant patterns.
func MustRecognizer(name, pattern string, extract ExtractFunc) Recognizer {
	r, err := NewRecognizer(name, pattern, extract)
	if err != nil {
		panic(fmt.Sprintf("block: %v", err))
	}
	return r
}

// Pattern returns the anchored source of the recognizer's pattern.
func (r Recognizer) Pattern() string {
	if r.pattern == nil {
		return ""
	}
	return r.pattern.String()
}

// Match reports whether the recognizer matches a non-empty prefix of s.
func (r Recognizer) Match(s string) (Match, bool) {
	if r.pattern == nil {
		return Match{}, false
	}
	loc := r.pattern.FindStringSubmatchIndex(s)
	if loc == nil || loc[1] == 0 {
		return Match{}, false
	}
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if start := loc[2*i]; start >= 0 {
			groups[i] = s[start:loc[2*i+1]]
		}
	}
	return Match{
		Text:   strings.TrimSpace(s[:loc[1]]),
		Groups: groups,
		End:    loc[1],
	}, true
}

// Extract builds the block for m.
func (r Recognizer) Extract(m Match) (ast.Block, error) {
	return r.extract(m)
}

func notMatched(kind ast.Kind, src string) error {
	preview := src
	if len(preview) > 40 {
		preview = preview[:40] + "..."
	}
	return errors.WrapError(ErrNotMatched, errors.CategoryValidation, fmt.Sprintf("not a %s block", kind)).
		WithContext("kind", string(kind)).
		WithContext("text", preview).
		Build()
}
