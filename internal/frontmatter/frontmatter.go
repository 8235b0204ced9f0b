// Package frontmatter splits and decodes the optional "---" header of a
// document.
//
// Two decoders are provided. ParseLines reads flat "key: value" lines and
// never fails. ParseYAMLFlat decodes the header as YAML and flattens nested
// values into dotted keys.
package frontmatter

import (
	"bytes"
	"errors"
	"strings"
)

// Style captures the newline shape of a document so Join can rebuild it.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// ErrMissingClosingDelimiter indicates the document started with a
// frontmatter delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// Split separates a "---" delimited header from the body.
//
// If the document does not start with a delimiter line, had is false and
// body is the full input. A closing delimiter may be the last line of the
// document with no newline after it.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	start := len(open)
	rest := content[start:]
	if isDelimiterLine(rest, nl) {
		return []byte{}, afterDelimiter(rest, nl), true, style, nil
	}

	closeSeq := []byte(nl + "---")
	for off := 0; ; {
		idx := bytes.Index(rest[off:], closeSeq)
		if idx < 0 {
			return nil, nil, false, style, ErrMissingClosingDelimiter
		}
		at := off + idx + len(nl)
		if isDelimiterLine(rest[at:], nl) {
			return rest[:at], afterDelimiter(rest[at:], nl), true, style, nil
		}
		off = at
	}
}

// isDelimiterLine reports whether b starts with a "---" line.
func isDelimiterLine(b []byte, nl string) bool {
	if !bytes.HasPrefix(b, []byte("---")) {
		return false
	}
	tail := b[3:]
	return len(tail) == 0 || bytes.HasPrefix(tail, []byte(nl))
}

func afterDelimiter(b []byte, nl string) []byte {
	b = b[3:]
	return bytes.TrimPrefix(b, []byte(nl))
}

// SplitString is the parser's view of Split. Leading whitespace before the
// header is ignored. When the header is missing or unterminated, ok is false
// and body is the whole input.
func SplitString(input string) (head, body string, ok bool) {
	trimmed := strings.TrimLeft(input, " \t\r\n")
	fm, rest, had, _, err := Split([]byte(trimmed))
	if err != nil || !had {
		return "", input, false
	}
	return string(fm), string(rest), true
}

// Join reassembles a document from raw frontmatter and body. If had is
// false, Join returns body as-is.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	out := make([]byte, 0, len(frontmatter)+len(body)+2*(3+len(nl))+len(nl))
	out = append(out, "---"+nl...)
	out = append(out, frontmatter...)
	if len(frontmatter) > 0 && !bytes.HasSuffix(frontmatter, []byte(nl)) {
		out = append(out, nl...)
	}
	out = append(out, "---"+nl...)
	out = append(out, body...)
	return out
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			break
		}
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
