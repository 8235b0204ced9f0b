package inline

import (
	"strings"

	"git.home.luguber.info/inful/blockmark/internal/ast"
)

// Markers in precedence order. "**" must be tested before "*".
var markers = [...]struct {
	text  string
	style ast.Style
}{
	{"**", ast.StyleStrong},
	{"*", ast.StyleItalic},
	{"_", ast.StyleItalic},
	{"`", ast.StyleCode},
}

// markerAt returns the marker that starts at s[i], or "" for ordinary text.
func markerAt(s string, i int) string {
	for _, m := range markers {
		if strings.HasPrefix(s[i:], m.text) {
			return m.text
		}
	}
	return ""
}

func styleOf(marker string) ast.Style {
	for _, m := range markers {
		if m.text == marker {
			return m.style
		}
	}
	return ast.StylePlain
}

// Tokenize splits s into styled runs. The runs partition s: concatenating
// their values, with the markers of closed spans put back, yields s.
//
// A span opened by a marker closes at the next occurrence of the same
// marker. Other markers met on the way are part of the span's text, and a
// code span met on the way is skipped whole. A code span ends at the first
// backtick. A span with empty content, or one that
// never closes, is emitted as plain text running from the opener to the
// next marker.
func Tokenize(s string) []ast.TextBody {
	var out []ast.TextBody
	plainStart := 0
	flush := func(end int) {
		if end > plainStart {
			out = append(out, ast.Plain(s[plainStart:end]))
		}
	}

	i := 0
	for i < len(s) {
		m := markerAt(s, i)
		if m == "" {
			i++
			continue
		}
		flush(i)

		open := i + len(m)
		if end, ok := closeSpan(s, open, m); ok {
			out = append(out, ast.Text(styleOf(m), s[open:end]))
			i = end + len(m)
			plainStart = i
			continue
		}

		next := nextMarker(s, open)
		out = append(out, ast.Plain(s[i:next]))
		i = next
		plainStart = i
	}
	flush(len(s))
	return out
}

// closeSpan finds the closing marker for a span whose content starts at
// s[from]. It reports false when the span never closes or is empty.
func closeSpan(s string, from int, m string) (int, bool) {
	if m == "`" {
		idx := strings.IndexByte(s[from:], '`')
		if idx <= 0 {
			return 0, false
		}
		return from + idx, true
	}
	for j := from; j < len(s); {
		t := markerAt(s, j)
		switch {
		case t == "":
			j++
		case t == m:
			if j == from {
				return 0, false
			}
			return j, true
		case t == "`":
			// A closed code span is literal, so a marker inside it cannot close.
			if end, ok := closeSpan(s, j+1, t); ok {
				j = end + 1
			} else {
				j++
			}
		default:
			j += len(t)
		}
	}
	return 0, false
}

// nextMarker returns the index of the first marker at or after from, or
// len(s) when there is none.
func nextMarker(s string, from int) int {
	for j := from; j < len(s); j++ {
		if markerAt(s, j) != "" {
			return j
		}
	}
	return len(s)
}
