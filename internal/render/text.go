package render

import (
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"git.home.luguber.info/inful/blockmark/internal/ast"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
)

const (
	sgrReset     = "\x1b[0m"
	sgrBold      = "\x1b[1m"
	sgrFaint     = "\x1b[2m"
	sgrItalic    = "\x1b[3m"
	sgrUnderline = "\x1b[4m"
	sgrCyan      = "\x1b[36m"
)

// Text writes a terminal rendering wrapped at Width columns. Color adds
// ANSI styling; widths are measured without escape sequences either way.
type Text struct {
	Width int
	Color bool
}

func (r Text) Render(w io.Writer, doc *ast.Document) error {
	if doc == nil {
		return nilDocument()
	}
	if r.Width <= 0 {
		r.Width = DefaultWidth
	}

	var parts []string
	if len(doc.Frontmatter) > 0 {
		parts = append(parts, r.frontmatter(doc.Frontmatter))
	}
	for i, b := range doc.Blocks {
		s, err := r.block(b)
		if err != nil {
			return errors.WrapError(err, errors.CategoryValidation, "render text").
				WithContext("block", i).
				Build()
		}
		parts = append(parts, s)
	}

	out := strings.Join(parts, "\n\n")
	if out != "" {
		out += "\n"
	}
	if _, err := io.WriteString(w, out); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "write text").Build()
	}
	return nil
}

func (r Text) frontmatter(fm map[string]string) string {
	lines := make([]string, 0, len(fm)+1)
	for _, k := range slices.Sorted(maps.Keys(fm)) {
		lines = append(lines, r.style(sgrFaint, k+": "+fm[k]))
	}
	lines = append(lines, strings.Repeat("─", r.Width))
	return strings.Join(lines, "\n")
}

func (r Text) block(b ast.Block) (string, error) {
	switch v := b.(type) {
	case ast.Heading:
		title := wrap(r.inlines(v.Body), r.Width)
		rule := "-"
		if v.Level == 1 {
			rule = "="
		}
		return r.style(sgrBold, title) + "\n" + strings.Repeat(rule, min(widest(title), r.Width)), nil
	case ast.Paragraph:
		return wrap(r.inlines(v.Body), r.Width), nil
	case ast.Quote:
		return prefixLines(wrap(r.inlines(v.Body), r.Width-2), "│ "), nil
	case ast.List:
		items := make([]string, len(v.Items))
		for i, item := range v.Items {
			bullet := "• "
			if v.Ordered {
				bullet = strconv.Itoa(i+1) + ". "
			}
			items[i] = hanging(bullet, wrap(r.inlines(item.Body), r.Width-ansi.PrintableRuneWidth(bullet)))
		}
		return strings.Join(items, "\n"), nil
	case ast.Image:
		label := "[image: " + v.AltText + "] " + v.URL
		if v.Caption != "" {
			label += "\n" + v.Caption
		}
		return wrap(label, r.Width), nil
	case ast.Code:
		body := v.Body
		if v.Lang != "" {
			body = r.style(sgrFaint, v.Lang) + "\n" + body
		}
		return indent.String(r.style(sgrCyan, body), 4), nil
	case ast.ThematicBreak:
		return strings.Repeat("─", r.Width), nil
	case ast.Custom:
		return r.custom(v), nil
	default:
		return "", errors.ValidationError("unsupported block").
			WithContext("kind", b.Kind().String()).
			Build()
	}
}

func (r Text) custom(c ast.Custom) string {
	lines := []string{r.style(sgrFaint, "["+c.CustomType+"]")}
	for _, k := range slices.Sorted(maps.Keys(c.Fields)) {
		switch v := c.Fields[k].(type) {
		case []ast.Inline:
			lines = append(lines, wrap(r.inlines(v), r.Width))
		case string:
			lines = append(lines, wrap(k+": "+v, r.Width))
		}
	}
	return strings.Join(lines, "\n")
}

func (r Text) inlines(in []ast.Inline) string {
	var sb strings.Builder
	for _, i := range in {
		switch v := i.(type) {
		case ast.TextBody:
			sb.WriteString(r.styled(v))
		case ast.Link:
			var label strings.Builder
			for _, tb := range v.Body {
				label.WriteString(r.styled(tb))
			}
			sb.WriteString(r.style(sgrUnderline, label.String()))
			sb.WriteString(" <" + v.URL + ">")
		}
	}
	return sb.String()
}

func (r Text) styled(tb ast.TextBody) string {
	switch tb.Style {
	case ast.StyleStrong:
		return r.style(sgrBold, tb.Value)
	case ast.StyleItalic:
		return r.style(sgrItalic, tb.Value)
	case ast.StyleCode:
		if !r.Color {
			return "`" + tb.Value + "`"
		}
		return r.style(sgrCyan, tb.Value)
	default:
		return tb.Value
	}
}

func (r Text) style(sgr, s string) string {
	if !r.Color || s == "" {
		return s
	}
	return sgr + s + sgrReset
}

// wrap word-wraps s at limit printable columns, keeping hard newlines.
func wrap(s string, limit int) string {
	if limit < 1 {
		limit = 1
	}
	return wordwrap.String(s, limit)
}

// hanging prefixes the first line of s with head and indents the rest to
// line up under it.
func hanging(head, s string) string {
	pad := strings.Repeat(" ", ansi.PrintableRuneWidth(head))
	lines := strings.Split(s, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = head + lines[i]
		} else {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

func widest(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		n = max(n, ansi.PrintableRuneWidth(line))
	}
	return n
}
