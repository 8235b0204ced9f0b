package render

import (
	"io"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/blockmark/internal/ast"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/frontmatter"
)

// Markdown writes constrained-markdown source that parses back to the same
// tree. Custom blocks are written from their recorded source text.
type Markdown struct{}

func (Markdown) Render(w io.Writer, doc *ast.Document) error {
	if doc == nil {
		return nilDocument()
	}
	var sb strings.Builder
	hasHeader := len(doc.Frontmatter) > 0
	if hasHeader && len(doc.Blocks) > 0 {
		sb.WriteByte('\n')
	}
	for i, b := range doc.Blocks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if err := markdownBlock(&sb, b); err != nil {
			return errors.WrapError(err, errors.CategoryValidation, "render markdown").
				WithContext("block", i).
				Build()
		}
	}
	if len(doc.Blocks) > 0 {
		sb.WriteByte('\n')
	}
	out := frontmatter.Join([]byte(frontmatter.FormatLines(doc.Frontmatter)), []byte(sb.String()), hasHeader, frontmatter.Style{Newline: "\n"})
	if _, err := w.Write(out); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "write markdown").Build()
	}
	return nil
}

func markdownBlock(sb *strings.Builder, b ast.Block) error {
	switch v := b.(type) {
	case ast.Heading:
		if v.Level < 1 || v.Level > 6 {
			return errors.ValidationError("heading level out of range").
				WithContext("level", v.Level).
				Build()
		}
		sb.WriteString(strings.Repeat("#", v.Level))
		sb.WriteByte(' ')
		sb.WriteString(MarkdownInlines(v.Body))
	case ast.Paragraph:
		sb.WriteString(MarkdownInlines(v.Body))
	case ast.Quote:
		for i, line := range strings.Split(MarkdownInlines(v.Body), "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteByte('>')
			if line != "" {
				sb.WriteByte(' ')
				sb.WriteString(line)
			}
		}
	case ast.List:
		for i, item := range v.Items {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if v.Ordered {
				sb.WriteString(strconv.Itoa(i + 1))
				sb.WriteString(". ")
			} else {
				sb.WriteString("- ")
			}
			sb.WriteString(MarkdownInlines(item.Body))
		}
	case ast.Image:
		sb.WriteString("![")
		sb.WriteString(v.AltText)
		sb.WriteString("](")
		sb.WriteString(v.URL)
		sb.WriteByte(')')
		if v.Caption != "" {
			sb.WriteString(" (")
			sb.WriteString(v.Caption)
			sb.WriteByte(')')
		}
	case ast.Code:
		sb.WriteString("```")
		sb.WriteString(v.Lang)
		sb.WriteByte('\n')
		if v.Body != "" {
			sb.WriteString(v.Body)
			sb.WriteByte('\n')
		}
		sb.WriteString("```")
	case ast.ThematicBreak:
		sb.WriteString("---")
	case ast.Custom:
		if v.Source == "" {
			return errors.ValidationError("custom block has no source text").
				WithContext("customType", v.CustomType).
				Build()
		}
		sb.WriteString(v.Source)
	default:
		return errors.ValidationError("unsupported block").
			WithContext("kind", b.Kind().String()).
			Build()
	}
	return nil
}

// MarkdownInlines writes inline nodes back in marker syntax.
func MarkdownInlines(in []ast.Inline) string {
	var sb strings.Builder
	for _, i := range in {
		switch v := i.(type) {
		case ast.TextBody:
			writeStyled(&sb, v)
		case ast.Link:
			sb.WriteByte('[')
			for _, tb := range v.Body {
				writeStyled(&sb, tb)
			}
			sb.WriteString("](")
			sb.WriteString(v.URL)
			sb.WriteByte(')')
		}
	}
	return sb.String()
}

func writeStyled(sb *strings.Builder, tb ast.TextBody) {
	var marker string
	switch tb.Style {
	case ast.StyleStrong:
		marker = "**"
	case ast.StyleItalic:
		marker = "*"
		if strings.Contains(tb.Value, "*") && !strings.Contains(tb.Value, "_") {
			marker = "_"
		}
	case ast.StyleCode:
		marker = "`"
	}
	sb.WriteString(marker)
	sb.WriteString(tb.Value)
	sb.WriteString(marker)
}
