package lint

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Rule identifiers.
const (
	RuleParseError         = "parse-error"
	RuleFrontmatterOpen    = "frontmatter-unterminated"
	RuleSetextHeading      = "setext-heading"
	RuleIndentedCode       = "indented-code"
	RuleNestedList         = "nested-list"
	RuleHTMLBlock          = "html-block"
	RuleInlineHTML         = "inline-html"
	RuleLinkTitle          = "link-title"
	RuleReferenceLink      = "reference-link"
	RuleAutolink           = "autolink"
	RuleNestedEmphasis     = "nested-emphasis"
	RuleHardLineBreak      = "hard-line-break"
	RuleImageNotLineStart  = "image-not-line-start"
	RuleMultiLineParagraph = "multi-line-paragraph"
)

// finding is an issue before the file path and line are attached.
type finding struct {
	rule     string
	severity Severity
	offset   int
	message  string
	explain  string
	fix      string
}

var md = goldmark.New()

// scanBody parses a frontmatter-free body as CommonMark and reports every
// construct that blockmark reads differently. Offsets are relative to body.
func scanBody(body []byte) []finding {
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	var out []finding
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if f, ok := check(n, body); ok {
			out = append(out, f)
		}
		return gmast.WalkContinue, nil
	})

	for _, ref := range ctx.References() {
		label := ref.Label()
		off := bytes.Index(body, append(append([]byte{'['}, label...), ']', ':'))
		out = append(out, finding{
			rule:     RuleReferenceLink,
			severity: SeverityWarning,
			offset:   max(off, 0),
			message:  "reference-style link definition",
			explain:  "Only inline [label](url) links are recognized. The definition line is read as a paragraph.",
			fix:      "Inline the destination at each use: [" + string(label) + "](" + string(ref.Destination()) + ")",
		})
	}
	return out
}

func check(n gmast.Node, src []byte) (finding, bool) {
	switch v := n.(type) {
	case *gmast.Heading:
		if isSetext(v, src) {
			return finding{
				rule: RuleSetextHeading, severity: SeverityWarning, offset: nodeOffset(v),
				message: "setext heading",
				explain: "Underlined headings are read as a paragraph followed by a thematic break or plain text.",
				fix:     "Use an ATX heading: prefix the line with " + string(bytes.Repeat([]byte{'#'}, v.Level)) + " and a space.",
			}, true
		}
	case *gmast.CodeBlock:
		return finding{
			rule: RuleIndentedCode, severity: SeverityWarning, offset: nodeOffset(v),
			message: "indented code block",
			explain: "Indentation is trimmed between blocks, so the code is read as paragraphs.",
			fix:     "Wrap the code in ``` fences.",
		}, true
	case *gmast.List:
		if hasAncestor(v, gmast.KindListItem) {
			return finding{
				rule: RuleNestedList, severity: SeverityWarning, offset: nodeOffset(v),
				message: "nested list",
				explain: "Lists are flat. Indented items end the outer list and start a new block.",
				fix:     "Flatten the list or split it into separate lists.",
			}, true
		}
	case *gmast.HTMLBlock:
		return finding{
			rule: RuleHTMLBlock, severity: SeverityWarning, offset: nodeOffset(v),
			message: "HTML block",
			explain: "Raw HTML is not interpreted. It is kept as paragraph text.",
		}, true
	case *gmast.RawHTML:
		return finding{
			rule: RuleInlineHTML, severity: SeverityWarning, offset: nodeOffset(v),
			message: "inline HTML",
			explain: "Raw HTML tags are kept as literal text.",
		}, true
	case *gmast.Link:
		if len(v.Title) > 0 {
			return finding{
				rule: RuleLinkTitle, severity: SeverityWarning, offset: nodeOffset(v),
				message: "link title",
				explain: "Link titles are not supported. The title becomes part of the URL.",
				fix:     "Remove the quoted title after the destination.",
			}, true
		}
	case *gmast.AutoLink:
		return finding{
			rule: RuleAutolink, severity: SeverityWarning, offset: nodeOffset(v),
			message: "autolink",
			explain: "Angle-bracket autolinks are plain text.",
			fix:     "Write the link as [" + string(v.Label(src)) + "](" + string(v.URL(src)) + ")",
		}, true
	case *gmast.Emphasis:
		if hasAncestor(v, gmast.KindEmphasis) {
			return finding{
				rule: RuleNestedEmphasis, severity: SeverityInfo, offset: nodeOffset(v),
				message: "nested emphasis",
				explain: "Styles do not nest. Inner markers are kept as literal text inside the outer span.",
			}, true
		}
	case *gmast.Text:
		if v.HardLineBreak() {
			return finding{
				rule: RuleHardLineBreak, severity: SeverityInfo, offset: v.Segment.Stop,
				message: "hard line break",
				explain: "Trailing spaces and backslashes do not produce line breaks.",
			}, true
		}
		if v.SoftLineBreak() && v.NextSibling() != nil && isTopLevelParagraph(v.Parent()) {
			return finding{
				rule: RuleMultiLineParagraph, severity: SeverityInfo, offset: v.Segment.Stop,
				message: "paragraph continues on the next line",
				explain: "Each line is its own paragraph.",
				fix:     "Join the lines or separate the paragraphs with a blank line.",
			}, true
		}
	case *gmast.Image:
		if prev := v.PreviousSibling(); prev != nil && !endsLine(prev) {
			return finding{
				rule: RuleImageNotLineStart, severity: SeverityWarning, offset: nodeOffset(v),
				message: "image is not at the start of a line",
				explain: "Images are only recognized as whole blocks. Inside text they are kept literally.",
				fix:     "Move the image to its own line.",
			}, true
		}
	}
	return finding{}, false
}

func isSetext(h *gmast.Heading, src []byte) bool {
	lines := h.Lines()
	if lines.Len() == 0 {
		return false
	}
	start := lines.At(0).Start
	lineStart := bytes.LastIndexByte(src[:start], '\n') + 1
	return !bytes.HasPrefix(bytes.TrimLeft(src[lineStart:], " "), []byte("#"))
}

func isTopLevelParagraph(n gmast.Node) bool {
	return n != nil && n.Kind() == gmast.KindParagraph &&
		n.Parent() != nil && n.Parent().Kind() == gmast.KindDocument
}

func hasAncestor(n gmast.Node, kind gmast.NodeKind) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == kind {
			return true
		}
	}
	return false
}

func endsLine(n gmast.Node) bool {
	t, ok := n.(*gmast.Text)
	return ok && (t.SoftLineBreak() || t.HardLineBreak())
}

// nodeOffset finds the first source byte of n, falling back to the
// enclosing block when n carries no segment of its own.
func nodeOffset(n gmast.Node) int {
	if off, ok := ownOffset(n); ok {
		return off
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if off, ok := ownOffset(p); ok {
			return off
		}
	}
	return 0
}

func ownOffset(n gmast.Node) (int, bool) {
	switch v := n.(type) {
	case *gmast.Text:
		return v.Segment.Start, true
	case *gmast.RawHTML:
		if v.Segments.Len() > 0 {
			return v.Segments.At(0).Start, true
		}
	}
	if n.Type() == gmast.TypeBlock && n.Lines().Len() > 0 {
		return n.Lines().At(0).Start, true
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if off, ok := ownOffset(c); ok {
			return off, true
		}
	}
	return 0, false
}
