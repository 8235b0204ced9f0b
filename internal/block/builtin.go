package block

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/blockmark/internal/ast"
	"git.home.luguber.info/inful/blockmark/internal/inline"
)

// Recognizer patterns. They are anchored by NewRecognizer.
const (
	headingPattern       = `#{1,6}[ \t]+\S[^\n]*`
	quotePattern         = `(?:>[^\n]*(?:\n|$))+`
	listPattern          = `(?:(?:-|\d+\.)[ \t]+\S[^\n]*(?:\n|$))+`
	imagePattern         = `!\[[^\]\n]*\]\([^\n]+?\)[^\n]*`
	codePattern          = "```[^\\n]*\\n(?:(?s:.*?)\\n)??```"
	thematicBreakPattern = `-{3,}[ \t]*(?:\n|$)`
	paragraphPattern     = `[^\n]+`
)

// Patterns used by the direct extractors on a trimmed span.
var (
	headingLine  = regexp.MustCompile(`^(#{1,6})[ \t]+(\S.*)$`)
	listLine     = regexp.MustCompile(`^(-|\d+\.)[ \t]+(\S.*)$`)
	imageLine    = regexp.MustCompile(`^!\[([^\]\n]*)\]\(([^\n]+?)\)([^\n]*)$`)
	codeFence    = regexp.MustCompile("^```([^\\s`]*)[^\\n]*\\n(?:((?s:.*?))\\n)??```$")
	thematicLine = regexp.MustCompile(`^-{3,}$`)
)

var builtins = []Recognizer{
	MustRecognizer(string(ast.KindHeading), headingPattern, extractWith(ExtractHeading)),
	MustRecognizer(string(ast.KindQuote), quotePattern, extractWith(ExtractQuote)),
	MustRecognizer(string(ast.KindList), listPattern, extractWith(ExtractList)),
	MustRecognizer(string(ast.KindImage), imagePattern, extractWith(ExtractImage)),
	MustRecognizer(string(ast.KindCode), codePattern, extractWith(ExtractCode)),
	MustRecognizer(string(ast.KindThematicBreak), thematicBreakPattern, extractWith(ExtractThematicBreak)),
	MustRecognizer(string(ast.KindParagraph), paragraphPattern, extractWith(ExtractParagraph)),
}

// Builtins returns the built-in recognizers in priority order. The
// paragraph fallback is always last. The returned slice is a copy.
func Builtins() []Recognizer {
	out := make([]Recognizer, len(builtins))
	copy(out, builtins)
	return out
}

func extractWith[B ast.Block](fn func(string) (B, error)) ExtractFunc {
	return func(m Match) (ast.Block, error) {
		b, err := fn(m.Text)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

// ExtractHeading parses "# text" through "###### text".
func ExtractHeading(src string) (ast.Heading, error) {
	m := headingLine.FindStringSubmatch(strings.TrimSpace(src))
	if m == nil {
		return ast.Heading{}, notMatched(ast.KindHeading, src)
	}
	return ast.Heading{
		Level: len(m[1]),
		Body:  inline.Parse(strings.TrimSpace(m[2])),
	}, nil
}

// ExtractQuote parses consecutive "> " lines. One space after ">" is
// stripped; the lines are rejoined with "\n" before inline parsing.
func ExtractQuote(src string) (ast.Quote, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return ast.Quote{}, notMatched(ast.KindQuote, src)
	}
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		rest, ok := strings.CutPrefix(line, ">")
		if !ok {
			return ast.Quote{}, notMatched(ast.KindQuote, src)
		}
		rest = strings.TrimPrefix(rest, " ")
		lines[i] = strings.TrimRight(rest, " \t")
	}
	return ast.Quote{Body: inline.Parse(strings.Join(lines, "\n"))}, nil
}

// ExtractList parses consecutive "- item" or "1. item" lines. The list is
// ordered only when every line uses a numeric marker.
func ExtractList(src string) (ast.List, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return ast.List{}, notMatched(ast.KindList, src)
	}
	lines := strings.Split(src, "\n")
	list := ast.List{Ordered: true, Items: make([]ast.ListItem, 0, len(lines))}
	for _, line := range lines {
		m := listLine.FindStringSubmatch(strings.TrimRight(line, " \t"))
		if m == nil {
			return ast.List{}, notMatched(ast.KindList, src)
		}
		if m[1] == "-" {
			list.Ordered = false
		}
		list.Items = append(list.Items, ast.ListItem{Body: inline.Parse(m[2])})
	}
	return list, nil
}

// ExtractImage parses "![alt](url)" with optional trailing caption text.
// A caption wrapped in parentheses has them removed.
func ExtractImage(src string) (ast.Image, error) {
	m := imageLine.FindStringSubmatch(strings.TrimSpace(src))
	if m == nil {
		return ast.Image{}, notMatched(ast.KindImage, src)
	}
	caption := strings.TrimSpace(m[3])
	if strings.HasPrefix(caption, "(") && strings.HasSuffix(caption, ")") {
		caption = strings.TrimSpace(caption[1 : len(caption)-1])
	}
	return ast.Image{
		URL:     m[2],
		AltText: m[1],
		Caption: caption,
	}, nil
}

// ExtractCode parses a fenced code block. The body is kept verbatim.
func ExtractCode(src string) (ast.Code, error) {
	m := codeFence.FindStringSubmatch(strings.TrimSpace(src))
	if m == nil {
		return ast.Code{}, notMatched(ast.KindCode, src)
	}
	return ast.Code{Lang: m[1], Body: m[2]}, nil
}

// ExtractThematicBreak accepts a line of three or more dashes.
func ExtractThematicBreak(src string) (ast.ThematicBreak, error) {
	if !thematicLine.MatchString(strings.TrimSpace(src)) {
		return ast.ThematicBreak{}, notMatched(ast.KindThematicBreak, src)
	}
	return ast.ThematicBreak{}, nil
}

// ExtractParagraph parses a single non-empty line.
func ExtractParagraph(src string) (ast.Paragraph, error) {
	src = strings.TrimSpace(src)
	if src == "" || strings.Contains(src, "\n") {
		return ast.Paragraph{}, notMatched(ast.KindParagraph, src)
	}
	return ast.Paragraph{Body: inline.Parse(src)}, nil
}
