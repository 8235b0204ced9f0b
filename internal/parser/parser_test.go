package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blockmark/internal/ast"
	"git.home.luguber.info/inful/blockmark/internal/block"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/inline"
)

func plain(v string) ast.TextBody { return ast.Plain(v) }

func strikethrough(t *testing.T) block.Recognizer {
	t.Helper()
	r, err := block.NewRecognizer("strikethrough", `~~(.+?)~~`, func(m block.Match) (ast.Block, error) {
		return ast.Custom{
			CustomType: "strikethrough",
			Fields:     map[string]any{"body": inline.Parse(m.Groups[1])},
		}, nil
	})
	require.NoError(t, err)
	return r
}

func TestParse_Heading(t *testing.T) {
	doc, err := New().Parse("# Heading 1")
	require.NoError(t, err)
	require.Equal(t, []ast.Block{
		ast.Heading{Level: 1, Body: []ast.Inline{plain("Heading 1")}},
	}, doc.Blocks)
	require.Empty(t, doc.Frontmatter)
}

func TestParse_UnorderedList(t *testing.T) {
	doc, err := New().Parse("- a\n- b")
	require.NoError(t, err)
	require.Equal(t, []ast.Block{
		ast.List{Ordered: false, Items: []ast.ListItem{
			{Body: []ast.Inline{plain("a")}},
			{Body: []ast.Inline{plain("b")}},
		}},
	}, doc.Blocks)
}

func TestParse_EmptyAndBlankInput_ReturnsNoBlocks(t *testing.T) {
	for _, in := range []string{"", "   \n\n\t"} {
		doc, err := New().Parse(in)
		require.NoError(t, err)
		require.Empty(t, doc.Blocks)
		require.NotNil(t, doc.Frontmatter)
	}
}

func TestParse_FullDocument(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "full.md"))
	require.NoError(t, err)

	doc, err := New().Extend(strikethrough(t)).Parse(string(src))
	require.NoError(t, err)

	require.Equal(t, map[string]string{"title": "Sample Document", "author": "Jane"}, doc.Frontmatter)
	require.Equal(t, []ast.Block{
		ast.Heading{Level: 1, Body: []ast.Inline{plain("Heading "), ast.Text(ast.StyleStrong, "One")}},
		ast.Paragraph{Body: []ast.Inline{
			plain("Intro with "),
			ast.Text(ast.StyleItalic, "italic"),
			plain(", "),
			ast.Text(ast.StyleCode, "code"),
			plain(" and a "),
			ast.Link{URL: "https://example.com", Body: []ast.TextBody{plain("link "), ast.Text(ast.StyleStrong, "bold")}},
			plain("."),
		}},
		ast.Paragraph{Body: []ast.Inline{plain("Second line is its own paragraph")}},
		ast.Quote{Body: []ast.Inline{plain("quoted line\nsecond "), ast.Text(ast.StyleItalic, "line")}},
		ast.List{Items: []ast.ListItem{
			{Body: []ast.Inline{plain("first")}},
			{Body: []ast.Inline{plain("second")}},
		}},
		ast.List{Ordered: true, Items: []ast.ListItem{
			{Body: []ast.Inline{plain("one")}},
			{Body: []ast.Inline{plain("two")}},
		}},
		ast.Image{URL: "image.png", AltText: "Alt text", Caption: "A caption"},
		ast.Code{Lang: "go", Body: "fmt.Println(\"hi\")\n\nreturn"},
		ast.ThematicBreak{},
		ast.Custom{
			CustomType: "strikethrough",
			Fields:     map[string]any{"body": []ast.Inline{plain("struck")}},
			Source:     "~~struck~~",
		},
		ast.Paragraph{Body: []ast.Inline{plain("Last paragraph with **unclosed")}},
	}, doc.Blocks)
}

func TestParse_UnterminatedFrontmatter_IsParsedAsBlocks(t *testing.T) {
	doc, err := New().Parse("---\ntitle: Draft\n\nBody")
	require.NoError(t, err)
	require.Empty(t, doc.Frontmatter)
	require.Equal(t, []ast.Block{
		ast.ThematicBreak{},
		ast.Paragraph{Body: []ast.Inline{plain("title: Draft")}},
		ast.Paragraph{Body: []ast.Inline{plain("Body")}},
	}, doc.Blocks)
}

func TestParse_FrontmatterOff_TreatsHeaderAsBlocks(t *testing.T) {
	doc, err := New(WithFrontmatter(FrontmatterOff)).Parse("---\nk: v\n---\nBody")
	require.NoError(t, err)
	require.Empty(t, doc.Frontmatter)
	require.Len(t, doc.Blocks, 4)
}

func TestParse_YAMLFrontmatter(t *testing.T) {
	doc, err := New(WithFrontmatter(FrontmatterYAML)).Parse("---\ntags: [a, b]\nmeta:\n  draft: true\n---\n# T")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"tags": "a, b", "meta.draft": "true"}, doc.Frontmatter)
	require.Len(t, doc.Blocks, 1)
}

func TestParse_InvalidYAMLFrontmatter_ReturnsParseError(t *testing.T) {
	_, err := New(WithFrontmatter(FrontmatterYAML)).Parse("---\n: [\n---\nBody")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryParse))
}

func TestParse_CRLFInput(t *testing.T) {
	doc, err := New().Parse("---\r\ntitle: x\r\n---\r\n# A\r\n\r\n- b\r\n- c\r\n")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"title": "x"}, doc.Frontmatter)
	require.Len(t, doc.Blocks, 2)
}

func TestParse_ThematicBreakNeedsThreeDashes(t *testing.T) {
	doc, err := New().Parse("--\n\n---")
	require.NoError(t, err)
	require.Equal(t, []ast.Block{
		ast.Paragraph{Body: []ast.Inline{plain("--")}},
		ast.ThematicBreak{},
	}, doc.Blocks)
}

func TestParse_EmptyFenceClosesAtFirstFenceLine(t *testing.T) {
	doc, err := New().Parse("```\n```\n\npara\n\n```js\ncode\n```")
	require.NoError(t, err)
	require.Equal(t, []ast.Block{
		ast.Code{},
		ast.Paragraph{Body: []ast.Inline{plain("para")}},
		ast.Code{Lang: "js", Body: "code"},
	}, doc.Blocks)

	doc, err = New().Parse("```go\n```\ntext\n```")
	require.NoError(t, err)
	require.Equal(t, ast.Code{Lang: "go"}, doc.Blocks[0])
	require.Equal(t, ast.Paragraph{Body: []ast.Inline{plain("text")}}, doc.Blocks[1])
}

func TestParse_LeadingIndentationIsTrimmedBetweenBlocks(t *testing.T) {
	doc, err := New().Parse("# A\n\n   - item")
	require.NoError(t, err)
	require.IsType(t, ast.List{}, doc.Blocks[1])
}

func TestParse_IsDeterministicAndStateless(t *testing.T) {
	p := New()
	a, err := p.Parse("# x\n\ntext *y*")
	require.NoError(t, err)
	b, err := p.Parse("# x\n\ntext *y*")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestParse_LargeSingleLine(t *testing.T) {
	line := strings.Repeat("word **bold** [l](u) _i_ ", 5000)
	doc, err := New().Parse(line)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
}
