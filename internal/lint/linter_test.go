package lint

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/parser"
)

func rulesAt(issues []Issue) map[string]int {
	out := make(map[string]int, len(issues))
	for _, issue := range issues {
		if _, seen := out[issue.Rule]; !seen {
			out[issue.Rule] = issue.Line
		}
	}
	return out
}

func TestCheck_FlagsUnsupportedConstructs(t *testing.T) {
	tests := []struct {
		name string
		src  string
		rule string
		line int
	}{
		{"setext heading", "Title\n=====\n", RuleSetextHeading, 1},
		{"indented code", "para\n\n    code line\n", RuleIndentedCode, 3},
		{"nested list", "- a\n  - b\n", RuleNestedList, 2},
		{"html block", "<div>\nhi\n</div>\n", RuleHTMLBlock, 1},
		{"inline html", "text <span>x</span>\n", RuleInlineHTML, 1},
		{"link title", "see [a](http://x.test \"t\")\n", RuleLinkTitle, 1},
		{"autolink", "\n<http://x.test>\n", RuleAutolink, 2},
		{"nested emphasis", "***a***\n", RuleNestedEmphasis, 1},
		{"hard line break", "a  \nb\n", RuleHardLineBreak, 1},
		{"image inside text", "see ![x](y.png)\n", RuleImageNotLineStart, 1},
		{"multi-line paragraph", "a\nb\n", RuleMultiLineParagraph, 1},
		{"unterminated frontmatter", "---\ntitle: x\n", RuleFrontmatterOpen, 1},
	}
	l := NewLinter(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rulesAt(l.Check("doc.md", []byte(tt.src)))
			require.Contains(t, got, tt.rule, "issues: %v", got)
			assert.Equal(t, tt.line, got[tt.rule])
		})
	}
}

func TestCheck_ReferenceLink(t *testing.T) {
	issues := NewLinter(nil, nil).Check("doc.md", []byte("[a][r]\n\n[r]: http://x.test\n"))
	got := rulesAt(issues)
	require.Contains(t, got, RuleReferenceLink)
	for _, issue := range issues {
		if issue.Rule == RuleReferenceLink {
			assert.Equal(t, "Inline the destination at each use: [r](http://x.test)", issue.Fix)
		}
	}
}

func TestCheck_LineNumbersSkipFrontmatter(t *testing.T) {
	src := "---\ntitle: x\n---\nTitle\n=====\n"
	got := rulesAt(NewLinter(nil, nil).Check("doc.md", []byte(src)))
	assert.Equal(t, map[string]int{RuleSetextHeading: 4}, got)
}

func TestCheck_SupportedDocumentIsClean(t *testing.T) {
	src := "---\ntitle: ok\n---\n# Title\n\nText *it* and [a link](https://x.test).\n\n> quoted\n> lines\n\n- a\n- b\n\n![img](a.png)\n\n```go\nx := 1\n```\n\n---\n"
	assert.Empty(t, NewLinter(nil, nil).Check("doc.md", []byte(src)))
}

func TestCheck_ParseErrorIsError(t *testing.T) {
	l := NewLinter(nil, parser.New(parser.WithoutBuiltins()))
	issues := l.Check("doc.md", []byte("\n\nhello\n"))
	require.NotEmpty(t, issues)
	assert.Equal(t, RuleParseError, issues[0].Rule)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Equal(t, 3, issues[0].Line)
}

func TestCheck_QuietKeepsOnlyErrors(t *testing.T) {
	l := NewLinter(&Config{Quiet: true}, nil)
	assert.Empty(t, l.Check("doc.md", []byte("Title\n=====\n")))
}

func TestLintPath_WalksMarkdownAndSkipsHidden(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("Title\n---\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("Title\n---\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "b.md"), []byte("Title\n---\n"), 0o644))

	res, err := NewLinter(nil, nil).LintPath(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, res.FilesTotal)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, filepath.Join(dir, "a.md"), res.Issues[0].FilePath)
	assert.True(t, res.HasWarnings())
	assert.False(t, res.HasErrors())

	_, err = NewLinter(nil, nil).LintPath(filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestLintFiles_ReadErrorIsFilesystemError(t *testing.T) {
	_, err := NewLinter(nil, nil).LintFiles([]string{filepath.Join(t.TempDir(), "none.md")})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}

func TestFormatters(t *testing.T) {
	res := &Result{FilesTotal: 1, Issues: NewLinter(nil, nil).Check("doc.md", []byte("Title\n=====\n"))}

	var text bytes.Buffer
	require.NoError(t, NewFormatter("text").Format(&text, res, "docs"))
	assert.Contains(t, text.String(), "⚠ doc.md:1")
	assert.Contains(t, text.String(), "WARNING: setext heading [setext-heading]")
	assert.Contains(t, text.String(), "1 warning (unsupported syntax)")

	var js bytes.Buffer
	require.NoError(t, NewFormatter("JSON").Format(&js, res, "docs"))
	var out JSONOutput
	require.NoError(t, json.Unmarshal(js.Bytes(), &out))
	assert.Equal(t, "docs", out.Path)
	assert.Equal(t, 1, out.WarningCount)
	require.Len(t, out.Issues, 1)
	assert.Equal(t, "WARNING", out.Issues[0].Severity)
}
