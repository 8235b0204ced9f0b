package inline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blockmark/internal/ast"
)

func TestSplitLinks_NoLinks_ReturnsSingleTextFragment(t *testing.T) {
	require.Equal(t, []Fragment{{Text: "plain words"}}, SplitLinks("plain words"))
	require.Empty(t, SplitLinks(""))
}

func TestSplitLinks_TextAroundLinks(t *testing.T) {
	got := SplitLinks("start [first](https://example.com) middle [second](https://example.org) end")
	require.Equal(t, []Fragment{
		{Text: "start "},
		{Link: true, Label: "first", URL: "https://example.com"},
		{Text: " middle "},
		{Link: true, Label: "second", URL: "https://example.org"},
		{Text: " end"},
	}, got)
}

func TestSplitLinks_AdjacentLinks_HaveNoEmptyTextBetween(t *testing.T) {
	got := SplitLinks("[a](1)[b](2)")
	require.Equal(t, []Fragment{
		{Link: true, Label: "a", URL: "1"},
		{Link: true, Label: "b", URL: "2"},
	}, got)
}

func TestSplitLinks_EmptyLabelOrURL_IsNotALink(t *testing.T) {
	for _, in := range []string{"[]()", "[text]()", "[](url)"} {
		require.Equal(t, []Fragment{{Text: in}}, SplitLinks(in), in)
	}
}

func TestSplitLinks_MalformedBrackets_PassThrough(t *testing.T) {
	for _, in := range []string{"[unterminated(url)", "[label](unterminated", "label](url)"} {
		require.Equal(t, []Fragment{{Text: in}}, SplitLinks(in), in)
	}
}

func TestParse_LinkLabelIsTokenizedAndURLIsVerbatim(t *testing.T) {
	got := Parse("see [**bold** text](https://example.com/a_b_c) now")
	require.Equal(t, []ast.Inline{
		plain("see "),
		ast.Link{URL: "https://example.com/a_b_c", Body: []ast.TextBody{strong("bold"), plain(" text")}},
		plain(" now"),
	}, got)
}

func TestParse_MarkersNeverPairAcrossALink(t *testing.T) {
	got := Parse("a_b [x](http://x.test/_path_) c_d")
	require.Equal(t, []ast.Inline{
		plain("a_b "),
		ast.Link{URL: "http://x.test/_path_", Body: []ast.TextBody{plain("x")}},
		plain(" c_d"),
	}, got)
}

func TestParse_StyledLinkOnly(t *testing.T) {
	got := Parse("[`code`](u)")
	require.Equal(t, []ast.Inline{ast.Link{URL: "u", Body: []ast.TextBody{code("code")}}}, got)
}
