package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_Frontmatter_SplitsHeaderAndBody(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\nkey: value\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\n"), fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Empty(t, body)
}

func TestSplit_DashesInsideLineDoNotClose(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\nrule: ---x\n----\nend: 1\n---\nbody"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("rule: ---x\n----\nend: 1\n"), fm)
	require.Equal(t, []byte("body"), body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, _, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, had)
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, style, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "\r\n", style.Newline)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestJoin_RoundTrip_ReconstructsOriginalBytes(t *testing.T) {
	cases := [][]byte{
		[]byte("# Title\n\nHello\n"),
		[]byte("---\nkey: value\n---\n# Title\n"),
		[]byte("---\n---\n# Title\n"),
		[]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"),
	}

	for _, input := range cases {
		fm, body, had, style, err := Split(input)
		require.NoError(t, err)
		require.Equal(t, input, Join(fm, body, had, style))
	}
}

func TestSplitString_UnterminatedHeader_KeepsWholeInput(t *testing.T) {
	input := "---\ntitle: Draft\n\n# Heading"
	head, body, ok := SplitString(input)
	require.False(t, ok)
	require.Empty(t, head)
	require.Equal(t, input, body)
}

func TestSplitString_IgnoresLeadingBlankLines(t *testing.T) {
	head, body, ok := SplitString("\n\n---\ntitle: x\n---\n\nBody")
	require.True(t, ok)
	require.Equal(t, "title: x\n", head)
	require.Equal(t, "\nBody", body)
}
