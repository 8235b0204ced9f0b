package convert

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blockmark/internal/ast"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/metrics"
	"git.home.luguber.info/inful/blockmark/internal/parser"
)

type testRecorder struct {
	mu        sync.Mutex
	durations int
	bytes     []int
	blocks    map[string]int
	results   map[metrics.ResultLabel]int
}

func newTestRecorder() *testRecorder {
	return &testRecorder{blocks: map[string]int{}, results: map[metrics.ResultLabel]int{}}
}

func (r *testRecorder) ObserveParseDuration(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations++
}

func (r *testRecorder) ObserveInputBytes(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bytes = append(r.bytes, n)
}

func (r *testRecorder) IncBlocks(kind string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocks[kind] += n
}

func (r *testRecorder) IncParseResult(result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result]++
}

func (r *testRecorder) ObserveHTTPRequest(string, int, time.Duration) {}

const sample = "---\ntitle: Hello\n---\n# Title\n\nSome *text*.\n\n- one\n- two\n"

func TestConvert_ParsesAndRecords(t *testing.T) {
	rec := newTestRecorder()
	c := New(nil, WithRecorder(rec))

	res, err := c.Convert(context.Background(), "doc.md", []byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "doc.md", res.Name)
	assert.Equal(t, "Hello", res.Document.Frontmatter["title"])
	require.Len(t, res.Document.Blocks, 3)
	assert.NotEmpty(t, res.Fingerprint)
	assert.Equal(t, len(sample), res.Bytes)

	assert.Equal(t, 1, rec.durations)
	assert.Equal(t, []int{len(sample)}, rec.bytes)
	assert.Equal(t, map[string]int{"heading": 1, "paragraph": 1, "list": 1}, rec.blocks)
	assert.Equal(t, 1, rec.results[metrics.ResultSuccess])
}

func TestConvert_RejectsOversizedInput(t *testing.T) {
	rec := newTestRecorder()
	c := New(nil, WithMaxInputBytes(8), WithRecorder(rec))

	_, err := c.Convert(context.Background(), "big.md", []byte(strings.Repeat("a", 9)))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.Equal(t, 1, rec.results[metrics.ResultInvalid])
	assert.Empty(t, rec.blocks)
}

func TestConvert_RejectsInvalidUTF8WithOffset(t *testing.T) {
	_, err := New(nil).Convert(context.Background(), "bad.md", []byte("ok \xff no"))
	require.Error(t, err)

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryValidation, ce.Category())
	offset, _ := ce.Context().Get("offset")
	assert.Equal(t, 3, offset)
}

func TestConvert_CanceledContext(t *testing.T) {
	rec := newTestRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil, WithRecorder(rec)).Convert(ctx, "doc.md", []byte("# x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, rec.results[metrics.ResultCanceled])
}

func TestConvert_Normalization(t *testing.T) {
	// "e" followed by a combining acute accent.
	decomposed := "Cafe\u0301"

	res, err := New(nil).Convert(context.Background(), "n.md", []byte(decomposed))
	require.NoError(t, err)
	assert.Equal(t, ast.Paragraph{Body: []ast.Inline{ast.Plain("Caf\u00e9")}}, res.Document.Blocks[0])

	res, err = New(nil, WithNormalization(FormNone)).Convert(context.Background(), "n.md", []byte(decomposed))
	require.NoError(t, err)
	assert.Equal(t, ast.Paragraph{Body: []ast.Inline{ast.Plain(decomposed)}}, res.Document.Blocks[0])

	res, err = New(nil, WithNormalization(FormNFKC)).Convert(context.Background(), "n.md", []byte("\ufb01ne"))
	require.NoError(t, err)
	assert.Equal(t, ast.Paragraph{Body: []ast.Inline{ast.Plain("fine")}}, res.Document.Blocks[0])
}

func TestConvert_ParseErrorCarriesFileName(t *testing.T) {
	p := parser.New(parser.WithoutBuiltins())
	_, err := New(p).Convert(context.Background(), "x.md", []byte("hello"))
	require.Error(t, err)

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	file, _ := ce.Context().GetString("file")
	assert.Equal(t, "x.md", file)
	assert.ErrorIs(t, err, parser.ErrNoRecognizer)
}

func TestFingerprint_StableAcrossLayout(t *testing.T) {
	c := New(nil)
	a, err := c.Convert(context.Background(), "a", []byte("# T\n\nbody\n"))
	require.NoError(t, err)
	b, err := c.Convert(context.Background(), "b", []byte("# T\r\n\r\n\r\nbody"))
	require.NoError(t, err)
	d, err := c.Convert(context.Background(), "d", []byte("# T\n\nother\n"))
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.NotEqual(t, a.Fingerprint, d.Fingerprint)
}

func TestFingerprint_IgnoresStoredFingerprintField(t *testing.T) {
	doc := &ast.Document{Frontmatter: map[string]string{"title": "x"}, Blocks: []ast.Block{ast.ThematicBreak{}}}
	withField := &ast.Document{Frontmatter: map[string]string{"title": "x", mdfp.FingerprintField: "old"}, Blocks: []ast.Block{ast.ThematicBreak{}}}

	a, err := Fingerprint(doc)
	require.NoError(t, err)
	b, err := Fingerprint(withField)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = Fingerprint(nil)
	require.Error(t, err)
}
