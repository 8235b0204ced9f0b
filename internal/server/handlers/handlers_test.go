package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blockmark/internal/convert"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/lint"
	"git.home.luguber.info/inful/blockmark/internal/parser"
	"git.home.luguber.info/inful/blockmark/internal/server/responses"
)

const sampleDoc = "---\ntitle: Hello\n---\n# Heading\n\nSee [the docs](https://example.com/docs) now.\n"

func newTestMux(t *testing.T, opts Options) *http.ServeMux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	conv := convert.New(parser.New(), convert.WithLogger(logger))
	h := NewDocumentHandlers(conv, nil, errors.NewHTTPErrorAdapter(logger), opts)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/parse", h.HandleParse)
	mux.HandleFunc("POST /v1/render", h.HandleRender)
	mux.HandleFunc("POST /v1/lint", h.HandleLint)
	mux.HandleFunc("POST /v1/links", h.HandleLinks)
	mux.Handle("GET /healthz", HealthHandler(time.Now()))
	return mux
}

func do(t *testing.T, mux http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestHandleParse_ReturnsDocumentWithETag(t *testing.T) {
	mux := newTestMux(t, Options{})

	rr := do(t, mux, http.MethodPost, "/v1/parse", sampleDoc, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))

	etag := rr.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.True(t, strings.HasPrefix(etag, `"`) && strings.HasSuffix(etag, `"`))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Equal(t, map[string]any{"title": "Hello"}, doc["frontmatter"])
	assert.Len(t, doc["blocks"], 2)
}

func TestHandleParse_NotModified(t *testing.T) {
	mux := newTestMux(t, Options{})
	first := do(t, mux, http.MethodPost, "/v1/parse", sampleDoc, nil)
	etag := first.Header().Get("ETag")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"exact", etag, http.StatusNotModified},
		{"weak", "W/" + etag, http.StatusNotModified},
		{"list", `"other", ` + etag, http.StatusNotModified},
		{"wildcard", "*", http.StatusNotModified},
		{"stale", `"stale"`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, mux, http.MethodPost, "/v1/parse", sampleDoc, map[string]string{"If-None-Match": tt.header})
			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusNotModified {
				assert.Empty(t, rr.Body.String())
			}
		})
	}
}

func TestHandleParse_BodyTooLarge(t *testing.T) {
	mux := newTestMux(t, Options{MaxBodyBytes: 16})

	rr := do(t, mux, http.MethodPost, "/v1/parse", sampleDoc, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp errors.HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "request body too large", resp.Error)
	assert.Equal(t, string(errors.CategoryValidation), resp.Code)
}

func TestHandleParse_InvalidUTF8(t *testing.T) {
	mux := newTestMux(t, Options{})
	rr := do(t, mux, http.MethodPost, "/v1/parse", "ok\xff", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleRender_Formats(t *testing.T) {
	mux := newTestMux(t, Options{RenderFormat: "json"})

	tests := []struct {
		query       string
		contentType string
		contains    string
	}{
		{"", "application/json", `"type": "heading"`},
		{"?format=html", "text/html", "<h1>Heading</h1>"},
		{"?format=markdown", "text/markdown", "# Heading"},
		{"?format=text&width=40", "text/plain", "Heading\n======="},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := do(t, mux, http.MethodPost, "/v1/render"+tt.query, sampleDoc, nil)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Contains(t, rr.Header().Get("Content-Type"), tt.contentType)
			assert.Contains(t, rr.Body.String(), tt.contains)
		})
	}
}

func TestHandleRender_ETagVariesByFormat(t *testing.T) {
	mux := newTestMux(t, Options{})
	a := do(t, mux, http.MethodPost, "/v1/render?format=html", sampleDoc, nil)
	b := do(t, mux, http.MethodPost, "/v1/render?format=text", sampleDoc, nil)
	assert.NotEqual(t, a.Header().Get("ETag"), b.Header().Get("ETag"))

	again := do(t, mux, http.MethodPost, "/v1/render?format=html", sampleDoc,
		map[string]string{"If-None-Match": a.Header().Get("ETag")})
	assert.Equal(t, http.StatusNotModified, again.Code)
}

func TestHandleRender_BadParameters(t *testing.T) {
	mux := newTestMux(t, Options{})

	rr := do(t, mux, http.MethodPost, "/v1/render?format=pdf", sampleDoc, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, mux, http.MethodPost, "/v1/render?width=-3", sampleDoc, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "width must be a positive integer")
}

func TestHandleLint(t *testing.T) {
	mux := newTestMux(t, Options{})

	rr := do(t, mux, http.MethodPost, "/v1/lint?name=guide.md", "Title\n=====\n", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var out lint.JSONOutput
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "guide.md", out.Path)
	assert.Equal(t, 1, out.FilesTotal)
	require.NotEmpty(t, out.Issues)
	assert.Equal(t, lint.RuleSetextHeading, out.Issues[0].Rule)
	assert.Equal(t, "guide.md", out.Issues[0].FilePath)
}

func TestHandleLint_CleanDocument(t *testing.T) {
	mux := newTestMux(t, Options{})
	rr := do(t, mux, http.MethodPost, "/v1/lint", "# Fine\n", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"issues":[]`)
}

func TestHandleLinks(t *testing.T) {
	mux := newTestMux(t, Options{})
	rr := do(t, mux, http.MethodPost, "/v1/links", sampleDoc, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var out responses.LinksResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.NotEmpty(t, out.Fingerprint)
	assert.Equal(t, []responses.LinkInfo{{URL: "https://example.com/docs", Label: "the docs"}}, out.Links)
}

func TestHealthHandler(t *testing.T) {
	mux := newTestMux(t, Options{})
	rr := do(t, mux, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var out responses.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "ok", out.Status)
	assert.GreaterOrEqual(t, out.Uptime, 0.0)
}
