package handlers

import (
	"bytes"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"git.home.luguber.info/inful/blockmark/internal/ast"
	"git.home.luguber.info/inful/blockmark/internal/convert"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/lint"
	"git.home.luguber.info/inful/blockmark/internal/render"
	"git.home.luguber.info/inful/blockmark/internal/server/responses"
)

const defaultDocumentName = "request"

// Options tunes the document endpoints.
type Options struct {
	MaxBodyBytes int64
	RenderFormat string
	RenderWidth  int
}

// DocumentHandlers serves the parse, render, lint and links endpoints.
type DocumentHandlers struct {
	converter *convert.Converter
	linter    *lint.Linter
	errs      *errors.HTTPErrorAdapter
	opts      Options
}

// NewDocumentHandlers wires the endpoints to a converter and linter.
func NewDocumentHandlers(c *convert.Converter, l *lint.Linter, adapter *errors.HTTPErrorAdapter, opts Options) *DocumentHandlers {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = convert.DefaultMaxInputBytes
	}
	if opts.RenderWidth <= 0 {
		opts.RenderWidth = render.DefaultWidth
	}
	if l == nil {
		l = lint.NewLinter(nil, c.Parser())
	}
	return &DocumentHandlers{converter: c, linter: l, errs: adapter, opts: opts}
}

// HandleParse answers POST /v1/parse with the JSON document tree. The ETag
// is the content fingerprint, so unchanged documents get 304 Not Modified.
func (h *DocumentHandlers) HandleParse(w http.ResponseWriter, r *http.Request) {
	res, ok := h.convert(w, r)
	if !ok {
		return
	}
	if h.notModified(w, r, `"`+res.Fingerprint+`"`) {
		return
	}
	if err := writeJSON(w, http.StatusOK, res.Document); err != nil {
		h.errs.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryInternal, "encode document").Build())
	}
}

// HandleRender answers POST /v1/render?format=...&width=... in the
// requested output format.
func (h *DocumentHandlers) HandleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = h.opts.RenderFormat
	}
	width := h.opts.RenderWidth
	if raw := q.Get("width"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.errs.WriteErrorResponse(w, r, errors.ValidationError("width must be a positive integer").
				WithContext("width", raw).
				Build())
			return
		}
		width = n
	}
	renderer, err := render.ForFormat(format, width)
	if err != nil {
		h.errs.WriteErrorResponse(w, r, err)
		return
	}

	res, ok := h.convert(w, r)
	if !ok {
		return
	}
	etag := `"` + res.Fingerprint + "-" + format + "-" + strconv.Itoa(width) + `"`
	if h.notModified(w, r, etag) {
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, res.Document); err != nil {
		h.errs.WriteErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleLint answers POST /v1/lint with the issues found in the body.
func (h *DocumentHandlers) HandleLint(w http.ResponseWriter, r *http.Request) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.errs.WriteErrorResponse(w, r, err)
		return
	}
	name := documentName(r)
	result := &lint.Result{Issues: h.linter.Check(name, body), FilesTotal: 1}
	if err := writeJSON(w, http.StatusOK, lint.NewJSONOutput(result, name)); err != nil {
		h.errs.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryInternal, "encode lint result").Build())
	}
}

// HandleLinks answers POST /v1/links with every link in the document.
func (h *DocumentHandlers) HandleLinks(w http.ResponseWriter, r *http.Request) {
	res, ok := h.convert(w, r)
	if !ok {
		return
	}
	out := responses.LinksResponse{Fingerprint: res.Fingerprint, Links: []responses.LinkInfo{}}
	for _, l := range ast.Links(res.Document) {
		out.Links = append(out.Links, responses.LinkInfo{URL: l.URL, Label: ast.LinkText(l)})
	}
	if err := writeJSON(w, http.StatusOK, out); err != nil {
		h.errs.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryInternal, "encode links").Build())
	}
}

func (h *DocumentHandlers) convert(w http.ResponseWriter, r *http.Request) (*convert.Result, bool) {
	body, err := h.readBody(w, r)
	if err != nil {
		h.errs.WriteErrorResponse(w, r, err)
		return nil, false
	}
	res, err := h.converter.Convert(r.Context(), documentName(r), body)
	if err != nil {
		h.errs.WriteErrorResponse(w, r, err)
		return nil, false
	}
	return res, true
}

func (h *DocumentHandlers) notModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	w.Header().Set("ETag", etag)
	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (h *DocumentHandlers) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes))
	if err == nil {
		return body, nil
	}
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return nil, errors.ValidationError("request body too large").
			WithContext("limit", tooLarge.Limit).
			Build()
	}
	return nil, errors.WrapError(err, errors.CategoryNetwork, "failed to read request body").Build()
}

func documentName(r *http.Request) string {
	if name := r.URL.Query().Get("name"); name != "" {
		return name
	}
	return defaultDocumentName
}
