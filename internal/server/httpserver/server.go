// Package httpserver hosts the blockmark HTTP API.
package httpserver

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blockmark/internal/convert"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/lint"
	"git.home.luguber.info/inful/blockmark/internal/logfields"
	"git.home.luguber.info/inful/blockmark/internal/metrics"
	"git.home.luguber.info/inful/blockmark/internal/server/handlers"
	"git.home.luguber.info/inful/blockmark/internal/server/middleware"
)

const shutdownTimeout = 5 * time.Second

// Options configures the server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	MaxBodyBytes int64
	RenderFormat string
	RenderWidth  int

	// Registry enables GET /metrics when non-nil.
	Registry *prom.Registry
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Server serves the parse, render, lint and links endpoints.
type Server struct {
	opts    Options
	handler http.Handler
	http    *http.Server
	ln      net.Listener
	logger  *slog.Logger
}

// New builds the route table around conv.
func New(conv *convert.Converter, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}

	adapter := errors.NewHTTPErrorAdapter(opts.Logger)
	docs := handlers.NewDocumentHandlers(conv, lint.NewLinter(nil, conv.Parser()), adapter, handlers.Options{
		MaxBodyBytes: opts.MaxBodyBytes,
		RenderFormat: opts.RenderFormat,
		RenderWidth:  opts.RenderWidth,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/parse", docs.HandleParse)
	mux.HandleFunc("POST /v1/render", docs.HandleRender)
	mux.HandleFunc("POST /v1/lint", docs.HandleLint)
	mux.HandleFunc("POST /v1/links", docs.HandleLinks)
	mux.Handle("GET /healthz", handlers.HealthHandler(time.Now()))
	if opts.Registry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(opts.Registry))
	}

	s := &Server{
		opts:    opts,
		handler: middleware.Chain(opts.Logger, adapter, opts.Recorder)(mux),
		logger:  opts.Logger,
	}
	s.http = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: opts.ReadTimeout,
		ReadTimeout:       opts.ReadTimeout,
	}
	return s
}

// Handler returns the fully wrapped route table.
func (s *Server) Handler() http.Handler { return s.handler }

// Start binds the listen address. Binding early surfaces port conflicts
// before Run commits to serving.
func (s *Server) Start(ctx context.Context) error {
	if s.ln != nil {
		return nil
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "failed to bind listen address").
			WithContext("addr", s.opts.Addr).
			Build()
	}
	s.ln = ln
	return nil
}

// Addr is the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.opts.Addr
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	s.logger.Info("HTTP server listening", logfields.Addr(s.Addr()))

	served := make(chan error, 1)
	go func() { served <- s.http.Serve(s.ln) }()

	select {
	case err := <-served:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.WrapError(err, errors.CategoryNetwork, "http server failed").Build()
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "http server shutdown").Build()
	}
	<-served
	s.logger.Info("HTTP server stopped", logfields.Addr(s.Addr()))
	return nil
}
