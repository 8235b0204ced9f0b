// Package commands implements the blockmark subcommands.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"

	"git.home.luguber.info/inful/blockmark/internal/config"
	"git.home.luguber.info/inful/blockmark/internal/convert"
	"git.home.luguber.info/inful/blockmark/internal/extension"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/logfields"
	"git.home.luguber.info/inful/blockmark/internal/metrics"
	"git.home.luguber.info/inful/blockmark/internal/parser"
)

// Global carries process state shared by every command.
type Global struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// NewGlobal bundles the process context and streams.
func NewGlobal(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer) *Global {
	return &Global{Ctx: ctx, Stdin: stdin, Stdout: stdout, Stderr: stderr, Logger: slog.Default()}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"blockmark.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Parse  ParseCmd  `cmd:"" help:"Parse documents and print their JSON trees"`
	Render RenderCmd `cmd:"" help:"Render a document as json, html, markdown or text"`
	Lint   LintCmd   `cmd:"" help:"Report Markdown constructs blockmark does not support"`
	Links  LinksCmd  `cmd:"" help:"List the links of a document"`
	Serve  ServeCmd  `cmd:"" help:"Serve the HTTP API"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing and sets up logging until the
// configuration is loaded.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(g.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// runtime is what a command needs once the configuration is loaded.
type runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	converter *convert.Converter
	registry  *prom.Registry
	recorder  metrics.Recorder
}

func (c *CLI) loadConfig() (*config.Config, error) {
	// Only the implicit default may be absent.
	if c.Config == "" || c.Config == config.DefaultPath {
		return config.LoadOrDefault(config.DefaultPath)
	}
	return config.Load(c.Config)
}

func (c *CLI) setup(g *Global) (*runtime, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := newLogger(g.Stderr, cfg.Logging, c.Verbose)
	g.Logger = logger
	slog.SetDefault(logger)

	p := parser.New(parser.WithFrontmatter(parser.FrontmatterMode(cfg.Parser.Frontmatter)))
	exts := extension.NewRegistry()
	if err := exts.RegisterAll(cfg.Extensions); err != nil {
		return nil, err
	}
	for _, def := range exts.List() {
		logger.Debug("Extension registered", logfields.Extension(def.Name))
	}
	p = exts.Apply(p)

	rt := &runtime{cfg: cfg, logger: logger, recorder: metrics.NoopRecorder{}}
	if cfg.Metrics.Enabled {
		rt.registry = prom.NewRegistry()
		rt.recorder = metrics.NewPrometheusRecorder(rt.registry, cfg.Metrics.Namespace)
	}
	rt.converter = convert.New(p,
		convert.WithNormalization(convert.Form(cfg.Parser.Normalize)),
		convert.WithMaxInputBytes(cfg.Parser.MaxInputBytes),
		convert.WithRecorder(rt.recorder),
		convert.WithLogger(logger),
	)
	return rt, nil
}

func newLogger(w io.Writer, cfg config.LoggingConfig, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level.SlogLevel()}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// readInput reads path, or g.Stdin when path is "-".
func readInput(g *Global, path string) (string, []byte, error) {
	if path == "-" {
		data, err := io.ReadAll(g.Stdin)
		if err != nil {
			return "stdin", nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read stdin").Build()
		}
		return "stdin", data, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return path, nil, errors.NewError(errors.CategoryNotFound, "file not found").
			WithContext("path", path).
			Build()
	}
	if err != nil {
		return path, nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read file").
			WithContext("path", path).
			Build()
	}
	return path, data, nil
}

// terminal reports whether w is a terminal and its width, or 0.
func terminal(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok {
		return false, 0
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return false, 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return true, 0
	}
	return true, width
}
