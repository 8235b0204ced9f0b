package commands

import (
	"bytes"
	"context"
	"io"
	"os"

	"git.home.luguber.info/inful/blockmark/internal/convert"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/render"
	"git.home.luguber.info/inful/blockmark/internal/watch"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	File       string `arg:"" help:"Document to render (- reads stdin)"`
	Format     string `short:"f" help:"Output format: json, html, markdown or text (default from config)"`
	Width      int    `short:"w" help:"Wrap width for text output (default terminal width or config)"`
	Color      string `default:"auto" enum:"auto,always,never" help:"Color text output (auto, always, never)"`
	Standalone bool   `help:"Wrap HTML output in a complete page"`
	Output     string `short:"o" help:"Write to this file instead of stdout"`
	Watch      bool   `help:"Re-render whenever the file changes"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	rt, err := root.setup(g)
	if err != nil {
		return err
	}
	renderer, err := r.renderer(g, rt)
	if err != nil {
		return err
	}

	if !r.Watch {
		name, data, err := readInput(g, r.File)
		if err != nil {
			return err
		}
		return r.renderOnce(g, rt.converter, renderer, name, data)
	}

	if r.File == "-" {
		return errors.ValidationError("--watch needs a file, not stdin").Build()
	}
	w, err := watch.New(r.File, func(_ context.Context, content []byte) error {
		return r.renderOnce(g, rt.converter, renderer, r.File, content)
	}, watch.WithLogger(rt.logger))
	if err != nil {
		return err
	}
	return w.Run(g.Ctx)
}

func (r *RenderCmd) renderer(g *Global, rt *runtime) (render.Renderer, error) {
	format := r.Format
	if format == "" {
		format = string(rt.cfg.Render.Format)
	}
	isTTY, termWidth := terminal(g.Stdout)
	if r.Output != "" {
		isTTY, termWidth = false, 0
	}
	width := r.Width
	if width <= 0 {
		width = termWidth
	}
	if width <= 0 {
		width = rt.cfg.Render.Width
	}

	renderer, err := render.ForFormat(format, width)
	if err != nil {
		return nil, err
	}
	switch v := renderer.(type) {
	case render.Text:
		v.Color = r.Color == "always" || (r.Color == "auto" && isTTY && os.Getenv("NO_COLOR") == "")
		return v, nil
	case render.HTML:
		v.Standalone = r.Standalone
		return v, nil
	}
	return renderer, nil
}

func (r *RenderCmd) renderOnce(g *Global, conv *convert.Converter, renderer render.Renderer, name string, data []byte) error {
	res, err := conv.Convert(g.Ctx, name, data)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, res.Document); err != nil {
		return err
	}
	if r.Output == "" {
		_, err := io.Copy(g.Stdout, &buf)
		return err
	}
	if err := os.WriteFile(r.Output, buf.Bytes(), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
			WithContext("path", r.Output).
			Build()
	}
	return nil
}
