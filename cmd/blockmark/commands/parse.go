package commands

import (
	"git.home.luguber.info/inful/blockmark/internal/render"
)

// ParseCmd implements the 'parse' command.
type ParseCmd struct {
	Files   []string `arg:"" name:"file" help:"Documents to parse (- reads stdin)"`
	Compact bool     `help:"Print one document per line instead of indented JSON"`
}

func (p *ParseCmd) Run(g *Global, root *CLI) error {
	rt, err := root.setup(g)
	if err != nil {
		return err
	}
	out := render.JSON{Indent: "  "}
	if p.Compact {
		out.Indent = ""
	}
	for _, file := range p.Files {
		name, data, err := readInput(g, file)
		if err != nil {
			return err
		}
		res, err := rt.converter.Convert(g.Ctx, name, data)
		if err != nil {
			return err
		}
		if err := out.Render(g.Stdout, res.Document); err != nil {
			return err
		}
	}
	return nil
}
