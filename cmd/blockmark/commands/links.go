package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"git.home.luguber.info/inful/blockmark/internal/ast"
	"git.home.luguber.info/inful/blockmark/internal/server/responses"
)

// LinksCmd implements the 'links' command.
type LinksCmd struct {
	File   string `arg:"" help:"Document to scan (- reads stdin)"`
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

func (l *LinksCmd) Run(g *Global, root *CLI) error {
	rt, err := root.setup(g)
	if err != nil {
		return err
	}
	name, data, err := readInput(g, l.File)
	if err != nil {
		return err
	}
	res, err := rt.converter.Convert(g.Ctx, name, data)
	if err != nil {
		return err
	}

	out := responses.LinksResponse{Fingerprint: res.Fingerprint, Links: []responses.LinkInfo{}}
	for _, link := range ast.Links(res.Document) {
		out.Links = append(out.Links, responses.LinkInfo{URL: link.URL, Label: ast.LinkText(link)})
	}

	if l.Format == "json" {
		enc := json.NewEncoder(g.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	for _, link := range out.Links {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", link.URL, link.Label)
	}
	return tw.Flush()
}
