package commands

import (
	"strings"

	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Paths  []string `arg:"" optional:"" name:"path" help:"Files or directories to lint (default .)"`
	Format string   `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet  bool     `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
}

func (l *LintCmd) Run(g *Global, root *CLI) error {
	rt, err := root.setup(g)
	if err != nil {
		return err
	}
	paths := l.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}

	linter := lint.NewLinter(&lint.Config{Quiet: l.Quiet, Format: l.Format}, rt.converter.Parser())
	result := &lint.Result{}
	for _, path := range paths {
		r, err := linter.LintPath(path)
		if err != nil {
			return err
		}
		result.Issues = append(result.Issues, r.Issues...)
		result.FilesTotal += r.FilesTotal
	}

	if err := lint.NewFormatter(l.Format).Format(g.Stdout, result, strings.Join(paths, ", ")); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "formatting lint output").Build()
	}
	if result.HasErrors() {
		return errors.ValidationError("lint found errors").
			WithContext("errors", result.ErrorCount()).
			Build()
	}
	return nil
}
