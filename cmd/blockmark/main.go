package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blockmark/cmd/blockmark/commands"
	"git.home.luguber.info/inful/blockmark/internal/foundation/errors"
	"git.home.luguber.info/inful/blockmark/internal/version"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cli commands.CLI
	global := commands.NewGlobal(ctx, os.Stdin, os.Stdout, os.Stderr)
	kctx := kong.Parse(&cli,
		kong.Name("blockmark"),
		kong.Description("Parse, render and lint constrained Markdown."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	if err := kctx.Run(&cli); err != nil {
		cancel()
		os.Exit(errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(os.Stderr, err))
	}
}
