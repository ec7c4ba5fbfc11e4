package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sphinxkit/cmd/sphinxkit/commands"
	derrors "git.home.luguber.info/inful/sphinxkit/internal/errors"
	"git.home.luguber.info/inful/sphinxkit/internal/version"
)

func main() {
	cli := commands.CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("sphinxkit"),
		kong.Description("Standardized Sphinx documentation building and serving for family packages"),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)

	g := &commands.Global{Logger: slog.Default()}
	if err := ctx.Run(g, &cli); err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(derrors.ExitCode(err))
	}
}
