package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docshelf/cmd/docshelf/commands"
	derrors "git.home.luguber.info/inful/docshelf/internal/foundation/errors"
	"git.home.luguber.info/inful/docshelf/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("docshelf"),
		kong.Description("Publish and serve versioned documentation snapshots."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default(), Stdout: os.Stdout}, &cli)
	derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
