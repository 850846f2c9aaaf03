package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v3"
)

// NewApp builds the root command. Without a subcommand it serves.
func NewApp(static fs.FS, version string) *cli.Command {
	flags := &Flags{}

	app := &cli.Command{
		Name:      "checklist",
		Usage:     "Track DevOps checklists step by step",
		UsageText: "checklist [global options] [command [command options]]",
		Description: `Runs an HTTP server holding tasks made of ordered steps, with a JSON API
and a small web frontend. Data lives in memory for the life of the process.

Run 'checklist' to start the server, 'checklist ls' or 'checklist stats' to
inspect a running one.`,
		Version: version,
		Writer:  os.Stdout,
	}

	app = flags.Register(app)

	serve := NewServeCmd(flags, static)
	app = serve.Register(app)
	app = NewLsCmd().Register(app)
	app = NewStatsCmd().Register(app)

	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'checklist --help' for usage", c.Args().First())
		}
		return serve.Run(ctx, c)
	}

	return app
}
