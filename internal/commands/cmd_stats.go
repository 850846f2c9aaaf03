package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"checklist/internal/client"
)

type StatsCmd struct {
	url        string
	jsonOutput bool
}

// NewStatsCmd creates a new stats command
func NewStatsCmd() *StatsCmd {
	return &StatsCmd{}
}

// Register adds the stats command to the application
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "stats",
		Usage:     "Show the completion statistics of a running server",
		UsageText: "checklist stats [--url URL] [--json]",
		Flags: []cli.Flag{
			serverURLFlag(&cmd.url),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the raw JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *StatsCmd) run(ctx context.Context, c *cli.Command) error {
	stats, err := client.New(cmd.url).Stats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	if cmd.jsonOutput {
		return json.NewEncoder(c.Root().Writer).Encode(stats)
	}
	return client.RenderStats(c.Root().Writer, stats)
}
