package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"checklist/internal/client"
)

const defaultServerURL = "http://localhost:3000"

func serverURLFlag(dest *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "url",
		Usage:       "base URL of a running checklist server",
		Sources:     cli.EnvVars("CHECKLIST_URL"),
		Value:       defaultServerURL,
		Destination: dest,
	}
}

type LsCmd struct {
	url        string
	verbose    bool
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd() *LsCmd {
	return &LsCmd{}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List the tasks of a running server",
		UsageText: "checklist ls [--url URL] [--steps] [--json]",
		Flags: []cli.Flag{
			serverURLFlag(&cmd.url),
			&cli.BoolFlag{
				Name:        "steps",
				Aliases:     []string{"s"},
				Usage:       "show every step",
				Destination: &cmd.verbose,
			},
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

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	tasks, err := client.New(cmd.url).ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	if cmd.jsonOutput {
		enc := json.NewEncoder(c.Root().Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found")
		return nil
	}

	return client.RenderTasks(c.Root().Writer, tasks, cmd.verbose)
}
