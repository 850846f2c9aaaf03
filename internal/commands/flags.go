package commands

import (
	"github.com/urfave/cli/v3"

	"checklist/internal/config"
)

// Flags holds the values of the root command's flags. They override the
// config file only when set on the command line or through the environment.
type Flags struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string

	Port      int
	Store     string
	Seed      bool
	Strict    bool
	StaticDir string
}

// Register adds the global flags to the root command.
func (f *Flags) Register(app *cli.Command) *cli.Command {
	defaults := config.DefaultConfig()

	app.Flags = append(app.Flags,
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "path to a YAML or TOML config file",
			Sources:     cli.EnvVars("CHECKLIST_CONFIG"),
			Destination: &f.ConfigPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error, fatal, panic)",
			Sources:     cli.EnvVars("LOG_LEVEL"),
			Value:       defaults.LogLevel,
			Destination: &f.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (auto, json, console)",
			Sources:     cli.EnvVars("LOG_FORMAT"),
			Value:       defaults.LogFormat,
			Destination: &f.LogFormat,
		},
		&cli.IntFlag{
			Name:        "port",
			Aliases:     []string{"p"},
			Usage:       "port to listen on",
			Sources:     cli.EnvVars("PORT"),
			Value:       defaults.Port,
			Destination: &f.Port,
		},
		&cli.StringFlag{
			Name:        "store",
			Usage:       "task store backend (memory, sqlite); both are discarded on exit",
			Sources:     cli.EnvVars("CHECKLIST_STORE"),
			Value:       defaults.Store,
			Destination: &f.Store,
		},
		&cli.BoolFlag{
			Name:        "seed",
			Usage:       "load the sample checklists at start",
			Sources:     cli.EnvVars("CHECKLIST_SEED"),
			Value:       defaults.Seed,
			Destination: &f.Seed,
		},
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "reject tasks and steps with blank fields",
			Sources:     cli.EnvVars("CHECKLIST_STRICT"),
			Destination: &f.Strict,
		},
		&cli.StringFlag{
			Name:        "static-dir",
			Usage:       "serve the frontend from this directory instead of the built-in copy",
			Sources:     cli.EnvVars("CHECKLIST_STATIC_DIR"),
			Destination: &f.StaticDir,
		},
	)

	return app
}

// Apply copies the explicitly set flags over cfg.
func (f *Flags) Apply(c *cli.Command, cfg *config.Config) {
	if c.IsSet("log-level") {
		cfg.LogLevel = f.LogLevel
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = f.LogFormat
	}
	if c.IsSet("port") {
		cfg.Port = f.Port
	}
	if c.IsSet("store") {
		cfg.Store = f.Store
	}
	if c.IsSet("seed") {
		cfg.Seed = f.Seed
	}
	if c.IsSet("strict") {
		cfg.Strict = f.Strict
	}
	if c.IsSet("static-dir") {
		cfg.StaticDir = f.StaticDir
	}
}
