package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"checklist/internal/config"
	"checklist/internal/handlers"
	"checklist/internal/logutils"
	"checklist/internal/models"
	"checklist/internal/store"
)

const shutdownTimeout = 10 * time.Second

type ServeCmd struct {
	flags  *Flags
	static fs.FS
}

// NewServeCmd creates the serve command. static is the built-in frontend.
func NewServeCmd(flags *Flags, static fs.FS) *ServeCmd {
	return &ServeCmd{flags: flags, static: static}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "serve",
		Usage: "Run the checklist API server",
		Description: `Serves the JSON API under /api and the frontend at /.

Tasks live in memory and are discarded when the server stops. This is also
the default when no command is given.`,
		Action: cmd.Run,
	})

	return app
}

// Run loads the configuration and serves until ctx is cancelled.
func (cmd *ServeCmd) Run(ctx context.Context, c *cli.Command) error {
	cfg, err := config.Load(cmd.flags.ConfigPath)
	if err != nil {
		return err
	}
	cmd.flags.Apply(c, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logutils.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	log.Logger = logger

	var seed []models.Task
	if cfg.Seed {
		seed = store.DefaultSeed()
	}

	s, err := store.New(cfg.Store, seed)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer s.Close()

	static := cmd.static
	if cfg.StaticDir != "" {
		static = os.DirFS(cfg.StaticDir)
	}

	h := handlers.New(s, handlers.Options{
		Static: static,
		Strict: cfg.Strict,
		Logger: &logger,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	log.Info().
		Str("addr", cfg.Addr()).
		Str("store", cfg.Store).
		Bool("seed", cfg.Seed).
		Bool("strict", cfg.Strict).
		Msgf("DevOps Checklist Tracker running on http://localhost:%d", cfg.Port)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
