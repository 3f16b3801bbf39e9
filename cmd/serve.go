package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/tempo/internal/server"
	"github.com/desertthunder/tempo/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API until SIGINT or SIGTERM.
//
// The demo catalog is seeded first when library.seed is set and the catalog is empty.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		if port < 0 || port > 65535 {
			return fmt.Errorf("%w: port %d out of range", shared.ErrInvalidFlag, port)
		}
		cfg.Port = port
	}

	lib, err := r.library()
	if err != nil {
		return err
	}

	if r.config.Library.Seed && !cmd.Bool("no-seed") {
		if err := r.seedIfEmpty(ctx); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := server.NewRouter(lib, server.RouterOpts{
		UserID:     r.userID(),
		Logger:     r.logger,
		CORSOrigin: cfg.CORSOrigin,
		RateLimit:  cfg.RateLimit,
		Burst:      cfg.Burst,
	})
	srv := server.NewServer(cfg.Addr(), router, r.logger)

	if cmd.Bool("open") {
		url := fmt.Sprintf("http://%s/api/songs", cfg.Addr())
		if err := shared.OpenBrowser(url); err != nil {
			if !errors.Is(err, shared.ErrNotImplemented) {
				return err
			}
			r.logger.Warn("cannot open a browser here", "url", url)
		}
	}

	return srv.Run(ctx)
}

// seedIfEmpty loads the configured seed catalog into an empty library and logs the progress.
func (r *Runner) seedIfEmpty(ctx context.Context) error {
	seed, err := r.seed()
	if err != nil {
		return err
	}
	engine, err := r.engine()
	if err != nil {
		return err
	}

	result, err := engine.SeedIfEmpty(ctx, seed, nil)
	if err != nil {
		return fmt.Errorf("failed to seed library: %w", err)
	}
	if result.Skipped {
		r.logger.Debug("library already populated, skipping seed")
		return nil
	}
	r.logger.Info("seeded library",
		"artists", result.Artists, "songs", result.Songs,
		"playlists", result.Playlists, "liked", result.Liked)
	return nil
}
