package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/tempo/internal/client"
	"github.com/desertthunder/tempo/internal/shared"
	"github.com/desertthunder/tempo/internal/ui"
	"github.com/urfave/cli/v3"
)

// Play launches the terminal player over the local library, or over a
// running server when --remote is set.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, f, err := shared.NewFileLogger(r.config.Player.LogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer f.Close()
	level, _ := shared.ParseLogLevel(r.config.Log.Level)
	shared.SetLogLevel(fileLogger, level)
	r.SetLogger(fileLogger)

	var lib ui.Library
	if remote := cmd.String("remote"); remote != "" {
		c := client.New(remote, r.httpClient)
		if err := c.Health(ctx); err != nil {
			return fmt.Errorf("server at %s is not reachable: %w", remote, err)
		}
		r.logger.Info("playing from remote library", "url", c.BaseURL())
		lib = c
	} else {
		local, err := r.library()
		if err != nil {
			return err
		}
		lib = local.ForUser(r.userID())
	}

	opts := ui.Opts{
		Logger:      r.logger,
		HistorySize: r.config.Player.HistorySize,
		Volume:      r.config.Player.Volume,
		Tick:        time.Duration(r.config.Player.TickMS) * time.Millisecond,
	}
	if err := ui.Run(ctx, lib, opts); err != nil {
		return fmt.Errorf("error running player: %w", err)
	}
	return nil
}
