package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/desertthunder/tempo/internal/formatter"
	"github.com/desertthunder/tempo/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExportPlaylist writes one playlist to disk.
func (r *Runner) ExportPlaylist(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID("playlist id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	format, dir, err := r.exportTarget(cmd)
	if err != nil {
		return err
	}
	engine, err := r.engine()
	if err != nil {
		return err
	}

	res, err := engine.ExportPlaylist(ctx, id, format, dir)
	if err != nil {
		return err
	}
	return r.writeExportResult(cmd, res)
}

// ExportLiked writes the liked songs to disk.
func (r *Runner) ExportLiked(ctx context.Context, cmd *cli.Command) error {
	format, dir, err := r.exportTarget(cmd)
	if err != nil {
		return err
	}
	engine, err := r.engine()
	if err != nil {
		return err
	}

	res, err := engine.ExportLiked(ctx, format, dir)
	if err != nil {
		return err
	}
	return r.writeExportResult(cmd, res)
}

// ExportAll exports every playlist and the liked songs, printing progress as it goes.
func (r *Runner) ExportAll(ctx context.Context, cmd *cli.Command) error {
	format, dir, err := r.exportTarget(cmd)
	if err != nil {
		return err
	}
	engine, err := r.engine()
	if err != nil {
		return err
	}

	opts := tasks.BulkExportOpts{
		Format:       format,
		OutputDir:    dir,
		NumWorkers:   r.config.Export.NumWorkers,
		RateLimit:    r.config.Export.RateLimit,
		IncludeLiked: !cmd.Bool("no-liked"),
	}
	if n := cmd.Int("workers"); n > 0 {
		opts.NumWorkers = n
	}
	if rate := cmd.Float("rate"); rate > 0 {
		opts.RateLimit = rate
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	quiet := cmd.Bool("json")
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug("export progress", "phase", update.Phase, "step", update.Step, "total", update.Total)
			if !quiet {
				r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	result, err := engine.BulkExport(ctx, progress, opts)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("bulk export failed: %w", err)
	}

	if quiet {
		return r.writeJSON(result, true)
	}

	r.writePlainHeader("Export complete")
	r.writePlain("Directory:  %s\n", result.OutputDirectory)
	r.writePlain("Exported:   %d/%d\n", result.SuccessfulExports, result.TotalPlaylists)
	for _, res := range result.Results {
		if !res.Success {
			r.writePlain("  ✗ %s: %s\n", res.PlaylistName, res.ErrorMessage)
		}
	}
	r.writePlain("Manifest:   %s\n", result.ManifestPath)
	return nil
}

// exportTarget resolves --format and --output against the export config.
func (r *Runner) exportTarget(cmd *cli.Command) (formatter.Format, string, error) {
	name := cmd.String("format")
	if name == "" {
		name = r.config.Export.Format
	}
	format, err := formatter.ParseFormat(name)
	if err != nil {
		return "", "", err
	}

	dir := cmd.String("output")
	if dir == "" {
		dir = r.config.Export.OutputDir
	}
	return format, dir, nil
}

func (r *Runner) writeExportResult(cmd *cli.Command, res *tasks.PlaylistExportResult) error {
	if cmd.Bool("json") {
		return r.writeJSON(res, true)
	}

	r.writePlain("✓ Exported %s\n", res.PlaylistName)
	for _, f := range res.Files {
		r.writePlain("  %s\n", f)
	}
	for _, w := range res.Warnings {
		r.writePlain("  ! %s\n", w)
	}
	return nil
}
