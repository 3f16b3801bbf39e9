package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/desertthunder/tempo/internal/formatter"
	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
	"golang.org/x/time/rate"
)

// ManifestFile is written to the output directory of every bulk export.
const ManifestFile = "export_manifest.json"

// PlaylistExportResult describes the export of one playlist.
type PlaylistExportResult struct {
	PlaylistID   string   `json:"playlistId"`
	PlaylistName string   `json:"playlistName"`
	Success      bool     `json:"success"`
	Files        []string `json:"files,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
	ErrorMessage string   `json:"error,omitempty"`
	Error        error    `json:"-"`
}

func (r *PlaylistExportResult) fail(err error) {
	r.Success = false
	r.Error = err
	r.ErrorMessage = err.Error()
}

// BulkExportResult summarizes a bulk export and is written as the manifest.
type BulkExportResult struct {
	Format            formatter.Format       `json:"format"`
	OutputDirectory   string                 `json:"outputDirectory"`
	ExportedAt        time.Time              `json:"exportedAt"`
	TotalPlaylists    int                    `json:"totalPlaylists"`
	SuccessfulExports int                    `json:"successfulExports"`
	FailedExports     int                    `json:"failedExports"`
	Results           []PlaylistExportResult `json:"results"`
	ManifestPath      string                 `json:"-"`
}

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format       formatter.Format // csv, markdown, txt or json (default)
	OutputDir    string           // default: tempo_export_{epoch}
	NumWorkers   int              // concurrent writers, 1 to 10 (default 5)
	RateLimit    float64          // playlist fetches per second (default 10)
	IncludeLiked bool             // also export the liked-songs collection
}

// exportJob is one collection to render. index keeps manifest order stable.
type exportJob struct {
	index  int
	export *formatter.Export
}

type indexedResult struct {
	index int
	PlaylistExportResult
}

// ExportPlaylist writes one playlist in format under dir.
func (e *Engine) ExportPlaylist(ctx context.Context, playlistID int64, format formatter.Format, dir string) (*PlaylistExportResult, error) {
	playlist, err := e.lib.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	res := e.exportOne(ctx, formatter.FromPlaylist(*playlist), format, dir)
	if res.Error != nil {
		return &res, res.Error
	}
	return &res, nil
}

// ExportLiked writes the liked-songs collection in format under dir.
func (e *Engine) ExportLiked(ctx context.Context, format formatter.Format, dir string) (*PlaylistExportResult, error) {
	songs, err := e.lib.LikedSongs(ctx, e.userID)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	res := e.exportOne(ctx, formatter.FromLiked(models.NewLikedCollection(songs)), format, dir)
	if res.Error != nil {
		return &res, res.Error
	}
	return &res, nil
}

// BulkExport exports every playlist of the user, and optionally the liked
// songs, with a pool of writers. Playlist fetches are paced by a rate
// limiter. A failure on one playlist is recorded in its result and does not
// stop the others. The manifest is written last.
func (e *Engine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.JSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("tempo_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}

	playlists, err := e.lib.ListPlaylists(ctx, e.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	e.sendProgress(prog, fetchPlaylistsUpdate(len(playlists)))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(playlists)
	if opts.IncludeLiked {
		total++
	}

	result := &BulkExportResult{
		Format:          opts.Format,
		OutputDirectory: opts.OutputDir,
		ExportedAt:      time.Now().UTC(),
		TotalPlaylists:  total,
		Results:         make([]PlaylistExportResult, 0, total),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, total)
	results := make(chan indexedResult, total)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)

		for i, p := range playlists {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			playlist, err := e.lib.GetPlaylist(ctx, p.ID)
			if err != nil {
				res := indexedResult{index: i}
				res.PlaylistID = strconv.FormatInt(p.ID, 10)
				res.PlaylistName = p.Name
				res.fail(fmt.Errorf("failed to fetch playlist: %w", err))
				results <- res
				continue
			}

			jobs <- exportJob{index: i, export: formatter.FromPlaylist(*playlist)}
			e.sendProgress(prog, exportingPlaylistUpdate(i+1, total, playlist.Name))
		}

		if opts.IncludeLiked {
			songs, err := e.lib.LikedSongs(ctx, e.userID)
			if err != nil {
				res := indexedResult{index: len(playlists)}
				res.PlaylistID = models.LikedCollectionID
				res.PlaylistName = models.LikedCollectionName
				res.fail(fmt.Errorf("failed to fetch liked songs: %w", err))
				results <- res
				return
			}
			jobs <- exportJob{index: len(playlists), export: formatter.FromLiked(models.NewLikedCollection(songs))}
			e.sendProgress(prog, exportingPlaylistUpdate(total, total, models.LikedCollectionName))
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]indexedResult, 0, total)
	for res := range results {
		collected = append(collected, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(len(collected), total, res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(len(collected), total, res.PlaylistName, res.Error))
		}
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })
	for _, res := range collected {
		result.Results = append(result.Results, res.PlaylistExportResult)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestFile)
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	e.logger.Info("bulk export finished",
		"dir", opts.OutputDir, "format", opts.Format,
		"ok", result.SuccessfulExports, "failed", result.FailedExports)
	return result, nil
}

// exportWorker renders jobs until the channel closes or ctx is cancelled.
func (e *Engine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- indexedResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- indexedResult{index: job.index, PlaylistExportResult: e.exportOne(ctx, job.export, opts.Format, opts.OutputDir)}
	}
}

// exportOne writes a single collection and reports the outcome.
func (e *Engine) exportOne(ctx context.Context, export *formatter.Export, format formatter.Format, dir string) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID:   export.ID,
		PlaylistName: export.Name,
		Files:        []string{},
	}

	if format == formatter.Markdown {
		md, err := formatter.WriteMarkdownExport(ctx, export, filepath.Join(dir, export.BaseName()), formatter.MarkdownOpts{Client: e.httpClient})
		if err != nil {
			result.fail(fmt.Errorf("markdown export failed: %w", err))
			return result
		}
		for _, w := range md.Warnings {
			e.logger.Warn("markdown export", "playlist", export.Name, "warning", w)
		}
		result.Files = md.Files
		result.Warnings = md.Warnings
		result.Success = true
		return result
	}

	files, err := formatter.Write(ctx, export, format, dir, formatter.MarkdownOpts{Client: e.httpClient})
	if err != nil {
		result.fail(fmt.Errorf("%s export failed: %w", format, err))
		return result
	}
	result.Files = files
	result.Success = true
	return result
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
