// package tasks implements long-running library operations: catalog seeding and playlist export.
package tasks

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
)

// Library is the part of the library service the engine drives.
type Library interface {
	ListSongs(ctx context.Context) ([]models.Song, error)
	CreateArtist(ctx context.Context, in models.ArtistInput) (*models.Artist, error)
	CreateSong(ctx context.Context, in models.SongInput) (*models.Song, error)
	CreatePlaylist(ctx context.Context, in models.PlaylistInput) (*models.Playlist, error)
	AddSongToPlaylist(ctx context.Context, playlistID, songID int64) error
	LikeSong(ctx context.Context, userID, songID int64) error
	ListPlaylists(ctx context.Context, userID int64) ([]models.Playlist, error)
	GetPlaylist(ctx context.Context, id int64) (*models.Playlist, error)
	LikedSongs(ctx context.Context, userID int64) ([]models.Song, error)
}

// EngineOpts configures [NewEngine]. Zero values get defaults.
type EngineOpts struct {
	UserID     int64
	Logger     *log.Logger
	HTTPClient *http.Client // used for Markdown cover downloads
}

// Engine runs seeding and export against a [Library] for one user.
type Engine struct {
	lib        Library
	userID     int64
	logger     *log.Logger
	httpClient *http.Client
}

// NewEngine creates an Engine.
func NewEngine(lib Library, opts EngineOpts) *Engine {
	if opts.UserID <= 0 {
		opts.UserID = 1
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Engine{
		lib:        lib,
		userID:     opts.UserID,
		logger:     opts.Logger,
		httpClient: opts.HTTPClient,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
