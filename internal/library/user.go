package library

import (
	"context"

	"github.com/desertthunder/tempo/internal/models"
)

// UserLibrary is a [Service] bound to the implicit user.
//
// It is what the playback session and the terminal player talk to when they
// run in-process.
type UserLibrary struct {
	svc    *Service
	userID int64
}

// UserID returns the bound user.
func (u *UserLibrary) UserID() int64 { return u.userID }

func (u *UserLibrary) Songs(ctx context.Context) ([]models.Song, error) {
	return u.svc.ListSongs(ctx)
}

func (u *UserLibrary) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	return u.svc.Search(ctx, query)
}

func (u *UserLibrary) Playlists(ctx context.Context) ([]models.Playlist, error) {
	return u.svc.ListPlaylists(ctx, u.userID)
}

func (u *UserLibrary) PlaylistSongs(ctx context.Context, playlistID int64) ([]models.Song, error) {
	return u.svc.PlaylistSongs(ctx, playlistID)
}

func (u *UserLibrary) LikedSongs(ctx context.Context) ([]models.Song, error) {
	return u.svc.LikedSongs(ctx, u.userID)
}

func (u *UserLibrary) ToggleLike(ctx context.Context, songID int64) (bool, error) {
	return u.svc.ToggleLike(ctx, u.userID, songID)
}

func (u *UserLibrary) AddSongToPlaylist(ctx context.Context, playlistID, songID int64) error {
	return u.svc.AddSongToPlaylist(ctx, playlistID, songID)
}

func (u *UserLibrary) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int64) error {
	return u.svc.RemoveSongFromPlaylist(ctx, playlistID, songID)
}

func (u *UserLibrary) CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	return u.svc.CreatePlaylist(ctx, models.PlaylistInput{Name: name, UserID: u.userID})
}
