package library

import (
	"context"
	"database/sql"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/repositories"
	"github.com/desertthunder/tempo/internal/shared"
)

// SongStore is the catalog's song side.
type SongStore interface {
	Create(ctx context.Context, in models.SongInput) (*models.Song, error)
	Get(ctx context.Context, id int64) (*models.Song, error)
	List(ctx context.Context) ([]models.Song, error)
	ListByArtist(ctx context.Context, artistID int64) ([]models.Song, error)
}

// ArtistStore is the catalog's artist side.
type ArtistStore interface {
	Create(ctx context.Context, in models.ArtistInput) (*models.Artist, error)
	Get(ctx context.Context, id int64) (*models.Artist, error)
	List(ctx context.Context) ([]models.Artist, error)
}

// PlaylistStore holds playlists and their ordered membership.
type PlaylistStore interface {
	Create(ctx context.Context, in models.PlaylistInput, seedSongIDs ...int64) (*models.Playlist, error)
	Get(ctx context.Context, id int64) (*models.Playlist, error)
	List(ctx context.Context, userID int64) ([]models.Playlist, error)
	Delete(ctx context.Context, id int64) error
	AddSong(ctx context.Context, playlistID, songID int64) (bool, error)
	RemoveSong(ctx context.Context, playlistID, songID int64) (bool, error)
	Reorder(ctx context.Context, playlistID int64, songIDs []int64) ([]int64, error)
	Songs(ctx context.Context, playlistID int64) ([]models.Song, error)
}

// LikedStore holds each user's liked songs.
type LikedStore interface {
	IsLiked(ctx context.Context, userID, songID int64) (bool, error)
	Add(ctx context.Context, userID, songID int64) (bool, error)
	Remove(ctx context.Context, userID, songID int64) (bool, error)
	Toggle(ctx context.Context, userID, songID int64) (bool, error)
	List(ctx context.Context, userID int64) ([]models.Song, error)
}

// ServiceOpts configures a [Service]. A nil Logger writes to stderr.
type ServiceOpts struct {
	Songs     SongStore
	Artists   ArtistStore
	Playlists PlaylistStore
	Liked     LikedStore
	Logger    *log.Logger
}

// Service is the library facade.
type Service struct {
	songs     SongStore
	artists   ArtistStore
	playlists PlaylistStore
	liked     LikedStore
	logger    *log.Logger
}

// NewService creates a Service over explicit stores.
func NewService(opts ServiceOpts) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Service{
		songs:     opts.Songs,
		artists:   opts.Artists,
		playlists: opts.Playlists,
		liked:     opts.Liked,
		logger:    shared.WithLogger(logger, "component", "library"),
	}
}

// New creates a Service backed by the SQLite repositories on db.
func New(db *sql.DB, logger *log.Logger) *Service {
	return NewService(ServiceOpts{
		Songs:     repositories.NewSongRepository(db),
		Artists:   repositories.NewArtistRepository(db),
		Playlists: repositories.NewPlaylistRepository(db),
		Liked:     repositories.NewLikedSongRepository(db),
		Logger:    logger,
	})
}

// CreateSong adds a song to the catalog.
func (s *Service) CreateSong(ctx context.Context, in models.SongInput) (*models.Song, error) {
	song, err := s.songs.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("created song", "id", song.ID, "title", song.Title)
	return song, nil
}

// GetSong looks up a song by id.
func (s *Service) GetSong(ctx context.Context, id int64) (*models.Song, error) {
	return s.songs.Get(ctx, id)
}

// ListSongs returns the catalog in creation order.
func (s *Service) ListSongs(ctx context.Context) ([]models.Song, error) {
	return s.songs.List(ctx)
}

// CreateArtist adds an artist to the catalog.
func (s *Service) CreateArtist(ctx context.Context, in models.ArtistInput) (*models.Artist, error) {
	artist, err := s.artists.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("created artist", "id", artist.ID, "name", artist.Name)
	return artist, nil
}

// GetArtist looks up an artist by id.
func (s *Service) GetArtist(ctx context.Context, id int64) (*models.Artist, error) {
	return s.artists.Get(ctx, id)
}

// ListArtists returns every artist in creation order.
func (s *Service) ListArtists(ctx context.Context) ([]models.Artist, error) {
	return s.artists.List(ctx)
}

// ArtistSongs returns the songs credited to an existing artist.
func (s *Service) ArtistSongs(ctx context.Context, artistID int64) ([]models.Song, error) {
	if _, err := s.artists.Get(ctx, artistID); err != nil {
		return nil, err
	}
	return s.songs.ListByArtist(ctx, artistID)
}

// ListPlaylists returns the user's playlists with their songs.
func (s *Service) ListPlaylists(ctx context.Context, userID int64) ([]models.Playlist, error) {
	return s.playlists.List(ctx, userID)
}

// GetPlaylist returns a playlist with its resolved songs.
func (s *Service) GetPlaylist(ctx context.Context, id int64) (*models.Playlist, error) {
	return s.playlists.Get(ctx, id)
}

// CreatePlaylist stores an empty playlist.
func (s *Service) CreatePlaylist(ctx context.Context, in models.PlaylistInput) (*models.Playlist, error) {
	playlist, err := s.playlists.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("created playlist", "id", playlist.ID, "name", playlist.Name, "user", playlist.UserID)
	return playlist, nil
}

// CreatePlaylistWithSeedSong creates a playlist and optionally attaches songID.
//
// The song is checked before anything is written and the playlist and its
// membership commit together. On any error no playlist exists afterwards.
func (s *Service) CreatePlaylistWithSeedSong(ctx context.Context, in models.PlaylistInput, songID *int64) (*models.Playlist, error) {
	if songID == nil {
		return s.CreatePlaylist(ctx, in)
	}

	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.songs.Get(ctx, *songID); err != nil {
		return nil, err
	}

	playlist, err := s.playlists.Create(ctx, in, *songID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("created playlist", "id", playlist.ID, "name", playlist.Name, "seed", *songID)
	return playlist, nil
}

// DeletePlaylist removes a playlist and its membership.
func (s *Service) DeletePlaylist(ctx context.Context, id int64) error {
	if err := s.playlists.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted playlist", "id", id)
	return nil
}

// AddSongToPlaylist appends an existing song. Adding a member again is a no-op.
func (s *Service) AddSongToPlaylist(ctx context.Context, playlistID, songID int64) error {
	if _, err := s.songs.Get(ctx, songID); err != nil {
		return err
	}

	added, err := s.playlists.AddSong(ctx, playlistID, songID)
	if err != nil {
		return err
	}
	s.logger.Debug("add playlist song", "playlist", playlistID, "song", songID, "added", added)
	return nil
}

// RemoveSongFromPlaylist drops a song. Removing a non-member is a no-op.
func (s *Service) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int64) error {
	removed, err := s.playlists.RemoveSong(ctx, playlistID, songID)
	if err != nil {
		return err
	}
	s.logger.Debug("remove playlist song", "playlist", playlistID, "song", songID, "removed", removed)
	return nil
}

// ReorderPlaylist applies songIDs as the leading order and returns the updated playlist.
func (s *Service) ReorderPlaylist(ctx context.Context, playlistID int64, songIDs []int64) (*models.Playlist, error) {
	if _, err := s.playlists.Reorder(ctx, playlistID, songIDs); err != nil {
		return nil, err
	}
	return s.playlists.Get(ctx, playlistID)
}

// PlaylistSongs returns a playlist's songs in order.
func (s *Service) PlaylistSongs(ctx context.Context, playlistID int64) ([]models.Song, error) {
	return s.playlists.Songs(ctx, playlistID)
}

// LikedSongs returns the user's liked songs, oldest like first.
func (s *Service) LikedSongs(ctx context.Context, userID int64) ([]models.Song, error) {
	return s.liked.List(ctx, userID)
}

// IsLiked reports whether the user likes songID.
func (s *Service) IsLiked(ctx context.Context, userID, songID int64) (bool, error) {
	return s.liked.IsLiked(ctx, userID, songID)
}

// LikeSong likes an existing song. Liking twice is a no-op.
func (s *Service) LikeSong(ctx context.Context, userID, songID int64) error {
	if _, err := s.songs.Get(ctx, songID); err != nil {
		return err
	}
	_, err := s.liked.Add(ctx, userID, songID)
	return err
}

// UnlikeSong removes a like. Unknown songs and songs that are not liked are no-ops.
func (s *Service) UnlikeSong(ctx context.Context, userID, songID int64) error {
	_, err := s.liked.Remove(ctx, userID, songID)
	return err
}

// ToggleLike flips the like on songID and returns the new state.
//
// The flip itself is one atomic store operation. A song missing from the
// catalog can still be toggled off, which clears a stale like, but never on.
func (s *Service) ToggleLike(ctx context.Context, userID, songID int64) (bool, error) {
	if _, err := s.songs.Get(ctx, songID); err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return false, err
		}
		removed, rerr := s.liked.Remove(ctx, userID, songID)
		if rerr != nil {
			return false, rerr
		}
		if removed {
			return false, nil
		}
		return false, err
	}

	liked, err := s.liked.Toggle(ctx, userID, songID)
	if err != nil {
		return false, err
	}
	s.logger.Debug("toggled like", "user", userID, "song", songID, "liked", liked)
	return liked, nil
}

// ForUser binds the service to one user.
func (s *Service) ForUser(userID int64) *UserLibrary {
	return &UserLibrary{svc: s, userID: userID}
}
