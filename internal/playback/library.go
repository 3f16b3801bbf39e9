package playback

import (
	"context"
	"fmt"

	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
)

// ErrNoLibrary is returned by library-backed actions on a session created without a [Library].
var ErrNoLibrary = fmt.Errorf("%w: session has no library", shared.ErrServiceUnavailable)

// Library is what a session needs from the library service, already bound to a user.
type Library interface {
	Playlists(ctx context.Context) ([]models.Playlist, error)
	LikedSongs(ctx context.Context) ([]models.Song, error)
	ToggleLike(ctx context.Context, songID int64) (bool, error)
	AddSongToPlaylist(ctx context.Context, playlistID, songID int64) error
	RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int64) error
	CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error)
}

// Load replaces the session's view of playlists and likes with a fresh snapshot.
func (s *Session) Load(ctx context.Context) error {
	if s.lib == nil {
		return ErrNoLibrary
	}

	playlists, err := s.lib.Playlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to load playlists: %w", err)
	}

	liked, err := s.lib.LikedSongs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load liked songs: %w", err)
	}

	s.playlists = playlists
	s.liked = make(map[int64]bool, len(liked))
	for _, song := range liked {
		s.liked[song.ID] = true
	}
	s.logger.Debug("loaded library", "playlists", len(playlists), "liked", len(liked))
	return nil
}

// Playlists returns the session's view of the user's playlists.
func (s *Session) Playlists() []models.Playlist {
	out := make([]models.Playlist, len(s.playlists))
	for i, p := range s.playlists {
		p.Songs = append([]models.Song{}, p.Songs...)
		out[i] = p
	}
	return out
}

// Playlist returns one playlist from the session's view.
func (s *Session) Playlist(id int64) (models.Playlist, bool) {
	if i := s.playlistIndex(id); i >= 0 {
		p := s.playlists[i]
		p.Songs = append([]models.Song{}, p.Songs...)
		return p, true
	}
	return models.Playlist{}, false
}

// IsLiked reports the session's view of a like.
func (s *Session) IsLiked(songID int64) bool {
	return s.liked[songID]
}

// ToggleLike flips the like locally, then in the library. On failure the
// local flip is undone and the error returned.
func (s *Session) ToggleLike(ctx context.Context, songID int64) (bool, error) {
	if s.lib == nil {
		return s.liked[songID], ErrNoLibrary
	}

	before := s.liked[songID]
	s.setLiked(songID, !before)

	liked, err := s.lib.ToggleLike(ctx, songID)
	if err != nil {
		s.setLiked(songID, before)
		s.logger.Error("failed to toggle like", "song", songID, "err", err)
		return before, err
	}

	s.setLiked(songID, liked)
	return liked, nil
}

// AddToPlaylist appends song to a playlist locally, then in the library.
// Adding a member again is a no-op.
func (s *Session) AddToPlaylist(ctx context.Context, playlistID int64, song models.Song) error {
	if s.lib == nil {
		return ErrNoLibrary
	}

	i := s.playlistIndex(playlistID)
	if i < 0 {
		return fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, playlistID)
	}

	before := s.playlists[i].Songs
	if !containsSong(before, song.ID) {
		s.playlists[i].Songs = append(append([]models.Song{}, before...), song)
	}

	if err := s.lib.AddSongToPlaylist(ctx, playlistID, song.ID); err != nil {
		s.restoreSongs(playlistID, before)
		s.logger.Error("failed to add song to playlist", "playlist", playlistID, "song", song.ID, "err", err)
		return err
	}
	return nil
}

// RemoveFromPlaylist drops a song from a playlist locally, then in the library.
func (s *Session) RemoveFromPlaylist(ctx context.Context, playlistID, songID int64) error {
	if s.lib == nil {
		return ErrNoLibrary
	}

	i := s.playlistIndex(playlistID)
	if i < 0 {
		return fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, playlistID)
	}

	before := s.playlists[i].Songs
	kept := make([]models.Song, 0, len(before))
	for _, song := range before {
		if song.ID != songID {
			kept = append(kept, song)
		}
	}
	s.playlists[i].Songs = kept

	if err := s.lib.RemoveSongFromPlaylist(ctx, playlistID, songID); err != nil {
		s.restoreSongs(playlistID, before)
		s.logger.Error("failed to remove song from playlist", "playlist", playlistID, "song", songID, "err", err)
		return err
	}
	return nil
}

// CreatePlaylist shows a placeholder playlist right away and replaces it with
// the stored one, or drops it if the library refuses.
func (s *Session) CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	if s.lib == nil {
		return nil, ErrNoLibrary
	}

	s.nextTemp--
	tempID := s.nextTemp
	s.playlists = append(s.playlists, models.Playlist{ID: tempID, Name: name, Songs: []models.Song{}})

	created, err := s.lib.CreatePlaylist(ctx, name)
	i := s.playlistIndex(tempID)
	if err != nil {
		if i >= 0 {
			s.playlists = append(s.playlists[:i], s.playlists[i+1:]...)
		}
		s.logger.Error("failed to create playlist", "name", name, "err", err)
		return nil, err
	}

	if i >= 0 {
		s.playlists[i] = *created
		if s.playlists[i].Songs == nil {
			s.playlists[i].Songs = []models.Song{}
		}
	}
	return created, nil
}

func (s *Session) setLiked(songID int64, liked bool) {
	if liked {
		s.liked[songID] = true
		return
	}
	delete(s.liked, songID)
}

func (s *Session) playlistIndex(id int64) int {
	for i := range s.playlists {
		if s.playlists[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) restoreSongs(playlistID int64, songs []models.Song) {
	if i := s.playlistIndex(playlistID); i >= 0 {
		s.playlists[i].Songs = songs
	}
}

func containsSong(songs []models.Song, id int64) bool {
	for _, song := range songs {
		if song.ID == id {
			return true
		}
	}
	return false
}
