package tasks

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
)

//go:embed seed.toml
var defaultSeed []byte

// Seed is a catalog described by name: songs reference artists by name,
// playlists and likes reference songs by title.
type Seed struct {
	Artists   []SeedArtist   `toml:"artists"`
	Songs     []SeedSong     `toml:"songs"`
	Playlists []SeedPlaylist `toml:"playlists"`
	Liked     []string       `toml:"liked"`
}

type SeedArtist struct {
	Name     string `toml:"name"`
	ImageURL string `toml:"image_url"`
}

// SeedSong is a catalog song. PrimaryArtist names the owning artist when
// Artist is a display string such as "The Weeknd, Daft Punk".
type SeedSong struct {
	Title         string `toml:"title"`
	Artist        string `toml:"artist"`
	PrimaryArtist string `toml:"primary_artist"`
	Album         string `toml:"album"`
	Duration      int    `toml:"duration"`
	URL           string `toml:"url"`
	ImageURL      string `toml:"image_url"`
}

func (s SeedSong) owner() string {
	if s.PrimaryArtist != "" {
		return s.PrimaryArtist
	}
	return s.Artist
}

type SeedPlaylist struct {
	Name     string   `toml:"name"`
	ImageURL string   `toml:"image_url"`
	Songs    []string `toml:"songs"`
}

// SeedResult counts what [Engine.Seed] created.
type SeedResult struct {
	Artists     int  `json:"artists"`
	Songs       int  `json:"songs"`
	Playlists   int  `json:"playlists"`
	Memberships int  `json:"memberships"`
	Liked       int  `json:"liked"`
	Skipped     bool `json:"skipped"`
}

// DefaultSeed returns the bundled demo catalog.
func DefaultSeed() (*Seed, error) {
	return parseSeed(defaultSeed)
}

// LoadSeed reads a seed file in the same TOML layout as the bundled one.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return parseSeed(data)
}

func parseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if _, err := toml.Decode(string(data), &seed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse seed: %v", shared.ErrInvalidConfig, err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// Validate checks that every name reference resolves and names are unique.
func (s *Seed) Validate() error {
	artists := make(map[string]bool, len(s.Artists))
	for _, a := range s.Artists {
		if a.Name == "" {
			return fmt.Errorf("%w: seed artist without a name", shared.ErrInvalidConfig)
		}
		if artists[a.Name] {
			return fmt.Errorf("%w: duplicate seed artist %q", shared.ErrInvalidConfig, a.Name)
		}
		artists[a.Name] = true
	}

	songs := make(map[string]bool, len(s.Songs))
	for _, song := range s.Songs {
		if songs[song.Title] {
			return fmt.Errorf("%w: duplicate seed song %q", shared.ErrInvalidConfig, song.Title)
		}
		if !artists[song.owner()] {
			return fmt.Errorf("%w: song %q references unknown artist %q", shared.ErrInvalidConfig, song.Title, song.owner())
		}
		songs[song.Title] = true
	}

	for _, p := range s.Playlists {
		for _, title := range p.Songs {
			if !songs[title] {
				return fmt.Errorf("%w: playlist %q references unknown song %q", shared.ErrInvalidConfig, p.Name, title)
			}
		}
	}
	for _, title := range s.Liked {
		if !songs[title] {
			return fmt.Errorf("%w: liked song %q is not in the seed", shared.ErrInvalidConfig, title)
		}
	}
	return nil
}

// SeedIfEmpty runs [Engine.Seed] only when the catalog has no songs.
func (e *Engine) SeedIfEmpty(ctx context.Context, seed *Seed, progress chan<- ProgressUpdate) (*SeedResult, error) {
	songs, err := e.lib.ListSongs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check catalog: %w", err)
	}
	if len(songs) > 0 {
		e.logger.Debug("catalog not empty, skipping seed", "songs", len(songs))
		return &SeedResult{Skipped: true}, nil
	}
	return e.Seed(ctx, seed, progress)
}

// Seed creates the artists, songs, playlists and likes in seed, in that order.
// It stops at the first failure; records created before it remain.
func (e *Engine) Seed(ctx context.Context, seed *Seed, progress chan<- ProgressUpdate) (*SeedResult, error) {
	if err := seed.Validate(); err != nil {
		return nil, err
	}

	result := &SeedResult{}
	artistIDs := make(map[string]int64, len(seed.Artists))
	songIDs := make(map[string]int64, len(seed.Songs))

	for i, a := range seed.Artists {
		artist, err := e.lib.CreateArtist(ctx, models.ArtistInput{Name: a.Name, ImageURL: a.ImageURL})
		if err != nil {
			return result, fmt.Errorf("failed to seed artist %q: %w", a.Name, err)
		}
		artistIDs[a.Name] = artist.ID
		result.Artists++
		e.sendProgress(progress, seedArtistUpdate(i+1, len(seed.Artists), artist))
	}

	for i, s := range seed.Songs {
		in := models.SongInput{
			Title:    s.Title,
			Artist:   s.Artist,
			ArtistID: artistIDs[s.owner()],
			Duration: s.Duration,
			URL:      s.URL,
			ImageURL: s.ImageURL,
		}
		if s.Album != "" {
			in.Album = models.StringPtr(s.Album)
		}

		song, err := e.lib.CreateSong(ctx, in)
		if err != nil {
			return result, fmt.Errorf("failed to seed song %q: %w", s.Title, err)
		}
		songIDs[s.Title] = song.ID
		result.Songs++
		e.sendProgress(progress, seedSongUpdate(i+1, len(seed.Songs), song))
	}

	for i, p := range seed.Playlists {
		in := models.PlaylistInput{Name: p.Name, UserID: e.userID}
		if p.ImageURL != "" {
			in.ImageURL = models.StringPtr(p.ImageURL)
		}

		playlist, err := e.lib.CreatePlaylist(ctx, in)
		if err != nil {
			return result, fmt.Errorf("failed to seed playlist %q: %w", p.Name, err)
		}
		result.Playlists++

		for _, title := range p.Songs {
			if err := e.lib.AddSongToPlaylist(ctx, playlist.ID, songIDs[title]); err != nil {
				return result, fmt.Errorf("failed to add %q to %q: %w", title, p.Name, err)
			}
			result.Memberships++
		}
		e.sendProgress(progress, seedPlaylistUpdate(i+1, len(seed.Playlists), playlist, len(p.Songs)))
	}

	for i, title := range seed.Liked {
		if err := e.lib.LikeSong(ctx, e.userID, songIDs[title]); err != nil {
			return result, fmt.Errorf("failed to like %q: %w", title, err)
		}
		result.Liked++
		e.sendProgress(progress, seedLikedUpdate(i+1, len(seed.Liked), title))
	}

	e.logger.Info("seeded catalog",
		"artists", result.Artists, "songs", result.Songs,
		"playlists", result.Playlists, "liked", result.Liked)
	return result, nil
}
