// package models defines the catalog, playlist and liked-song entities
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tempo/internal/shared"
)

// LikedCollectionID and LikedCollectionName identify the virtual liked-songs playlist.
const (
	LikedCollectionID   = "liked"
	LikedCollectionName = "Liked Songs"
)

// Song is a catalog track. Album is nil when the song has none.
//
// DurationFormatted is derived from Duration whenever a song is encoded.
type Song struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	ArtistID  int64     `json:"artistId"`
	Album     *string   `json:"album"`
	Duration  int       `json:"duration"`
	URL       string    `json:"url"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// DurationFormatted renders Duration as m:ss.
func (s Song) DurationFormatted() string {
	return shared.FormatDuration(s.Duration)
}

// AlbumName returns the album or "" when absent.
func (s Song) AlbumName() string {
	if s.Album == nil {
		return ""
	}
	return *s.Album
}

// MarshalJSON adds durationFormatted to the encoded song.
func (s Song) MarshalJSON() ([]byte, error) {
	type song Song
	return json.Marshal(struct {
		song
		DurationFormatted string `json:"durationFormatted"`
	}{song(s), s.DurationFormatted()})
}

// SongInput carries the fields needed to create a [Song].
type SongInput struct {
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	ArtistID int64   `json:"artistId"`
	Album    *string `json:"album,omitempty"`
	Duration int     `json:"duration"`
	URL      string  `json:"url"`
	ImageURL string  `json:"imageUrl"`
}

// Validate trims text fields, turns a blank album into nil and reports missing or out-of-range values.
func (in *SongInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Artist = strings.TrimSpace(in.Artist)
	in.URL = strings.TrimSpace(in.URL)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.Album != nil {
		album := strings.TrimSpace(*in.Album)
		if album == "" {
			in.Album = nil
		} else {
			in.Album = &album
		}
	}

	switch {
	case in.Title == "":
		return fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	case in.Artist == "":
		return fmt.Errorf("%w: artist is required", shared.ErrInvalidInput)
	case in.ArtistID <= 0:
		return fmt.Errorf("%w: artistId must be positive", shared.ErrInvalidInput)
	case in.Duration < 0:
		return fmt.Errorf("%w: duration must not be negative", shared.ErrInvalidInput)
	case in.URL == "":
		return fmt.Errorf("%w: url is required", shared.ErrInvalidInput)
	case in.ImageURL == "":
		return fmt.Errorf("%w: imageUrl is required", shared.ErrInvalidInput)
	}
	return nil
}

// Artist is a catalog artist.
type Artist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// ArtistInput carries the fields needed to create an [Artist].
type ArtistInput struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// Validate trims the name and requires it.
func (in *ArtistInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", shared.ErrInvalidInput)
	}
	return nil
}

// Playlist is a user-curated, ordered collection of songs.
//
// Songs is resolved on read and never nil once loaded.
type Playlist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserID    int64     `json:"userId"`
	ImageURL  *string   `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	Songs     []Song    `json:"songs"`
}

// TotalDuration sums the duration of the resolved songs.
func (p Playlist) TotalDuration() int {
	total := 0
	for _, s := range p.Songs {
		total += s.Duration
	}
	return total
}

// PlaylistInput carries the fields needed to create a [Playlist].
type PlaylistInput struct {
	Name     string  `json:"name"`
	UserID   int64   `json:"userId"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

// Validate trims the name and requires it, along with a positive user id.
func (in *PlaylistInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: invalid playlist name", shared.ErrInvalidInput)
	}
	if in.UserID <= 0 {
		return fmt.Errorf("%w: userId must be positive", shared.ErrInvalidInput)
	}
	if in.ImageURL != nil && strings.TrimSpace(*in.ImageURL) == "" {
		in.ImageURL = nil
	}
	return nil
}

// LikedCollection presents a user's liked songs in the shape of a playlist.
type LikedCollection struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Songs []Song `json:"songs"`
}

// NewLikedCollection wraps songs, normalizing nil to an empty list.
func NewLikedCollection(songs []Song) LikedCollection {
	if songs == nil {
		songs = []Song{}
	}
	return LikedCollection{ID: LikedCollectionID, Name: LikedCollectionName, Songs: songs}
}

// SearchResult holds the songs and artists matching a query.
type SearchResult struct {
	Query   string   `json:"query"`
	Songs   []Song   `json:"songs"`
	Artists []Artist `json:"artists"`
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
