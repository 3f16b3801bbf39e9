package library

import (
	"context"
	"strings"

	"github.com/desertthunder/tempo/internal/models"
)

// Search returns songs whose title, artist or album contain query, and
// artists whose name contains it, ignoring case. Results keep catalog order.
// A blank query matches nothing.
func (s *Service) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	result := &models.SearchResult{Query: query, Songs: []models.Song{}, Artists: []models.Artist{}}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return result, nil
	}

	songs, err := s.songs.List(ctx)
	if err != nil {
		return nil, err
	}
	result.Songs = FilterSongs(songs, needle)

	artists, err := s.artists.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range artists {
		if strings.Contains(strings.ToLower(a.Name), needle) {
			result.Artists = append(result.Artists, a)
		}
	}
	return result, nil
}

// SearchSongs is [Service.Search] restricted to songs. A blank query returns the whole catalog.
func (s *Service) SearchSongs(ctx context.Context, query string) ([]models.Song, error) {
	songs, err := s.songs.List(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return songs, nil
	}
	return FilterSongs(songs, needle), nil
}

// FilterSongs keeps songs whose title, artist or album contain needle, ignoring case.
func FilterSongs(songs []models.Song, needle string) []models.Song {
	needle = strings.ToLower(needle)
	matched := []models.Song{}
	for _, song := range songs {
		if strings.Contains(strings.ToLower(song.Title), needle) ||
			strings.Contains(strings.ToLower(song.Artist), needle) ||
			strings.Contains(strings.ToLower(song.AlbumName()), needle) {
			matched = append(matched, song)
		}
	}
	return matched
}
