package tasks

import (
	"fmt"

	"github.com/desertthunder/tempo/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	SeedArtists Phase = iota
	SeedSongs
	SeedPlaylists
	SeedLiked
	FetchPlaylists
	FetchLiked
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case SeedArtists:
		return "seed_artists"
	case SeedSongs:
		return "seed_songs"
	case SeedPlaylists:
		return "seed_playlists"
	case SeedLiked:
		return "seed_liked"
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchLiked:
		return "fetch_liked"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func seedArtistUpdate(step, total int, a *models.Artist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SeedArtists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Artist: %s", step, total, a.Name),
		Data:    a,
	}
}

func seedSongUpdate(step, total int, s *models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SeedSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Song: %s - %s", step, total, s.Artist, s.Title),
		Data:    s,
	}
}

func seedPlaylistUpdate(step, total int, p *models.Playlist, songs int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SeedPlaylists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Playlist: %s (%d songs)", step, total, p.Name, songs),
		Data:    p,
	}
}

func seedLikedUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SeedLiked,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Liked: %s", step, total, title),
	}
}

func fetchPlaylistsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d playlists to export", count),
	}
}

func exportingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
