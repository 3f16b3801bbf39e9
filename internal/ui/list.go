package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	return fmt.Sprintf("%d songs • %s", len(i.playlist.Songs), shared.FormatDuration(i.playlist.TotalDuration()))
}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song  models.Song
	liked bool
}

func (i songItem) FilterValue() string { return i.song.Title + " " + i.song.Artist }
func (i songItem) Title() string {
	if i.liked {
		return "♥ " + i.song.Title
	}
	return i.song.Title
}
func (i songItem) Description() string {
	desc := i.song.Artist
	if album := i.song.AlbumName(); album != "" {
		desc = fmt.Sprintf("%s • %s", desc, album)
	}
	return fmt.Sprintf("%s • %s", desc, i.song.DurationFormatted())
}

func newList(title string, items []list.Item, width, height int) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = title
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

func songItems(songs []models.Song, liked func(int64) bool) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s, liked: liked(s.ID)}
	}
	return items
}

func playlistItems(playlists []models.Playlist) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, p := range playlists {
		items[i] = playlistItem{playlist: p}
	}
	return items
}
