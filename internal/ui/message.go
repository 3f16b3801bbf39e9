package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tempo/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSongsFetched MsgKind = iota
	MsgPlaylistSongsFetched
	MsgLikedFetched
	MsgTick
)

type songsFetched struct {
	songs []models.Song
	err   error
}

type playlistSongsFetched struct {
	playlist models.Playlist
	songs    []models.Song
	err      error
}

// songsFetchedMsg is the constructor for [MsgSongsFetched]
func songsFetchedMsg(songs []models.Song, err error) Msg {
	return Msg{kind: MsgSongsFetched, data: songsFetched{songs, err}}
}

// playlistSongsFetchedMsg is the constructor for [MsgPlaylistSongsFetched]
func playlistSongsFetchedMsg(playlist models.Playlist, songs []models.Song, err error) Msg {
	return Msg{kind: MsgPlaylistSongsFetched, data: playlistSongsFetched{playlist, songs, err}}
}

// likedFetchedMsg is the constructor for [MsgLikedFetched]
func likedFetchedMsg(songs []models.Song, err error) Msg {
	return Msg{kind: MsgLikedFetched, data: songsFetched{songs, err}}
}

// tickMsg is the constructor for [MsgTick]
func tickMsg(t time.Time) Msg {
	return Msg{kind: MsgTick, data: t}
}
