// Package ui implements the terminal player using bubbletea's Elm architecture.
//
// The player owns one [playback.Session] and shows four tabs:
//  1. [SongsView] : the whole catalog
//  2. [PlaylistsView] : the user's playlists; enter opens [PlaylistSongsView]
//  3. [LikedView] : the liked-songs collection
//  4. [QueueView] : songs waiting to play
//
// Enter on a song plays it with the surrounding list as the queue. A tea.Tick
// clock feeds [playback.Session.Tick], which advances to the next queued song
// when one ends.
//
// The (view) [Model] receives asynchronous results through the [Msg] union.
// Fetches run in commands; every session mutation happens inside Update.
//
// A adds the selected song to a playlist picked from the playlists tab, x
// removes it from the open playlist and N prompts for a new playlist name.
// Each edit shows at once and is undone if the library refuses it.
//
// Keys: enter, space, n/p, ←/→, +/-, l, a, c, A, x, N, r, tab, esc and q, with
// contextual help rendered by charmbracelet/bubbles/help.
package ui
