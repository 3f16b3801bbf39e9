// Package playback implements the client-side playback session: the current
// song, a FIFO queue, a progress clock, volume, and a short recently-played
// history.
//
// # States
//
// A [Session] is Idle until the first [Session.Play], then alternates between
// Playing and Paused. Transitions never fail and never block.
//
// # Ownership
//
// A Session is not safe for concurrent use. One goroutine owns it; the
// terminal player applies clock ticks and key presses on its event loop, so
// an end-of-track reaction completes before the next event is handled.
//
// # Library round trips
//
// Playlist and like mutations go through a [Library]. The session updates its
// local view first and rolls it back if the library reports an error. Playback
// state is never touched by these calls.
package playback
