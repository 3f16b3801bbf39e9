// Package repositories implements SQLite persistence for the catalog, playlists and liked songs.
//
// Stores:
//   - [SongRepository] and [ArtistRepository] : the append-only catalog
//   - [PlaylistRepository] : playlists with ordered, duplicate-free membership
//   - [LikedSongRepository] : per-user like sets kept in like order
//
// Ids come from per-table sequence rows advanced by [NextSequence] inside the
// creating transaction, so they start at 1 and are never reused.
//
// Membership edits and like toggles each run in one immediate transaction,
// which serializes concurrent writers on the same playlist or user. Reads join
// against songs, so ids that do not resolve in the catalog are left out.
//
// Missing entities are reported with errors wrapping [shared.ErrNotFound].
package repositories
