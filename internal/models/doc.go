// Package models defines the entities shared by the stores, the library service, the HTTP boundary and the player.
//
// Catalog entities:
//   - [Song] : track metadata, encoded with a derived durationFormatted field
//   - [Artist] : artist metadata
//
// User collections:
//   - [Playlist] : named, ordered song collection owned by a user
//   - [LikedCollection] : the liked-songs set rendered as a playlist
//
// Inputs ([SongInput], [ArtistInput], [PlaylistInput]) normalize themselves in Validate
// and report failures wrapping [shared.ErrInvalidInput].
package models
