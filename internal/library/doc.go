// Package library implements the library service, the facade the HTTP boundary
// and the player use over the catalog, playlist and liked-song stores.
//
// # Consistency
//
// Each store is responsible for its own atomicity. The [Service] adds the
// cross-store rules: a song must resolve in the catalog before it is attached
// to a playlist or liked, and a playlist created with a seed song is written in
// one transaction after the song is validated, so a failed composite leaves
// nothing behind.
//
// Reads never prune. Ids that stop resolving are skipped by the stores' joins.
//
// # Users
//
// Authentication is out of scope. Callers pass the implicit user id from
// configuration, or bind it once with [Service.ForUser].
package library
