// Package tasks runs long library operations with real-time progress reporting.
//
// # Seeding
//
// [DefaultSeed] parses the bundled demo catalog and [LoadSeed] reads a
// custom one. [Engine.Seed] creates artists, then songs, then playlists
// with their songs, then likes. [Engine.SeedIfEmpty] does nothing when the
// catalog already holds songs.
//
// # Export
//
// [Engine.ExportPlaylist] and [Engine.ExportLiked] write a single
// collection through the formatter package. [Engine.BulkExport] exports
// every playlist with a worker pool, paces playlist fetches with a
// [rate.Limiter] and writes an export_manifest.json summary.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Sends use
// select with default, so a slow or absent reader never blocks the work.
package tasks
