package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tempo/internal/library"
	"github.com/desertthunder/tempo/internal/models"
	"github.com/urfave/cli/v3"
)

// SongsList prints the catalog, optionally filtered by --query.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library()
	if err != nil {
		return err
	}

	songs, err := lib.ListSongs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}
	if q := cmd.String("query"); q != "" {
		songs = library.FilterSongs(songs, q)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}
	r.writeSongs(songs)
	return nil
}

// SongsGet prints one song.
func (r *Runner) SongsGet(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID("song id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	lib, err := r.library()
	if err != nil {
		return err
	}

	song, err := lib.GetSong(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(song, true)
	}
	r.writeSong(*song)
	return nil
}

// SongsAdd creates a song. The display artist defaults to the owning artist's name.
func (r *Runner) SongsAdd(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library()
	if err != nil {
		return err
	}

	in := models.SongInput{
		Title:    cmd.String("title"),
		Artist:   cmd.String("artist"),
		ArtistID: int64(cmd.Int("artist-id")),
		Duration: cmd.Int("duration"),
		URL:      cmd.String("url"),
		ImageURL: cmd.String("image"),
	}
	if album := cmd.String("album"); album != "" {
		in.Album = models.StringPtr(album)
	}
	if in.Artist == "" {
		artist, err := lib.GetArtist(ctx, in.ArtistID)
		if err != nil {
			return err
		}
		in.Artist = artist.Name
	}

	song, err := lib.CreateSong(ctx, in)
	if err != nil {
		return err
	}
	r.logger.Info("song created", "id", song.ID, "title", song.Title)

	if cmd.Bool("json") {
		return r.writeJSON(song, true)
	}
	return r.writePlain("✓ Created song %d: %s - %s\n", song.ID, song.Artist, song.Title)
}

// SongsSearch prints songs and artists matching the query.
func (r *Runner) SongsSearch(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library()
	if err != nil {
		return err
	}

	result, err := lib.Search(ctx, cmd.StringArg("query"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q", result.Query))
	r.writePlain("Artists (%d)\n", len(result.Artists))
	for _, a := range result.Artists {
		r.writePlain("  %3d  %s\n", a.ID, a.Name)
	}
	r.writePlain("Songs (%d)\n", len(result.Songs))
	r.writeSongs(result.Songs)
	return nil
}

// ArtistsList prints every artist.
func (r *Runner) ArtistsList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library()
	if err != nil {
		return err
	}

	artists, err := lib.ListArtists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list artists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists, true)
	}
	for _, a := range artists {
		r.writePlain("%3d  %s\n", a.ID, a.Name)
	}
	return nil
}

// ArtistsGet prints one artist.
func (r *Runner) ArtistsGet(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID("artist id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	lib, err := r.library()
	if err != nil {
		return err
	}

	artist, err := lib.GetArtist(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(artist, true)
	}
	r.writePlain("ID:     %d\n", artist.ID)
	r.writePlain("Name:   %s\n", artist.Name)
	r.writePlain("Image:  %s\n", artist.ImageURL)
	return nil
}

// ArtistsSongs prints the songs an artist owns.
func (r *Runner) ArtistsSongs(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID("artist id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	lib, err := r.library()
	if err != nil {
		return err
	}

	songs, err := lib.ArtistSongs(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}
	r.writeSongs(songs)
	return nil
}

// ArtistsAdd creates an artist.
func (r *Runner) ArtistsAdd(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library()
	if err != nil {
		return err
	}

	artist, err := lib.CreateArtist(ctx, models.ArtistInput{
		Name:     cmd.String("name"),
		ImageURL: cmd.String("image"),
	})
	if err != nil {
		return err
	}
	r.logger.Info("artist created", "id", artist.ID, "name", artist.Name)

	if cmd.Bool("json") {
		return r.writeJSON(artist, true)
	}
	return r.writePlain("✓ Created artist %d: %s\n", artist.ID, artist.Name)
}

func (r *Runner) writeSongs(songs []models.Song) {
	if len(songs) == 0 {
		r.writePlain("No songs\n")
		return
	}
	for _, s := range songs {
		r.writePlain("%3d  %-32s  %-24s  %6s\n", s.ID, s.Title, s.Artist, s.DurationFormatted())
	}
}

func (r *Runner) writeSong(s models.Song) {
	r.writePlain("ID:        %d\n", s.ID)
	r.writePlain("Title:     %s\n", s.Title)
	r.writePlain("Artist:    %s\n", s.Artist)
	if album := s.AlbumName(); album != "" {
		r.writePlain("Album:     %s\n", album)
	}
	r.writePlain("Duration:  %s\n", s.DurationFormatted())
	r.writePlain("URL:       %s\n", s.URL)
}
