package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistsList prints the configured user's playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library()
	if err != nil {
		return err
	}

	playlists, err := lib.ListPlaylists(ctx, r.userID())
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}
	if len(playlists) == 0 {
		return r.writePlain("No playlists\n")
	}
	for _, p := range playlists {
		r.writePlain("%3d  %-32s  %3d songs  %s\n", p.ID, p.Name, len(p.Songs), shared.FormatDuration(p.TotalDuration()))
	}
	return nil
}

// PlaylistsGet prints a playlist with its songs.
func (r *Runner) PlaylistsGet(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID("playlist id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	lib, err := r.library()
	if err != nil {
		return err
	}

	playlist, err := lib.GetPlaylist(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, true)
	}
	r.writePlaylist(playlist)
	return nil
}

// PlaylistsCreate creates a playlist, optionally starting with --song.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library()
	if err != nil {
		return err
	}

	in := models.PlaylistInput{Name: cmd.StringArg("name"), UserID: r.userID()}
	if image := cmd.String("image"); image != "" {
		in.ImageURL = models.StringPtr(image)
	}

	var playlist *models.Playlist
	if songID := int64(cmd.Int("song")); songID > 0 {
		playlist, err = lib.CreatePlaylistWithSeedSong(ctx, in, &songID)
	} else {
		playlist, err = lib.CreatePlaylist(ctx, in)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, true)
	}
	return r.writePlain("✓ Created playlist %d: %s\n", playlist.ID, playlist.Name)
}

// PlaylistsDelete removes a playlist and its memberships.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID("playlist id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	lib, err := r.library()
	if err != nil {
		return err
	}

	if err := lib.DeletePlaylist(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted playlist %d\n", id)
}

// PlaylistsAdd attaches a song to a playlist. Adding a member again is a no-op.
func (r *Runner) PlaylistsAdd(ctx context.Context, cmd *cli.Command) error {
	playlistID, songID, err := membershipArgs(cmd)
	if err != nil {
		return err
	}
	lib, err := r.library()
	if err != nil {
		return err
	}

	if err := lib.AddSongToPlaylist(ctx, playlistID, songID); err != nil {
		return err
	}
	return r.writePlain("✓ Added song %d to playlist %d\n", songID, playlistID)
}

// PlaylistsRemove detaches a song from a playlist.
func (r *Runner) PlaylistsRemove(ctx context.Context, cmd *cli.Command) error {
	playlistID, songID, err := membershipArgs(cmd)
	if err != nil {
		return err
	}
	lib, err := r.library()
	if err != nil {
		return err
	}

	if err := lib.RemoveSongFromPlaylist(ctx, playlistID, songID); err != nil {
		return err
	}
	return r.writePlain("✓ Removed song %d from playlist %d\n", songID, playlistID)
}

// PlaylistsReorder moves the listed songs to the front of the playlist in the given order.
func (r *Runner) PlaylistsReorder(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("%w: playlist id and at least one song id", shared.ErrMissingArgument)
	}

	playlistID, err := parseID("playlist id", args[0])
	if err != nil {
		return err
	}
	songIDs := make([]int64, 0, len(args)-1)
	for _, a := range args[1:] {
		id, err := parseID("song id", a)
		if err != nil {
			return err
		}
		songIDs = append(songIDs, id)
	}

	lib, err := r.library()
	if err != nil {
		return err
	}
	playlist, err := lib.ReorderPlaylist(ctx, playlistID, songIDs)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, true)
	}
	r.writePlaylist(playlist)
	return nil
}

// LikedList prints the configured user's liked songs.
func (r *Runner) LikedList(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library()
	if err != nil {
		return err
	}

	songs, err := lib.LikedSongs(ctx, r.userID())
	if err != nil {
		return fmt.Errorf("failed to list liked songs: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(models.NewLikedCollection(songs), true)
	}
	r.writePlainHeader(models.LikedCollectionName)
	r.writeSongs(songs)
	return nil
}

// LikedLike likes a song. Liking it again is a no-op.
func (r *Runner) LikedLike(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID("song id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	lib, err := r.library()
	if err != nil {
		return err
	}

	if err := lib.LikeSong(ctx, r.userID(), id); err != nil {
		return err
	}
	return r.writePlain("♥ Liked song %d\n", id)
}

// LikedUnlike removes a like. Unliking a song that is not liked is a no-op.
func (r *Runner) LikedUnlike(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID("song id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	lib, err := r.library()
	if err != nil {
		return err
	}

	if err := lib.UnlikeSong(ctx, r.userID(), id); err != nil {
		return err
	}
	return r.writePlain("Unliked song %d\n", id)
}

// LikedToggle flips the like on a song and prints the new state.
func (r *Runner) LikedToggle(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID("song id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	lib, err := r.library()
	if err != nil {
		return err
	}

	liked, err := lib.ToggleLike(ctx, r.userID(), id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"songId": id, "liked": liked}, true)
	}
	if liked {
		return r.writePlain("♥ Liked song %d\n", id)
	}
	return r.writePlain("Unliked song %d\n", id)
}

func membershipArgs(cmd *cli.Command) (int64, int64, error) {
	playlistID, err := parseID("playlist id", cmd.StringArg("playlist"))
	if err != nil {
		return 0, 0, err
	}
	songID, err := parseID("song id", cmd.StringArg("song"))
	if err != nil {
		return 0, 0, err
	}
	return playlistID, songID, nil
}

func (r *Runner) writePlaylist(p *models.Playlist) {
	r.writePlainHeader(p.Name)
	r.writePlain("ID:        %d\n", p.ID)
	if p.ImageURL != nil {
		r.writePlain("Image:     %s\n", *p.ImageURL)
	}
	r.writePlain("Songs:     %d (%s)\n\n", len(p.Songs), shared.FormatDuration(p.TotalDuration()))
	r.writeSongs(p.Songs)
}
