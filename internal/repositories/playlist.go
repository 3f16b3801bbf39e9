package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
)

// PlaylistRepository persists playlists and their ordered membership.
//
// Membership rows carry an explicit position. Adding appends at the tail and
// the (playlist, song) primary key keeps a song from appearing twice.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create stores a playlist and, in the same transaction, appends seedSongIDs in order.
//
// Seed ids are not checked against the catalog here.
func (r *PlaylistRepository) Create(ctx context.Context, in models.PlaylistInput, seedSongIDs ...int64) (*models.Playlist, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	playlist := &models.Playlist{
		Name:      in.Name,
		UserID:    in.UserID,
		ImageURL:  in.ImageURL,
		CreatedAt: time.Now().UTC(),
	}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		id, err := NextSequence(ctx, tx, "playlists")
		if err != nil {
			return err
		}
		playlist.ID = id

		_, err = tx.ExecContext(ctx,
			"INSERT INTO playlists (id, name, user_id, image_url, created_at) VALUES (?, ?, ?, ?, ?)",
			playlist.ID, playlist.Name, playlist.UserID, playlist.ImageURL, playlist.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert playlist: %w", err)
		}

		for _, songID := range seedSongIDs {
			if _, err := appendSong(ctx, tx, playlist.ID, songID); err != nil {
				return err
			}
		}

		playlist.Songs, err = playlistSongs(ctx, tx, playlist.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

// Get retrieves a playlist with its resolved songs.
func (r *PlaylistRepository) Get(ctx context.Context, id int64) (*models.Playlist, error) {
	row := r.db.QueryRowContext(ctx, "SELECT id, name, user_id, image_url, created_at FROM playlists WHERE id = ?", id)
	playlist, err := scanPlaylist(row)
	if err != nil {
		return nil, notFound(err, shared.ErrPlaylistNotFound, id, "playlist")
	}

	if playlist.Songs, err = playlistSongs(ctx, r.db, id); err != nil {
		return nil, err
	}
	return playlist, nil
}

// List returns the playlists owned by userID in creation order, each with its songs.
func (r *PlaylistRepository) List(ctx context.Context, userID int64) ([]models.Playlist, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, user_id, image_url, created_at FROM playlists WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}

	playlists := []models.Playlist{}
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		playlists = append(playlists, *playlist)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	rows.Close()

	// Songs are loaded after the cursor is released since an in-memory
	// database has a single connection.
	for i := range playlists {
		if playlists[i].Songs, err = playlistSongs(ctx, r.db, playlists[i].ID); err != nil {
			return nil, err
		}
	}
	return playlists, nil
}

// Delete removes the playlist and its membership atomically.
func (r *PlaylistRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM playlist_songs WHERE playlist_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete playlist songs: %w", err)
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete playlist: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, id)
		}
		return nil
	})
}

// AddSong appends songID to the playlist. Adding a member again changes nothing
// and reports false.
func (r *PlaylistRepository) AddSong(ctx context.Context, playlistID, songID int64) (bool, error) {
	var added bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := playlistExists(ctx, tx, playlistID); err != nil {
			return err
		}

		var err error
		added, err = appendSong(ctx, tx, playlistID, songID)
		return err
	})
	return added, err
}

// RemoveSong drops songID from the playlist, reporting whether it was a member.
func (r *PlaylistRepository) RemoveSong(ctx context.Context, playlistID, songID int64) (bool, error) {
	var removed bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := playlistExists(ctx, tx, playlistID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			"DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?", playlistID, songID)
		if err != nil {
			return fmt.Errorf("failed to remove playlist song: %w", err)
		}

		removed, err = affected(result)
		return err
	})
	return removed, err
}

// Reorder rewrites membership positions and returns the applied order.
//
// Requested ids that are members lead, in the requested order. Duplicates and
// non-members are ignored. Members missing from the request follow in their
// previous relative order, so no member is ever dropped.
func (r *PlaylistRepository) Reorder(ctx context.Context, playlistID int64, songIDs []int64) ([]int64, error) {
	var order []int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := playlistExists(ctx, tx, playlistID); err != nil {
			return err
		}

		current, err := membershipIDs(ctx, tx, playlistID)
		if err != nil {
			return err
		}

		order = ReorderIDs(current, songIDs)
		for pos, id := range order {
			_, err := tx.ExecContext(ctx,
				"UPDATE playlist_songs SET position = ? WHERE playlist_id = ? AND song_id = ?", pos, playlistID, id)
			if err != nil {
				return fmt.Errorf("failed to update position: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Songs returns the playlist's songs in position order. Membership ids that
// no longer resolve in the catalog are skipped.
func (r *PlaylistRepository) Songs(ctx context.Context, playlistID int64) ([]models.Song, error) {
	if err := playlistExists(ctx, r.db, playlistID); err != nil {
		return nil, err
	}
	return playlistSongs(ctx, r.db, playlistID)
}

// SongIDs returns the raw membership ids in position order, resolved or not.
func (r *PlaylistRepository) SongIDs(ctx context.Context, playlistID int64) ([]int64, error) {
	if err := playlistExists(ctx, r.db, playlistID); err != nil {
		return nil, err
	}
	return membershipIDs(ctx, r.db, playlistID)
}

// ReorderIDs applies the reorder policy to the current membership.
func ReorderIDs(current, requested []int64) []int64 {
	members := make(map[int64]bool, len(current))
	for _, id := range current {
		members[id] = true
	}

	order := make([]int64, 0, len(current))
	placed := make(map[int64]bool, len(current))
	for _, id := range requested {
		if members[id] && !placed[id] {
			order = append(order, id)
			placed[id] = true
		}
	}
	for _, id := range current {
		if !placed[id] {
			order = append(order, id)
		}
	}
	return order
}

func appendSong(ctx context.Context, q querier, playlistID, songID int64) (bool, error) {
	result, err := q.ExecContext(ctx, `
		INSERT OR IGNORE INTO playlist_songs (playlist_id, song_id, position, added_at)
		SELECT ?, ?, COALESCE(MAX(position) + 1, 0), ? FROM playlist_songs WHERE playlist_id = ?
	`, playlistID, songID, time.Now().UTC(), playlistID)
	if err != nil {
		return false, fmt.Errorf("failed to add playlist song: %w", err)
	}
	return affected(result)
}

func playlistSongs(ctx context.Context, q querier, playlistID int64) ([]models.Song, error) {
	return querySongs(ctx, q, `
		SELECT `+songColumns+`
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = ?
		ORDER BY ps.position, ps.added_at
	`, playlistID)
}

func membershipIDs(ctx context.Context, q querier, playlistID int64) ([]int64, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT song_id FROM playlist_songs WHERE playlist_id = ? ORDER BY position, added_at", playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist songs: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan playlist song: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// scanPlaylist reads id, name, user_id, image_url, created_at.
func scanPlaylist(row scanner) (*models.Playlist, error) {
	var (
		playlist models.Playlist
		imageURL sql.NullString
	)

	if err := row.Scan(&playlist.ID, &playlist.Name, &playlist.UserID, &imageURL, &playlist.CreatedAt); err != nil {
		return nil, err
	}

	if imageURL.Valid {
		playlist.ImageURL = &imageURL.String
	}
	playlist.Songs = []models.Song{}
	return &playlist, nil
}
