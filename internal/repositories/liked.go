package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tempo/internal/models"
)

// LikedSongRepository persists each user's liked-song set.
//
// Rows are unique per (user, song) and listed in the order they were liked.
type LikedSongRepository struct {
	db *sql.DB
}

// NewLikedSongRepository creates a new LikedSongRepository with the given database connection
func NewLikedSongRepository(db *sql.DB) *LikedSongRepository {
	return &LikedSongRepository{db: db}
}

// IsLiked reports whether userID likes songID.
func (r *LikedSongRepository) IsLiked(ctx context.Context, userID, songID int64) (bool, error) {
	return isLiked(ctx, r.db, userID, songID)
}

// Add likes songID, reporting false when it was already liked.
func (r *LikedSongRepository) Add(ctx context.Context, userID, songID int64) (bool, error) {
	return like(ctx, r.db, userID, songID)
}

// Remove unlikes songID, reporting false when it was not liked.
func (r *LikedSongRepository) Remove(ctx context.Context, userID, songID int64) (bool, error) {
	return unlike(ctx, r.db, userID, songID)
}

// Toggle flips the like and returns the new state.
//
// The decision and the write share one immediate transaction, so concurrent
// toggles for the same pair serialize and each observes the previous result.
func (r *LikedSongRepository) Toggle(ctx context.Context, userID, songID int64) (bool, error) {
	var liked bool
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		removed, err := unlike(ctx, tx, userID, songID)
		if err != nil {
			return err
		}
		if removed {
			liked = false
			return nil
		}

		if _, err := like(ctx, tx, userID, songID); err != nil {
			return err
		}
		liked = true
		return nil
	})
	return liked, err
}

// List returns the liked songs that resolve in the catalog, oldest like first.
func (r *LikedSongRepository) List(ctx context.Context, userID int64) ([]models.Song, error) {
	return querySongs(ctx, r.db, `
		SELECT `+songColumns+`
		FROM liked_songs l
		JOIN songs s ON s.id = l.song_id
		WHERE l.user_id = ?
		ORDER BY l.rowid
	`, userID)
}

// SongIDs returns the raw liked ids, oldest like first.
func (r *LikedSongRepository) SongIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT song_id FROM liked_songs WHERE user_id = ? ORDER BY rowid", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query liked songs: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan liked song: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func isLiked(ctx context.Context, q querier, userID, songID int64) (bool, error) {
	var liked bool
	err := q.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM liked_songs WHERE user_id = ? AND song_id = ?)", userID, songID).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("failed to check liked song: %w", err)
	}
	return liked, nil
}

func like(ctx context.Context, q querier, userID, songID int64) (bool, error) {
	result, err := q.ExecContext(ctx,
		"INSERT OR IGNORE INTO liked_songs (user_id, song_id, liked_at) VALUES (?, ?, ?)",
		userID, songID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to like song: %w", err)
	}
	return affected(result)
}

func unlike(ctx context.Context, q querier, userID, songID int64) (bool, error) {
	result, err := q.ExecContext(ctx, "DELETE FROM liked_songs WHERE user_id = ? AND song_id = ?", userID, songID)
	if err != nil {
		return false, fmt.Errorf("failed to unlike song: %w", err)
	}
	return affected(result)
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n > 0, nil
}
