// package repositories provides the SQLite stores behind the library service.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/tempo/internal/shared"
)

// querier is satisfied by both [sql.DB] and [sql.Tx].
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NextSequence increments and returns the next id for table inside tx.
//
// Ids start at 1, are monotonic, and are never reused even after deletes.
// Running inside the caller's transaction means a rolled back create does not consume an id.
func NextSequence(ctx context.Context, tx *sql.Tx, table string) (int64, error) {
	var id int64
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)
	if err := tx.QueryRowContext(ctx, query).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to increment %s sequence: %w", table, err)
	}
	return id, nil
}

// withTx runs fn in a transaction, committing on success.
//
// The database is opened with _txlock=immediate so the transaction holds the
// write lock from its first statement.
func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// notFound converts [sql.ErrNoRows] into sentinel, leaving other errors wrapped as scan failures.
func notFound(err error, sentinel error, id int64, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", sentinel, id)
	}
	return fmt.Errorf("failed to scan %s: %w", entity, err)
}

func playlistExists(ctx context.Context, q querier, id int64) error {
	var exists bool
	if err := q.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM playlists WHERE id = ?)", id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check playlist: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, id)
	}
	return nil
}

// Count returns the number of rows in one of the catalog or playlist tables.
func Count(ctx context.Context, db *sql.DB, table string) (int, error) {
	switch table {
	case "songs", "artists", "playlists", "playlist_songs", "liked_songs":
	default:
		return 0, fmt.Errorf("%w: unknown table %q", shared.ErrInvalidArgument, table)
	}

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
