package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
)

const songColumns = "s.id, s.title, s.artist, s.artist_id, s.album, s.duration, s.url, s.image_url, s.created_at"

// SongRepository persists the song catalog.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create validates in and stores it under the next song id.
func (r *SongRepository) Create(ctx context.Context, in models.SongInput) (*models.Song, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	song := &models.Song{
		Title:     in.Title,
		Artist:    in.Artist,
		ArtistID:  in.ArtistID,
		Album:     in.Album,
		Duration:  in.Duration,
		URL:       in.URL,
		ImageURL:  in.ImageURL,
		CreatedAt: time.Now().UTC(),
	}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		id, err := NextSequence(ctx, tx, "songs")
		if err != nil {
			return err
		}
		song.ID = id

		query := `
			INSERT INTO songs (id, title, artist, artist_id, album, duration, url, image_url, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err = tx.ExecContext(ctx, query,
			song.ID, song.Title, song.Artist, song.ArtistID, song.Album,
			song.Duration, song.URL, song.ImageURL, song.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert song: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return song, nil
}

// Get retrieves a song by id.
func (r *SongRepository) Get(ctx context.Context, id int64) (*models.Song, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+songColumns+" FROM songs s WHERE s.id = ?", id)
	song, err := scanSong(row)
	if err != nil {
		return nil, notFound(err, shared.ErrSongNotFound, id, "song")
	}
	return song, nil
}

// List returns every song in creation order.
func (r *SongRepository) List(ctx context.Context) ([]models.Song, error) {
	return querySongs(ctx, r.db, "SELECT "+songColumns+" FROM songs s ORDER BY s.id")
}

// ListByArtist returns the songs credited to artistID in creation order.
// An unknown artist yields an empty list.
func (r *SongRepository) ListByArtist(ctx context.Context, artistID int64) ([]models.Song, error) {
	return querySongs(ctx, r.db, "SELECT "+songColumns+" FROM songs s WHERE s.artist_id = ? ORDER BY s.id", artistID)
}

type scanner interface {
	Scan(dest ...any) error
}

// scanSong reads the columns listed in songColumns.
func scanSong(row scanner) (*models.Song, error) {
	var (
		song  models.Song
		album sql.NullString
	)

	err := row.Scan(&song.ID, &song.Title, &song.Artist, &song.ArtistID, &album,
		&song.Duration, &song.URL, &song.ImageURL, &song.CreatedAt)
	if err != nil {
		return nil, err
	}

	if album.Valid {
		song.Album = &album.String
	}
	return &song, nil
}

// querySongs runs query and scans every row, always returning a non-nil slice.
func querySongs(ctx context.Context, q querier, query string, args ...any) ([]models.Song, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := []models.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, *song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return songs, nil
}
