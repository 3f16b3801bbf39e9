package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
)

// ArtistRepository persists catalog artists.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Create validates in and stores it under the next artist id.
func (r *ArtistRepository) Create(ctx context.Context, in models.ArtistInput) (*models.Artist, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	artist := &models.Artist{Name: in.Name, ImageURL: in.ImageURL, CreatedAt: time.Now().UTC()}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		id, err := NextSequence(ctx, tx, "artists")
		if err != nil {
			return err
		}
		artist.ID = id

		_, err = tx.ExecContext(ctx,
			"INSERT INTO artists (id, name, image_url, created_at) VALUES (?, ?, ?, ?)",
			artist.ID, artist.Name, artist.ImageURL, artist.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert artist: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return artist, nil
}

// Get retrieves an artist by id.
func (r *ArtistRepository) Get(ctx context.Context, id int64) (*models.Artist, error) {
	var artist models.Artist
	err := r.db.QueryRowContext(ctx, "SELECT id, name, image_url, created_at FROM artists WHERE id = ?", id).
		Scan(&artist.ID, &artist.Name, &artist.ImageURL, &artist.CreatedAt)
	if err != nil {
		return nil, notFound(err, shared.ErrArtistNotFound, id, "artist")
	}
	return &artist, nil
}

// List returns every artist in creation order.
func (r *ArtistRepository) List(ctx context.Context) ([]models.Artist, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, image_url, created_at FROM artists ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	artists := []models.Artist{}
	for rows.Next() {
		var artist models.Artist
		if err := rows.Scan(&artist.ID, &artist.Name, &artist.ImageURL, &artist.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists = append(artists, artist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return artists, nil
}
