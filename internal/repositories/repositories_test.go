package repositories

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(shared.MemoryDatabase)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// setupFileDB creates a migrated database file so several connections can race.
func setupFileDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(filepath.Join(t.TempDir(), "tempo.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, "", 8, 8)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// seedSongs creates one artist and a song per title, returning the songs.
func seedSongs(t *testing.T, db *sql.DB, titles ...string) []models.Song {
	t.Helper()
	ctx := context.Background()

	artist, err := NewArtistRepository(db).Create(ctx, models.ArtistInput{Name: "ODESZA", ImageURL: "https://img/odesza"})
	if err != nil {
		t.Fatalf("failed to create artist: %v", err)
	}

	repo := NewSongRepository(db)
	songs := make([]models.Song, 0, len(titles))
	for _, title := range titles {
		song, err := repo.Create(ctx, models.SongInput{
			Title:    title,
			Artist:   artist.Name,
			ArtistID: artist.ID,
			Duration: 200,
			URL:      "https://audio/" + title,
			ImageURL: "https://img/" + title,
		})
		if err != nil {
			t.Fatalf("failed to create song %s: %v", title, err)
		}
		songs = append(songs, *song)
	}
	return songs
}

func songIDs(songs []models.Song) []int64 {
	ids := make([]int64, len(songs))
	for i, s := range songs {
		ids[i] = s.ID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSongRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create assigns sequential ids", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		songs := seedSongs(t, db, "Higher Ground", "Midnight City")
		if songs[0].ID != 1 || songs[1].ID != 2 {
			t.Errorf("expected ids 1 and 2, got %d and %d", songs[0].ID, songs[1].ID)
		}
		if songs[0].CreatedAt.IsZero() {
			t.Error("createdAt should be set")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		created, err := repo.Create(ctx, models.SongInput{
			Title: "Dreams", Artist: "Fleetwood Mac", ArtistID: 1, Album: models.StringPtr("Rumours"),
			Duration: 254, URL: "u", ImageURL: "i",
		})
		if err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		got, err := repo.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if got.Title != "Dreams" || got.AlbumName() != "Rumours" || got.Duration != 254 {
			t.Errorf("unexpected song %+v", got)
		}
		if got.DurationFormatted() != "4:14" {
			t.Errorf("expected 4:14, got %s", got.DurationFormatted())
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewSongRepository(db).Get(ctx, 99)
		if !errors.Is(err, shared.ErrSongNotFound) || !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrSongNotFound wrapping ErrNotFound, got %v", err)
		}
	})

	t.Run("Blank album is stored as absent", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		created, err := repo.Create(ctx, models.SongInput{
			Title: "Starboy", Artist: "The Weeknd, Daft Punk", ArtistID: 3, Album: models.StringPtr(""),
			Duration: 230, URL: "u", ImageURL: "i",
		})
		if err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		got, err := repo.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if got.Album != nil {
			t.Errorf("expected nil album, got %q", *got.Album)
		}
	})

	t.Run("Create rejects invalid input without consuming an id", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		_, err := repo.Create(ctx, models.SongInput{Title: "x", Artist: "y", ArtistID: 1, Duration: -5, URL: "u", ImageURL: "i"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}

		songs := seedSongs(t, db, "after")
		if songs[0].ID != 1 {
			t.Errorf("expected first stored id 1, got %d", songs[0].ID)
		}
	})

	t.Run("List and ListByArtist", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		songs := seedSongs(t, db, "a", "b", "c")
		repo := NewSongRepository(db)

		all, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if !equalIDs(songIDs(all), songIDs(songs)) {
			t.Errorf("expected creation order %v, got %v", songIDs(songs), songIDs(all))
		}

		byArtist, err := repo.ListByArtist(ctx, songs[0].ArtistID)
		if err != nil {
			t.Fatalf("failed to list by artist: %v", err)
		}
		if len(byArtist) != 3 {
			t.Errorf("expected 3 songs for artist, got %d", len(byArtist))
		}

		orphan, err := repo.ListByArtist(ctx, 404)
		if err != nil {
			t.Fatalf("failed to list orphan artist: %v", err)
		}
		if orphan == nil || len(orphan) != 0 {
			t.Errorf("expected empty non-nil list, got %v", orphan)
		}
	})
}

func TestArtistRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	defer db.Close()

	repo := NewArtistRepository(db)
	for _, name := range []string{"ODESZA", "M83"} {
		if _, err := repo.Create(ctx, models.ArtistInput{Name: name, ImageURL: "i"}); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}
	}

	t.Run("Get", func(t *testing.T) {
		artist, err := repo.Get(ctx, 2)
		if err != nil {
			t.Fatalf("failed to get artist: %v", err)
		}
		if artist.Name != "M83" {
			t.Errorf("expected M83, got %s", artist.Name)
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		if _, err := repo.Get(ctx, 3); !errors.Is(err, shared.ErrArtistNotFound) {
			t.Errorf("expected ErrArtistNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		artists, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list artists: %v", err)
		}
		if len(artists) != 2 || artists[0].Name != "ODESZA" {
			t.Errorf("unexpected artists %+v", artists)
		}
	})

	t.Run("Create requires name", func(t *testing.T) {
		if _, err := repo.Create(ctx, models.ArtistInput{Name: "  "}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestNextSequence(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	defer db.Close()

	next := func(table string) int64 {
		t.Helper()
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			t.Fatalf("failed to begin: %v", err)
		}
		defer tx.Rollback()

		id, err := NextSequence(ctx, tx, table)
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("failed to commit: %v", err)
		}
		return id
	}

	if seq := next("songs"); seq != 1 {
		t.Errorf("expected first sequence to be 1, got %d", seq)
	}
	if seq := next("songs"); seq != 2 {
		t.Errorf("expected second sequence to be 2, got %d", seq)
	}
	if seq := next("playlists"); seq != 1 {
		t.Errorf("expected first playlist sequence to be 1, got %d", seq)
	}
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	defer db.Close()

	seedSongs(t, db, "a", "b")

	n, err := Count(ctx, db, "songs")
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 songs, got %d", n)
	}

	if _, err := Count(ctx, db, "sqlite_master; DROP TABLE songs"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}
