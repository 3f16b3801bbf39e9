// package testing contains shared testing utilities
package testing

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
)

// MustOpenDB returns a migrated in-memory database closed at the end of the test.
func MustOpenDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(shared.MemoryDatabase)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// Song builds a catalog song for tests.
func Song(id int64, title string, duration int) models.Song {
	return models.Song{
		ID:        id,
		Title:     title,
		Artist:    "Test Artist",
		ArtistID:  1,
		Duration:  duration,
		URL:       "https://audio.test/" + title,
		ImageURL:  "https://img.test/" + title,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// ErrFake is returned by [FakeLibrary] when Fail is set.
var ErrFake = errors.New("fake library failure")

// FakeLibrary is an in-memory library for player and session tests.
//
// Setting Fail makes every mutation return [ErrFake] without changing state.
type FakeLibrary struct {
	mu        sync.Mutex
	songs     []models.Song
	playlists []models.Playlist
	liked     []int64
	nextID    int64

	Fail  bool
	Calls []string
}

// NewFakeLibrary creates a FakeLibrary holding songs.
func NewFakeLibrary(songs ...models.Song) *FakeLibrary {
	return &FakeLibrary{songs: songs, nextID: 1}
}

// AddPlaylist stores a playlist with the given songs and returns its id.
func (f *FakeLibrary) AddPlaylist(name string, songs ...models.Song) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.playlists = append(f.playlists, models.Playlist{ID: id, Name: name, UserID: 1, Songs: append([]models.Song{}, songs...)})
	return id
}

// Liked returns the liked ids.
func (f *FakeLibrary) Liked() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64{}, f.liked...)
}

func (f *FakeLibrary) record(call string) error {
	f.Calls = append(f.Calls, call)
	if f.Fail {
		return ErrFake
	}
	return nil
}

func (f *FakeLibrary) song(id int64) (models.Song, bool) {
	for _, s := range f.songs {
		if s.ID == id {
			return s, true
		}
	}
	return models.Song{}, false
}

func (f *FakeLibrary) playlist(id int64) *models.Playlist {
	for i := range f.playlists {
		if f.playlists[i].ID == id {
			return &f.playlists[i]
		}
	}
	return nil
}

func (f *FakeLibrary) Songs(ctx context.Context) ([]models.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Song{}, f.songs...), nil
}

func (f *FakeLibrary) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	return &models.SearchResult{Query: query, Songs: []models.Song{}, Artists: []models.Artist{}}, nil
}

func (f *FakeLibrary) Playlists(ctx context.Context) ([]models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Playlist, len(f.playlists))
	for i, p := range f.playlists {
		p.Songs = append([]models.Song{}, p.Songs...)
		out[i] = p
	}
	return out, nil
}

func (f *FakeLibrary) PlaylistSongs(ctx context.Context, playlistID int64) ([]models.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := f.playlist(playlistID)
	if p == nil {
		return nil, shared.ErrPlaylistNotFound
	}
	return append([]models.Song{}, p.Songs...), nil
}

func (f *FakeLibrary) LikedSongs(ctx context.Context) ([]models.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	songs := []models.Song{}
	for _, id := range f.liked {
		if s, ok := f.song(id); ok {
			songs = append(songs, s)
		}
	}
	return songs, nil
}

func (f *FakeLibrary) ToggleLike(ctx context.Context, songID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("ToggleLike"); err != nil {
		return false, err
	}
	for i, id := range f.liked {
		if id == songID {
			f.liked = append(f.liked[:i], f.liked[i+1:]...)
			return false, nil
		}
	}
	f.liked = append(f.liked, songID)
	return true, nil
}

func (f *FakeLibrary) AddSongToPlaylist(ctx context.Context, playlistID, songID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("AddSongToPlaylist"); err != nil {
		return err
	}
	p := f.playlist(playlistID)
	if p == nil {
		return shared.ErrPlaylistNotFound
	}
	s, ok := f.song(songID)
	if !ok {
		return shared.ErrSongNotFound
	}
	for _, existing := range p.Songs {
		if existing.ID == songID {
			return nil
		}
	}
	p.Songs = append(p.Songs, s)
	return nil
}

func (f *FakeLibrary) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("RemoveSongFromPlaylist"); err != nil {
		return err
	}
	p := f.playlist(playlistID)
	if p == nil {
		return shared.ErrPlaylistNotFound
	}
	for i, existing := range p.Songs {
		if existing.ID == songID {
			p.Songs = append(p.Songs[:i], p.Songs[i+1:]...)
			break
		}
	}
	return nil
}

func (f *FakeLibrary) CreatePlaylist(ctx context.Context, name string) (*models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("CreatePlaylist"); err != nil {
		return nil, err
	}
	id := f.nextID
	f.nextID++
	p := models.Playlist{ID: id, Name: name, UserID: 1, Songs: []models.Song{}}
	f.playlists = append(f.playlists, p)
	return &p, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
