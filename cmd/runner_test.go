package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tempo/internal/library"
	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
	"github.com/desertthunder/tempo/internal/tasks"
	tu "github.com/desertthunder/tempo/internal/testing"
)

// setupRunner returns a runner over a seeded in-memory library, running in a
// temporary working directory so no config.toml or .env is picked up.
//
// Seeded ids: songs 1 Higher Ground, 2 Midnight City, 3 Blinding Lights,
// 4 Dreams, 5 Levitating, 6 Starboy; playlists 1 Workout Mix [1 5],
// 2 Chill Vibes [2 4], 3 Focus Beats [1 3]; liked [3].
func setupRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	t.Chdir(t.TempDir())

	logger := shared.NewLogger(io.Discard)
	lib := library.New(tu.MustOpenDB(t), logger)

	seed, err := tasks.DefaultSeed()
	if err != nil {
		t.Fatalf("failed to load seed: %v", err)
	}
	if _, err := tasks.NewEngine(lib, tasks.EngineOpts{Logger: logger}).Seed(context.Background(), seed, nil); err != nil {
		t.Fatalf("failed to seed library: %v", err)
	}

	output := &bytes.Buffer{}
	return NewRunner(RunnerOpts{Logger: logger, Output: output, Library: lib}), output
}

func run(r *Runner, args ...string) error {
	return r.App().Run(context.Background(), append([]string{"tempo"}, args...))
}

// runJSON runs a command with --json output and decodes the result into T.
func runJSON[T any](t *testing.T, r *Runner, out *bytes.Buffer, args ...string) T {
	t.Helper()
	out.Reset()

	var v T
	if err := run(r, args...); err != nil {
		t.Fatalf("tempo %s: %v", strings.Join(args, " "), err)
	}
	if err := json.Unmarshal(out.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode output %q: %v", out.String(), err)
	}
	return v
}

func playlistSongIDs(p models.Playlist) []int64 {
	ids := make([]int64, len(p.Songs))
	for i, s := range p.Songs {
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

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with zero options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
			if runner.lib != nil {
				t.Error("expected library to be opened lazily")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		want := []string{"serve", "setup", "songs", "artists", "playlists", "liked", "export", "play"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if cmd.Name != want[i] {
				t.Errorf("expected command %q at index %d, got %q", want[i], i, cmd.Name)
			}
		}
	})
}

func TestParseID(t *testing.T) {
	tests := []struct {
		value string
		want  int64
		err   error
	}{
		{"7", 7, nil},
		{"", 0, shared.ErrMissingArgument},
		{"abc", 0, shared.ErrInvalidArgument},
		{"0", 0, shared.ErrInvalidArgument},
		{"-3", 0, shared.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseID("id", tt.value)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Errorf("expected %v, got %v", tt.err, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("expected %d, got %d (%v)", tt.want, got, err)
			}
		})
	}
}

func TestSongCommands(t *testing.T) {
	r, out := setupRunner(t)

	t.Run("list", func(t *testing.T) {
		songs := runJSON[[]models.Song](t, r, out, "songs", "list", "--json")
		if len(songs) != 6 || songs[0].Title != "Higher Ground" {
			t.Errorf("unexpected songs %+v", songs)
		}
	})

	t.Run("list with query", func(t *testing.T) {
		out.Reset()
		if err := run(r, "songs", "list", "--query", "city"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "Midnight City") || strings.Contains(out.String(), "Dreams") {
			t.Errorf("unexpected filtered output %q", out.String())
		}
	})

	t.Run("get", func(t *testing.T) {
		song := runJSON[models.Song](t, r, out, "songs", "get", "--json", "4")
		if song.Title != "Dreams" || song.AlbumName() != "Rumours" {
			t.Errorf("unexpected song %+v", song)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		if err := run(r, "songs", "get", "99"); !errors.Is(err, shared.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}
	})

	t.Run("get malformed id", func(t *testing.T) {
		if err := run(r, "songs", "get", "abc"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("add defaults display artist", func(t *testing.T) {
		out.Reset()
		err := run(r, "songs", "add", "--title", "Loyal", "--artist-id", "1", "--duration", "245", "--url", "https://audio.test/loyal")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "Created song 7: ODESZA - Loyal") {
			t.Errorf("unexpected output %q", out.String())
		}
	})

	t.Run("add with unknown artist", func(t *testing.T) {
		err := run(r, "songs", "add", "--title", "x", "--artist-id", "42", "--duration", "10", "--url", "u")
		if !errors.Is(err, shared.ErrArtistNotFound) {
			t.Errorf("expected ErrArtistNotFound, got %v", err)
		}
	})

	t.Run("search", func(t *testing.T) {
		result := runJSON[models.SearchResult](t, r, out, "songs", "search", "--json", "daft")
		if len(result.Artists) != 1 || result.Artists[0].Name != "Daft Punk" {
			t.Errorf("unexpected artists %+v", result.Artists)
		}
	})
}

func TestArtistCommands(t *testing.T) {
	r, out := setupRunner(t)

	t.Run("list", func(t *testing.T) {
		artists := runJSON[[]models.Artist](t, r, out, "artists", "list", "--json")
		if len(artists) != 6 || artists[0].Name != "ODESZA" {
			t.Errorf("unexpected artists %+v", artists)
		}
	})

	t.Run("get", func(t *testing.T) {
		artist := runJSON[models.Artist](t, r, out, "artists", "get", "--json", "2")
		if artist.Name != "M83" {
			t.Errorf("expected M83, got %s", artist.Name)
		}
	})

	t.Run("songs", func(t *testing.T) {
		songs := runJSON[[]models.Song](t, r, out, "artists", "songs", "--json", "1")
		if len(songs) != 1 || songs[0].Title != "Higher Ground" {
			t.Errorf("unexpected songs %+v", songs)
		}
	})

	t.Run("add", func(t *testing.T) {
		artist := runJSON[models.Artist](t, r, out, "artists", "add", "--json", "--name", "Tycho")
		if artist.ID != 7 || artist.Name != "Tycho" {
			t.Errorf("unexpected artist %+v", artist)
		}
	})
}

func TestPlaylistCommands(t *testing.T) {
	r, out := setupRunner(t)

	t.Run("list", func(t *testing.T) {
		playlists := runJSON[[]models.Playlist](t, r, out, "playlists", "list", "--json")
		if len(playlists) != 3 || playlists[0].Name != "Workout Mix" {
			t.Errorf("unexpected playlists %+v", playlists)
		}
	})

	t.Run("create", func(t *testing.T) {
		p := runJSON[models.Playlist](t, r, out, "playlists", "create", "--json", "--song", "6", "Road Trip")
		if p.ID != 4 || !equalIDs(playlistSongIDs(p), []int64{6}) {
			t.Errorf("unexpected playlist %+v", p)
		}
	})

	t.Run("create with unknown seed song leaves nothing behind", func(t *testing.T) {
		if err := run(r, "playlists", "create", "--song", "99", "Broken"); !errors.Is(err, shared.ErrSongNotFound) {
			t.Fatalf("expected ErrSongNotFound, got %v", err)
		}
		playlists := runJSON[[]models.Playlist](t, r, out, "playlists", "list", "--json")
		if len(playlists) != 4 {
			t.Errorf("expected 4 playlists, got %d", len(playlists))
		}
	})

	t.Run("add is idempotent", func(t *testing.T) {
		for range 2 {
			if err := run(r, "playlists", "add", "2", "1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}
		p := runJSON[models.Playlist](t, r, out, "playlists", "get", "--json", "2")
		if !equalIDs(playlistSongIDs(p), []int64{2, 4, 1}) {
			t.Errorf("expected [2 4 1], got %v", playlistSongIDs(p))
		}
	})

	t.Run("reorder", func(t *testing.T) {
		p := runJSON[models.Playlist](t, r, out, "playlists", "reorder", "--json", "2", "1", "2")
		if !equalIDs(playlistSongIDs(p), []int64{1, 2, 4}) {
			t.Errorf("expected [1 2 4], got %v", playlistSongIDs(p))
		}
	})

	t.Run("reorder needs songs", func(t *testing.T) {
		if err := run(r, "playlists", "reorder", "2"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := run(r, "playlists", "remove", "2", "4"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		p := runJSON[models.Playlist](t, r, out, "playlists", "get", "--json", "2")
		if !equalIDs(playlistSongIDs(p), []int64{1, 2}) {
			t.Errorf("expected [1 2], got %v", playlistSongIDs(p))
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := run(r, "playlists", "delete", "3"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := run(r, "playlists", "get", "3"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})
}

func TestLikedCommands(t *testing.T) {
	r, out := setupRunner(t)

	t.Run("list", func(t *testing.T) {
		liked := runJSON[models.LikedCollection](t, r, out, "liked", "list", "--json")
		if liked.ID != models.LikedCollectionID || len(liked.Songs) != 1 || liked.Songs[0].ID != 3 {
			t.Errorf("unexpected liked collection %+v", liked)
		}
	})

	t.Run("toggle", func(t *testing.T) {
		got := runJSON[map[string]any](t, r, out, "liked", "toggle", "--json", "3")
		if got["liked"] != false {
			t.Errorf("expected liked false, got %v", got)
		}
		got = runJSON[map[string]any](t, r, out, "liked", "toggle", "--json", "3")
		if got["liked"] != true {
			t.Errorf("expected liked true, got %v", got)
		}
	})

	t.Run("like and unlike", func(t *testing.T) {
		for range 2 {
			if err := run(r, "liked", "like", "5"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}
		liked := runJSON[models.LikedCollection](t, r, out, "liked", "list", "--json")
		if len(liked.Songs) != 2 || liked.Songs[1].ID != 5 {
			t.Errorf("expected [3 5], got %+v", liked.Songs)
		}

		if err := run(r, "liked", "unlike", "5"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		liked = runJSON[models.LikedCollection](t, r, out, "liked", "list", "--json")
		if len(liked.Songs) != 1 {
			t.Errorf("expected 1 liked song, got %d", len(liked.Songs))
		}
	})

	t.Run("like unknown song", func(t *testing.T) {
		if err := run(r, "liked", "like", "99"); !errors.Is(err, shared.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}
	})
}

func TestExportCommands(t *testing.T) {
	r, out := setupRunner(t)

	t.Run("playlist", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "one")
		res := runJSON[tasks.PlaylistExportResult](t, r, out, "export", "playlist", "--json", "--format", "json", "--output", dir, "1")
		if !res.Success || len(res.Files) != 1 {
			t.Fatalf("unexpected result %+v", res)
		}
		tu.AssertFileExists(t, res.Files[0])
		if !strings.Contains(tu.MustReadFile(t, res.Files[0]), "Workout Mix") {
			t.Error("expected playlist name in export")
		}
	})

	t.Run("liked", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "liked")
		out.Reset()
		if err := run(r, "export", "liked", "--format", "txt", "--output", dir); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out.String(), "Exported Liked Songs") {
			t.Errorf("unexpected output %q", out.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if err := run(r, "export", "liked", "--format", "xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("all", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "all")
		result := runJSON[tasks.BulkExportResult](t, r, out, "export", "all", "--json", "--format", "csv", "--output", dir, "--rate", "100")
		if result.TotalPlaylists != 4 || result.SuccessfulExports != 4 {
			t.Errorf("unexpected result %+v", result)
		}
		tu.AssertFileExists(t, filepath.Join(dir, tasks.ManifestFile))
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("database migrates, seeds and reports status", func(t *testing.T) {
		t.Chdir(t.TempDir())

		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "tempo.db")
		out := &bytes.Buffer{}
		r := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard), Output: out})

		if err := run(r, "setup", "database", "--seed"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, config.Database.Path)

		songs := runJSON[[]models.Song](t, r, out, "songs", "list", "--json")
		if len(songs) != 6 {
			t.Errorf("expected 6 seeded songs, got %d", len(songs))
		}

		statuses := runJSON[[]shared.MigrationStatus](t, r, out, "setup", "database", "--status", "--json")
		if len(statuses) == 0 {
			t.Fatal("expected migrations")
		}
		for _, s := range statuses {
			if !s.Applied {
				t.Errorf("expected migration %d to be applied", s.Version)
			}
		}
	})

	t.Run("database rejects conflicting flags", func(t *testing.T) {
		t.Chdir(t.TempDir())
		r := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})

		if err := run(r, "setup", "database", "--status", "--rollback"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("config", func(t *testing.T) {
		t.Chdir(t.TempDir())
		path := filepath.Join(t.TempDir(), "tempo.toml")
		r := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})

		if err := run(r, "--config", path, "setup", "config"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)

		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("expected written config to load, got %v", err)
		}
		if err := run(r, "--config", path, "setup", "config"); err == nil {
			t.Error("expected error when config already exists")
		}
	})
}

func TestConfigLoading(t *testing.T) {
	t.Run("config file and env overrides", func(t *testing.T) {
		t.Chdir(t.TempDir())

		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "from-env.db")
		if err := os.WriteFile("config.toml", []byte("[library]\nuser_id = 3\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		t.Setenv(shared.EnvDatabasePath, config.Database.Path)

		r := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})
		if err := run(r, "playlists", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if r.userID() != 3 {
			t.Errorf("expected user id 3 from config file, got %d", r.userID())
		}
		if r.config.Database.Path != config.Database.Path {
			t.Errorf("expected database path from env, got %s", r.config.Database.Path)
		}
		tu.AssertFileExists(t, config.Database.Path)
	})

	t.Run("invalid config file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if err := os.WriteFile("config.toml", []byte("[server]\nport = 0\n"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		r := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})
		if err := run(r, "songs", "list"); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
