package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./tempo.db" {
			t.Errorf("expected database path ./tempo.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 5000 {
			t.Errorf("expected server port 5000, got %d", config.Server.Port)
		}

		if config.Library.UserID != 1 {
			t.Errorf("expected user id 1, got %d", config.Library.UserID)
		}

		if config.Player.Volume != 0.7 {
			t.Errorf("expected player volume 0.7, got %v", config.Player.Volume)
		}

		if config.Player.HistorySize != 6 {
			t.Errorf("expected history size 6, got %d", config.Player.HistorySize)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[library]
user_id = 7
seed = false
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}

		if config.Library.UserID != 7 || config.Library.Seed {
			t.Errorf("expected user 7 without seeding, got %+v", config.Library)
		}

		if config.Player.Volume != 0.7 {
			t.Errorf("missing keys should keep defaults, got volume %v", config.Player.Volume)
		}
	})

	t.Run("LoadConfig rejects invalid values", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[player]\nvolume = 1.5\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv(EnvDatabasePath, ":memory:")
		t.Setenv(EnvServerPort, "9090")
		t.Setenv(EnvLogLevel, "debug")
		t.Setenv(EnvUserID, "3")

		config := DefaultConfig()
		if err := config.ApplyEnv(); err != nil {
			t.Fatalf("failed to apply env: %v", err)
		}

		if config.Database.Path != ":memory:" {
			t.Errorf("expected database path :memory:, got %s", config.Database.Path)
		}
		if config.Server.Port != 9090 {
			t.Errorf("expected port 9090, got %d", config.Server.Port)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected log level debug, got %s", config.Log.Level)
		}
		if config.Library.UserID != 3 {
			t.Errorf("expected user id 3, got %d", config.Library.UserID)
		}
	})

	t.Run("ApplyEnv rejects bad port", func(t *testing.T) {
		t.Setenv(EnvServerPort, "http")

		if err := DefaultConfig().ApplyEnv(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadEnv", func(t *testing.T) {
		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte("TEMPO_TEST_LOAD_ENV=from-file\n"), 0644); err != nil {
			t.Fatalf("failed to write env file: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("TEMPO_TEST_LOAD_ENV") })

		if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env"), envPath); err != nil {
			t.Fatalf("failed to load env: %v", err)
		}

		if got := os.Getenv("TEMPO_TEST_LOAD_ENV"); got != "from-file" {
			t.Errorf("expected from-file, got %q", got)
		}
	})
}
