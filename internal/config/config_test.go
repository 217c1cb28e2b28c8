package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vthunder/tock/internal/storage"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TOCK_WORK_MINUTES", "TOCK_BREAK_MINUTES", "TOCK_BACKEND", "DISCORD_TOKEN", "DISCORD_CHANNEL_ID"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WorkMinutes != 25 || cfg.BreakMinutes != 5 {
		t.Errorf("Expected 25/5, got %d/%d", cfg.WorkMinutes, cfg.BreakMinutes)
	}
	if cfg.Backend != storage.BackendJSON || cfg.DataFile != "tasks.json" {
		t.Errorf("Unexpected storage defaults: %+v", cfg)
	}
	if !cfg.Bell {
		t.Error("Bell should default on")
	}
	if cfg.ExportPath() != filepath.Join(dir, "tasks.csv") {
		t.Errorf("Unexpected export path %s", cfg.ExportPath())
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yaml := "work_minutes: 50\nbreak_minutes: 10\nbackend: sqlite\ndata_file: \"\"\nbell: false\n"
	if err := os.WriteFile(filepath.Join(dir, Filename), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOCK_BREAK_MINUTES", "15")
	t.Setenv("DISCORD_TOKEN", "secret")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.WorkMinutes != 50 {
		t.Errorf("Expected work 50 from file, got %d", cfg.WorkMinutes)
	}
	if cfg.BreakMinutes != 15 {
		t.Errorf("Expected env to override break, got %d", cfg.BreakMinutes)
	}
	if cfg.Backend != storage.BackendSQLite || cfg.DataFile != "tasks.db" {
		t.Errorf("Expected sqlite defaults, got %s %s", cfg.Backend, cfg.DataFile)
	}
	if cfg.Bell {
		t.Error("Expected bell off from file")
	}
	if cfg.DiscordToken != "secret" {
		t.Error("Expected token from environment")
	}
	if cfg.StatePath != dir {
		t.Errorf("StatePath lost: %s", cfg.StatePath)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	t.Run("bad yaml", func(t *testing.T) {
		dir := t.TempDir()
		os.WriteFile(filepath.Join(dir, Filename), []byte("work_minutes: [\n"), 0644)
		cfg, err := Load(dir)
		if err == nil {
			t.Fatal("Expected parse error")
		}
		if cfg.WorkMinutes != 25 {
			t.Errorf("Expected defaults alongside the error, got %d", cfg.WorkMinutes)
		}
	})

	t.Run("bad env number", func(t *testing.T) {
		t.Setenv("TOCK_WORK_MINUTES", "soon")
		if _, err := Load(t.TempDir()); err == nil {
			t.Error("Expected error for non-numeric minutes")
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("TOCK_BACKEND", "postgres")
		if _, err := Load(t.TempDir()); err == nil {
			t.Error("Expected error for unknown backend")
		}
	})
}

func TestValidate_ClampsMinutes(t *testing.T) {
	cfg := Default(t.TempDir())
	cfg.WorkMinutes = 0
	cfg.BreakMinutes = -3
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.WorkMinutes != 1 || cfg.BreakMinutes != 1 {
		t.Errorf("Expected clamp to 1, got %d/%d", cfg.WorkMinutes, cfg.BreakMinutes)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "state")
	cfg := Default(dir)
	cfg.WorkMinutes = 40
	cfg.DiscordToken = "never-written"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, _ := os.ReadFile(cfg.Path())
	if len(data) == 0 {
		t.Fatal("Expected config file contents")
	}
	if strings.Contains(string(data), "never-written") {
		t.Error("Token must not be written to disk")
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got.WorkMinutes != 40 {
		t.Errorf("Expected 40 after reload, got %d", got.WorkMinutes)
	}
}

func TestStatePath(t *testing.T) {
	t.Setenv("TOCK_STATE_PATH", "")
	if StatePath() != "state" {
		t.Errorf("Expected default state path, got %s", StatePath())
	}
	t.Setenv("TOCK_STATE_PATH", "/tmp/tock")
	if StatePath() != "/tmp/tock" {
		t.Errorf("Expected env state path, got %s", StatePath())
	}
}


func TestSetBackend(t *testing.T) {
	cfg := Default(t.TempDir())
	cfg.SetBackend(storage.BackendSQLite)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.DataFile != storage.DefaultDBFilename {
		t.Errorf("Expected sqlite default file, got %q", cfg.DataFile)
	}

	cfg.DataFile = "mine.db"
	cfg.SetBackend(storage.BackendJSON)
	if cfg.DataFile != "mine.db" {
		t.Errorf("Custom data file should survive a backend switch, got %q", cfg.DataFile)
	}
}

func TestLoad_BackendFromFileUsesBackendDefault(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, Filename), []byte("backend: sqlite\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != storage.BackendSQLite || cfg.DataFile != storage.DefaultDBFilename {
		t.Errorf("Expected sqlite with %s, got %s %s", storage.DefaultDBFilename, cfg.Backend, cfg.DataFile)
	}
}

func TestLoad_SavedJSONDefaultFollowsBackend(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	// A config saved under the json backend pins data_file: tasks.json.
	saved := Default(dir)
	if err := saved.Validate(); err != nil {
		t.Fatal(err)
	}
	if err := saved.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	t.Setenv("TOCK_BACKEND", "sqlite")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DataFile != storage.DefaultDBFilename {
		t.Errorf("Expected %s, got %s", storage.DefaultDBFilename, cfg.DataFile)
	}

	// A custom name is kept whatever the backend.
	cfg.DataFile = "work.sqlite"
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.DataFile != "work.sqlite" {
		t.Errorf("Custom data file changed to %s", cfg.DataFile)
	}
}
