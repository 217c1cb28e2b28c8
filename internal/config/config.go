// Package config loads tock's settings from <state>/config.yaml and the
// environment. Command-line flags are applied by the commands on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vthunder/tock/internal/logging"
	"github.com/vthunder/tock/internal/storage"
	"github.com/vthunder/tock/internal/timer"
)

// Filename is the YAML file inside the state directory.
const Filename = "config.yaml"

// Config holds everything the commands need to wire a session.
type Config struct {
	StatePath string `yaml:"-"`

	WorkMinutes  int `yaml:"work_minutes"`
	BreakMinutes int `yaml:"break_minutes"`

	Backend    string `yaml:"backend"`     // "json" or "sqlite"
	DataFile   string `yaml:"data_file"`   // relative to the state directory; empty means the backend default
	ExportFile string `yaml:"export_file"` // default CSV export target

	Bell bool `yaml:"bell"`

	DiscordChannel string `yaml:"discord_channel,omitempty"`
	DiscordToken   string `yaml:"-"` // secrets come from the environment only
}

// Default returns the built-in settings.
func Default(statePath string) Config {
	return Config{
		StatePath:    statePath,
		WorkMinutes:  timer.DefaultWorkMinutes,
		BreakMinutes: timer.DefaultBreakMinutes,
		Backend:      storage.BackendJSON,
		ExportFile:   "tasks.csv",
		Bell:         true,
	}
}

// StatePath returns TOCK_STATE_PATH, or "state".
func StatePath() string {
	if p := os.Getenv("TOCK_STATE_PATH"); p != "" {
		return p
	}
	return "state"
}

// LoadEnv loads a .env file from the working directory if there is one.
func LoadEnv() {
	if err := godotenv.Load(); err == nil {
		logging.Info("config", "Loaded .env file")
	}
}

// Load reads <statePath>/config.yaml over the defaults and then applies
// environment overrides. A missing file is not an error.
func Load(statePath string) (Config, error) {
	cfg := Default(statePath)

	data, err := os.ReadFile(cfg.Path())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Default(statePath), fmt.Errorf("failed to parse %s: %w", cfg.Path(), err)
		}
		cfg.StatePath = statePath
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TOCK_WORK_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TOCK_WORK_MINUTES: %w", err)
		}
		c.WorkMinutes = n
	}
	if v := os.Getenv("TOCK_BREAK_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TOCK_BREAK_MINUTES: %w", err)
		}
		c.BreakMinutes = n
	}
	if v := os.Getenv("TOCK_BACKEND"); v != "" {
		c.SetBackend(v)
	}
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		c.DiscordToken = v
	}
	if v := os.Getenv("DISCORD_CHANNEL_ID"); v != "" {
		c.DiscordChannel = v
	}
	return nil
}

// Validate checks the backend name and clamps the timer lengths the way
// the timer itself does.
func (c *Config) Validate() error {
	if c.WorkMinutes < 1 {
		c.WorkMinutes = 1
	}
	if c.BreakMinutes < 1 {
		c.BreakMinutes = 1
	}
	switch c.Backend {
	case storage.BackendJSON, storage.BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	// The other backend's default name is never what the user meant.
	switch {
	case c.DataFile == "",
		c.Backend == storage.BackendSQLite && c.DataFile == storage.DefaultFilename,
		c.Backend == storage.BackendJSON && c.DataFile == storage.DefaultDBFilename:
		c.DataFile = defaultDataFile(c.Backend)
	}
	return nil
}

func defaultDataFile(backend string) string {
	if backend == storage.BackendSQLite {
		return storage.DefaultDBFilename
	}
	return storage.DefaultFilename
}

// SetBackend switches the storage backend. A data file that is the old
// backend's default is cleared so Validate picks the new default.
func (c *Config) SetBackend(backend string) {
	if backend == c.Backend {
		return
	}
	if c.DataFile == storage.DefaultFilename || c.DataFile == storage.DefaultDBFilename {
		c.DataFile = ""
	}
	c.Backend = backend
}

// Path returns the config file location.
func (c Config) Path() string {
	return filepath.Join(c.StatePath, Filename)
}

// ExportPath resolves ExportFile against the state directory.
func (c Config) ExportPath() string {
	if filepath.IsAbs(c.ExportFile) {
		return c.ExportFile
	}
	return filepath.Join(c.StatePath, c.ExportFile)
}

// Save writes the config back to <state>/config.yaml.
func (c Config) Save() error {
	if err := os.MkdirAll(c.StatePath, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.Path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
