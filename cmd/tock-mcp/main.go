// tock-mcp serves the tock task store to a local MCP client over stdio.
package main

import (
	"fmt"
	"os"

	"github.com/vthunder/tock/internal/activity"
	"github.com/vthunder/tock/internal/app"
	"github.com/vthunder/tock/internal/config"
	"github.com/vthunder/tock/internal/logging"
	"github.com/vthunder/tock/internal/mcp"
	"github.com/vthunder/tock/internal/mcp/tools"
	"github.com/vthunder/tock/internal/storage"
	"github.com/vthunder/tock/internal/tasks"
	"github.com/vthunder/tock/internal/timer"
)

func main() {
	// stdout carries JSON-RPC
	logging.SetOutput(os.Stderr)

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadEnv()

	statePath := config.StatePath()
	cfg, err := config.Load(statePath)
	if err != nil {
		logging.Info("mcp", "Warning: %v", err)
	}
	if err := os.MkdirAll(cfg.StatePath, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	persister, closeStorage, err := storage.Open(cfg.Backend, cfg.StatePath, cfg.DataFile)
	if err != nil {
		return err
	}
	defer closeStorage()

	store, err := tasks.Open(persister)
	if err != nil {
		// Refuse to serve an empty store over a file we could not read;
		// the first save would overwrite it.
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	actLog := activity.New(cfg.StatePath, "mcp")
	ctrl := app.New(app.Config{
		Store:      store,
		Runner:     timer.NewRunner(cfg.WorkMinutes, cfg.BreakMinutes),
		Presenter:  app.Discard{},
		Activity:   actLog,
		ExportPath: cfg.ExportPath(),
	})
	defer ctrl.Close()

	logging.Info("mcp", "serving %d tasks from %s (%s)", store.Len(), cfg.DataFile, cfg.Backend)
	s := mcp.NewServer(&tools.Dependencies{
		Store:       store,
		Controller:  ctrl,
		ActivityLog: actLog,
	})
	return mcp.ServeStdio(s)
}
