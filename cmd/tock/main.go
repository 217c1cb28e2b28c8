// tock is a terminal task tracker with a work/break interval timer.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/vthunder/tock/internal/activity"
	"github.com/vthunder/tock/internal/app"
	"github.com/vthunder/tock/internal/config"
	"github.com/vthunder/tock/internal/logging"
	"github.com/vthunder/tock/internal/notify"
	"github.com/vthunder/tock/internal/profiling"
	"github.com/vthunder/tock/internal/storage"
	"github.com/vthunder/tock/internal/tasks"
	"github.com/vthunder/tock/internal/timer"
	"github.com/vthunder/tock/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options are the command-line settings layered over config.yaml.
type options struct {
	statePath string
	work      int
	brk       int
	backend   string
	dataFile  string
	logOutput string
	history   int
	repeat    bool
	profile   bool
	debug     bool
}

func run() error {
	var opts options
	flagSet := pflag.NewFlagSet("tock", pflag.ContinueOnError)
	flagSet.StringVar(&opts.statePath, "state", "", "state directory (default: $TOCK_STATE_PATH or ./state)")
	flagSet.IntVar(&opts.work, "work", 0, "work phase length in minutes")
	flagSet.IntVar(&opts.brk, "break", 0, "break phase length in minutes")
	flagSet.StringVar(&opts.backend, "backend", "", "task storage backend: json or sqlite")
	flagSet.StringVar(&opts.dataFile, "data", "", "task file, relative to the state directory")
	flagSet.StringVar(&opts.logOutput, "log-output", "", "log file for the terminal UI (default: <state>/tock.log)")
	flagSet.IntVar(&opts.history, "history", 0, "print the last N activity entries and exit")
	flagSet.BoolVar(&opts.repeat, "repeat", false, "timer: keep alternating work and break phases")
	flagSet.BoolVar(&opts.profile, "profile", false, "record storage timings to <state>/profile.jsonl")
	flagSet.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	args := flagSet.Args()
	headless := false
	if len(args) > 0 {
		if args[0] != "timer" || len(args) > 1 {
			return fmt.Errorf("unexpected argument: %s", args[0])
		}
		headless = true
	}

	if opts.debug {
		logging.SetDebug(true)
	}
	config.LoadEnv()

	if opts.statePath == "" {
		opts.statePath = config.StatePath()
	}
	cfg, cfgErr := config.Load(opts.statePath)
	if cfgErr != nil {
		logging.Info("main", "Warning: %v", cfgErr)
	}
	if err := applyFlags(&cfg, flagSet, opts); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.StatePath, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	source := "tui"
	if headless {
		source = "timer"
	}
	actLog := activity.New(cfg.StatePath, source)
	if opts.history > 0 {
		return printHistory(os.Stdout, actLog, opts.history)
	}

	if !headless {
		logPath := opts.logOutput
		if logPath == "" {
			logPath = filepath.Join(cfg.StatePath, "tock.log")
		}
		restore, err := logging.ToFile(logPath)
		if err != nil {
			return err
		}
		defer restore()
	}

	persister, closeStorage, err := storage.Open(cfg.Backend, cfg.StatePath, cfg.DataFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStorage(); err != nil {
			logging.Info("main", "Warning: failed to close storage: %v", err)
		}
	}()
	var profiler *profiling.Profiler
	if opts.profile {
		profiler, err = profiling.Open(filepath.Join(cfg.StatePath, profiling.Filename))
		if err != nil {
			return err
		}
		defer profiler.Close()
	}
	store, loadErr := tasks.Open(profiling.Wrap(profiler, cfg.Backend, persister))
	if loadErr != nil {
		logging.Info("main", "Warning: failed to load tasks: %v", loadErr)
	}

	notifier, closeNotifier := buildNotifier(cfg)
	defer closeNotifier()

	appCfg := app.Config{
		Store:      store,
		Runner:     timer.NewRunner(cfg.WorkMinutes, cfg.BreakMinutes),
		Activity:   actLog,
		Notifier:   notifier,
		ExportPath: cfg.ExportPath(),
		OnConfigure: func(workMinutes, breakMinutes int) {
			cfg.WorkMinutes = workMinutes
			cfg.BreakMinutes = breakMinutes
			if err := cfg.Save(); err != nil {
				logging.Info("main", "Warning: failed to save config: %v", err)
			}
		},
	}

	if headless {
		return runTimer(appCfg, opts.repeat)
	}

	model := tui.NewModel(appCfg)
	ctrl := model.Controller()
	if cfgErr != nil {
		ctrl.ReportLoad(fmt.Errorf("config: %w", cfgErr))
	}
	ctrl.ReportLoad(loadErr)
	defer ctrl.Close()

	logging.Info("main", "starting with %d tasks from %s (%s)", store.Len(), cfg.DataFile, cfg.Backend)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// applyFlags overrides cfg with the flags the user actually set.
func applyFlags(cfg *config.Config, flagSet *pflag.FlagSet, opts options) error {
	if flagSet.Changed("work") {
		cfg.WorkMinutes = opts.work
	}
	if flagSet.Changed("break") {
		cfg.BreakMinutes = opts.brk
	}
	if flagSet.Changed("backend") {
		cfg.SetBackend(opts.backend)
	}
	if flagSet.Changed("data") {
		cfg.DataFile = opts.dataFile
	}
	return cfg.Validate()
}

// buildNotifier combines the terminal bell with Discord when configured.
func buildNotifier(cfg config.Config) (notify.Notifier, func()) {
	var notifiers notify.Multi
	if cfg.Bell {
		notifiers = append(notifiers, notify.NewBell(os.Stderr))
	}
	closeFn := func() {}
	if cfg.DiscordToken != "" && cfg.DiscordChannel != "" {
		discord, err := notify.NewDiscord(cfg.DiscordToken, cfg.DiscordChannel)
		if err != nil {
			logging.Info("main", "Warning: discord notifications disabled: %v", err)
		} else {
			notifiers = append(notifiers, discord)
			closeFn = func() {
				if err := discord.Close(); err != nil {
					logging.Debug("main", "discord close: %v", err)
				}
			}
			logging.Info("main", "Discord notifications to channel %s", cfg.DiscordChannel)
		}
	}
	if len(notifiers) == 0 {
		return nil, closeFn
	}
	return notifiers, closeFn
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `tock - task list with a work/break timer.

Usage:
  tock [flags]           open the terminal UI
  tock timer [flags]     run the timer without the UI
  tock --history N       show recent activity

Settings are read from <state>/config.yaml, then the environment
(TOCK_WORK_MINUTES, TOCK_BREAK_MINUTES, TOCK_BACKEND, DISCORD_TOKEN,
DISCORD_CHANNEL_ID), then these flags.

Flags:
`)
	flagSet.PrintDefaults()
}
