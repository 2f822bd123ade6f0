package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/doone/internal/audio"
	"github.com/alexanderramin/doone/internal/cli"
	"github.com/alexanderramin/doone/internal/config"
	"github.com/alexanderramin/doone/internal/db"
	"github.com/alexanderramin/doone/internal/ledger"
	"github.com/alexanderramin/doone/internal/notify"
	"github.com/alexanderramin/doone/internal/repository"
	"github.com/alexanderramin/doone/internal/service"
	"github.com/alexanderramin/doone/internal/settings"
	"github.com/alexanderramin/doone/internal/streak"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger()
	slog.SetDefault(logger)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories and stores
	taskRepo := repository.NewSQLiteTaskRepo(database)
	kv := repository.NewSQLiteKVStore(database)
	uow := db.NewSQLiteUnitOfWork(database)

	minutes := ledger.New(kv, logger)
	streaks := streak.New(kv, logger)
	store := settings.New(kv, minutes, logger)

	// Audio and notifications degrade to no-ops when disabled
	catalog := audio.NewCatalog(cfg.SoundsDir)
	var player audio.Player = audio.SilentPlayer{}
	if cfg.Audio {
		player = audio.NewBeepPlayer()
	}
	manager := audio.NewManager(player, catalog, logger)

	var notifier notify.Dispatcher = notify.Noop{}
	if cfg.Notifications {
		notifier = notify.NewDesktop()
	}

	observer := newObserver()

	app := &cli.App{
		Tasks: service.NewTaskService(taskRepo, uow, observer),
		Focus: service.NewFocusService(service.FocusDeps{
			Tasks:    taskRepo,
			Settings: store,
			Minutes:  minutes,
			Streaks:  streaks,
			Catalog:  catalog,
			Audio:    manager,
			Notifier: notifier,
			Logger:   logger,
		}, observer),
		Stats:    service.NewStatsService(minutes, streaks, store),
		Settings: store,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// newLogger keeps internal logging quiet unless DOONE_DEBUG is set.
func newLogger() *slog.Logger {
	if os.Getenv("DOONE_DEBUG") == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newObserver() service.UseCaseObserver {
	if os.Getenv("DOONE_DEBUG") == "" {
		return service.NoopUseCaseObserver{}
	}
	return service.NewLogUseCaseObserver(os.Stderr)
}
