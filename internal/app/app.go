package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"jobtrack/internal/config"
	"jobtrack/internal/legacy"
	"jobtrack/internal/store"
	"jobtrack/internal/tracker"
)

// App is the application layer between the CLI and the tracker service. It
// constructs all dependencies from config, owns the store handle for the
// process lifetime, and tears everything down on Close.
type App struct {
	cfg     *config.Config
	store   tracker.Store
	service *tracker.Service
	logFile *os.File
}

// NewApp creates a fully wired App from the given config. op identifies the
// CLI command being run (e.g. "AddApplication", "Export"). The caller must
// call Close when done.
func NewApp(cfg *config.Config, op string) (*App, error) {
	logger, logFile, err := newLogger(cfg.LogDir, op)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	st, err := store.NewStoreFromConfig(cfg.Store, logger)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening store: %w", err)
	}

	svc := tracker.NewService(st, &slogAdapter{l: logger}, tracker.RealClock{}, tracker.UUIDGenerator{})

	return &App{
		cfg:     cfg,
		store:   st,
		service: svc,
		logFile: logFile,
	}, nil
}

// Service exposes the tracker service for the CLI.
func (a *App) Service() *tracker.Service {
	return a.service
}

// MigrateLegacy runs the one-time legacy migration against the configured
// flat store.
func (a *App) MigrateLegacy(ctx context.Context) (*tracker.MigrationReport, error) {
	if a.cfg.Legacy.Path == "" {
		return nil, fmt.Errorf("no legacy store path configured")
	}
	src := legacy.NewFileSource(a.cfg.Legacy.Path)
	timeout := time.Duration(a.cfg.Legacy.TimeoutMS) * time.Millisecond
	return a.service.MigrateLegacy(ctx, src, timeout)
}

// Close releases the store and the log file.
func (a *App) Close() error {
	var firstErr error
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			firstErr = err
		}
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
