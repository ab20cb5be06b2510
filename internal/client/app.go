package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-protected-text/internal/adapter"
	"github.com/MKhiriev/go-protected-text/internal/config"
	"github.com/MKhiriev/go-protected-text/internal/logger"
	"github.com/MKhiriev/go-protected-text/internal/service"
	"github.com/MKhiriev/go-protected-text/internal/store"
	"github.com/MKhiriev/go-protected-text/internal/tui"
	"github.com/MKhiriev/go-protected-text/internal/workers"
	"github.com/MKhiriev/go-protected-text/models"
)

type App struct {
	storages *store.ClientStorages
	workers  *workers.Workers
	tui      *tui.TUI
	site     string
	logger   *logger.Logger
}

// NewApp wires the remote adapter, the snapshot cache, the site service,
// the change watcher and the terminal UI from cfg.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*App, error) {
	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	sites := service.NewSiteService(serverAdapter, storages)
	watcher := workers.NewWatcher(serverAdapter, cfg.Workers.WatchInterval, log)

	return &App{
		storages: storages,
		workers:  workers.NewWorkers(watcher),
		tui:      tui.New(sites, watcher, buildInfo, log),
		site:     cfg.App.Site,
		logger:   log,
	}, nil
}

// Run starts background workers and blocks in the terminal UI. Quitting
// the UI is a normal exit.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(a.logger.WithContext(ctx))
	defer cancel()
	defer a.Close()

	a.workers.Run(ctx)
	defer a.workers.Stop()

	err := a.tui.Run(ctx, a.site)
	if errors.Is(err, tui.ErrUserQuit) {
		a.logger.Info().Msg("client stopped by user")
		return nil
	}
	return err
}

// Close releases the snapshot database.
func (a *App) Close() error {
	if err := a.storages.Close(); err != nil {
		a.logger.Err(err).Msg("error closing local storage")
		return err
	}
	return nil
}
