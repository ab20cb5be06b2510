// Package tui implements the terminal client: an open screen that asks for a
// site name and password, and a site screen that lists, edits and saves the
// tabs of the opened site.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-protected-text/internal/logger"
	"github.com/MKhiriev/go-protected-text/internal/service"
	"github.com/MKhiriev/go-protected-text/internal/workers"
	"github.com/MKhiriev/go-protected-text/models"
)

type TUI struct {
	sites     service.SiteService
	watcher   *workers.Watcher
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

// New wires the TUI. watcher may be nil, which disables the remote change
// banner.
func New(sites service.SiteService, watcher *workers.Watcher, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{
		sites:     sites,
		watcher:   watcher,
		buildInfo: buildInfo,
		logger:    logger,
	}
}

// Run starts the program and blocks until the user quits. initialSite
// prefills the site name.
func (t *TUI) Run(ctx context.Context, initialSite string) error {
	root := t.newRootModel(ctx, initialSite)

	finalModel, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		t.logger.Err(err).Str("func", "TUI.Run").Msg("tui program failed")
		return err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}
	return nil
}

func (t *TUI) newRootModel(ctx context.Context, initialSite string) RootModel {
	pages := map[string]tea.Model{
		pageOpen: NewOpenModel(ctx, t.sites, initialSite),
		pageSite: NewSiteModel(ctx, t.sites, t.watcher),
	}
	return NewRootModel(pages, pageOpen, t.buildInfo)
}
