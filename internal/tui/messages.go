package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-protected-text/internal/document"
	"github.com/MKhiriev/go-protected-text/internal/workers"
)

const (
	pageOpen = "open"
	pageSite = "site"
)

// NavigateTo asks [RootModel] to switch the active page. Payload, if set,
// is delivered to the new page instead of calling its Init.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// siteOpenedMsg is the result of opening, creating or reloading a site.
type siteOpenedMsg struct {
	site    *document.Unlocked
	offline bool
	err     error
}

// showSiteMsg hands an opened site to the site page.
type showSiteMsg struct {
	site    *document.Unlocked
	offline bool
}

// noticeMsg carries a status line back to the open page.
type noticeMsg struct {
	text string
}

type recentLoadedMsg struct {
	names []string
	err   error
}

type siteSavedMsg struct {
	err error
}

type siteDeletedMsg struct {
	err error
}

type remoteChangedMsg struct {
	change workers.Change
}

type copiedMsg struct {
	err error
}
