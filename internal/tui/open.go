// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-protected-text/internal/service"
)

// OpenModel is the start screen. It asks for a site name and password and
// opens the site, offering to create it when the name is free.
type OpenModel struct {
	ctx   context.Context
	sites service.SiteService

	inputs        []textinput.Model
	focus         int
	submitting    bool
	confirmCreate bool
	recent        []string
	status        string
	errMsg        string
}

// NewOpenModel creates an [OpenModel] with the site name field focused.
func NewOpenModel(ctx context.Context, sites service.SiteService, initialSite string) *OpenModel {
	nameInput := textinput.New()
	nameInput.Placeholder = "имя сайта"
	nameInput.CharLimit = 256
	nameInput.Width = 40
	nameInput.SetValue(initialSite)

	passwordInput := textinput.New()
	passwordInput.Placeholder = "пароль"
	passwordInput.CharLimit = 256
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '*'

	m := &OpenModel{
		ctx:    ctx,
		sites:  sites,
		inputs: []textinput.Model{nameInput, passwordInput},
	}
	if initialSite != "" {
		m.focus = 1
	}
	m.inputs[m.focus].Focus()
	return m
}

// Init implements [tea.Model]. Starts the cursor blink and loads the list of
// cached sites.
func (m *OpenModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.cmdLoadRecent())
}

// Update implements [tea.Model].
func (m *OpenModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recentLoadedMsg:
		// без кэша список просто не показываем
		if msg.err == nil {
			m.recent = msg.names
		}
		return m, nil
	case noticeMsg:
		m.status = msg.text
		m.errMsg = ""
		m.inputs[1].SetValue("")
		return m, m.cmdLoadRecent()
	case siteOpenedMsg:
		m.submitting = false
		if errors.Is(msg.err, service.ErrSiteNotFound) && !msg.offline {
			m.confirmCreate = true
			m.errMsg = ""
			return m, nil
		}
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.status = ""
		return m, func() tea.Msg {
			return NavigateTo{Page: pageSite, Payload: showSiteMsg{site: msg.site, offline: msg.offline}}
		}
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	if m.confirmCreate {
		switch {
		case key.Matches(keyMsg, keys.yes):
			m.confirmCreate = false
			m.submitting = true
			name, pass := m.values()
			return m, m.cmdCreate(name, pass)
		case key.Matches(keyMsg, keys.no):
			m.confirmCreate = false
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.tab):
		m.focusNext()
		return m, nil
	case key.Matches(keyMsg, keys.backtab):
		m.focusPrev()
		return m, nil
	case key.Matches(keyMsg, keys.enter), key.Matches(keyMsg, keys.offline):
		if m.submitting {
			return m, nil
		}

		name, pass := m.values()
		if name == "" || pass == "" {
			m.errMsg = "Имя сайта и пароль обязательны"
			return m, nil
		}

		m.errMsg = ""
		m.status = ""
		m.submitting = true
		if key.Matches(keyMsg, keys.offline) {
			return m, m.cmdOpenOffline(name, pass)
		}
		return m, m.cmdOpen(name, pass)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View implements [tea.Model].
func (m *OpenModel) View() string {
	var b strings.Builder
	b.WriteString("Поле    │ Значение\n")
	b.WriteString("────────┼────────────────────────────────────────────\n")
	b.WriteString("Сайт    │ [")
	b.WriteString(m.inputs[0].View())
	b.WriteString("]\n")
	b.WriteString("Пароль  │ [")
	b.WriteString(m.inputs[1].View())
	b.WriteString("]\n")

	if m.submitting {
		b.WriteString("\n[Открыть...]\n")
	} else {
		b.WriteString("\n[Открыть]\n")
	}

	if len(m.recent) > 0 {
		b.WriteString("\nНедавние: ")
		b.WriteString(strings.Join(m.recent, ", "))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n")
	}

	if m.confirmCreate {
		name, _ := m.values()
		b.WriteString("\n")
		b.WriteString(confirmModel{message: fmt.Sprintf("Сайт %q не существует. Создать?", name)}.View())
		b.WriteString("\n")
	}

	return renderPage("PROTECTED TEXT", strings.TrimRight(b.String(), "\n"),
		"tab: след. поле │ enter: открыть │ ctrl+o: офлайн-копия │ f1: о программе")
}

func (m *OpenModel) values() (name, password string) {
	return strings.TrimSpace(m.inputs[0].Value()), m.inputs[1].Value()
}

func (m *OpenModel) cmdOpen(name, pass string) tea.Cmd {
	ctx, sites := m.ctx, m.sites
	return func() tea.Msg {
		site, err := sites.Open(ctx, name, pass)
		return siteOpenedMsg{site: site, err: err}
	}
}

func (m *OpenModel) cmdCreate(name, pass string) tea.Cmd {
	ctx, sites := m.ctx, m.sites
	return func() tea.Msg {
		site, err := sites.Create(ctx, name, pass)
		return siteOpenedMsg{site: site, err: err}
	}
}

func (m *OpenModel) cmdOpenOffline(name, pass string) tea.Cmd {
	ctx, sites := m.ctx, m.sites
	return func() tea.Msg {
		doc, err := sites.Snapshot(ctx, name)
		if err != nil {
			return siteOpenedMsg{offline: true, err: err}
		}
		if !doc.Exists() {
			return siteOpenedMsg{offline: true, err: service.ErrSiteNotFound}
		}
		site, err := doc.Unlock(pass)
		return siteOpenedMsg{site: site, offline: true, err: err}
	}
}

func (m *OpenModel) cmdLoadRecent() tea.Cmd {
	ctx, sites := m.ctx, m.sites
	return func() tea.Msg {
		names, err := sites.Recent(ctx)
		return recentLoadedMsg{names: names, err: err}
	}
}

func (m *OpenModel) focusNext() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *OpenModel) focusPrev() {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}
