package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-protected-text/internal/codec"
	"github.com/MKhiriev/go-protected-text/internal/document"
	"github.com/MKhiriev/go-protected-text/internal/service"
	"github.com/MKhiriev/go-protected-text/internal/workers"
)

type siteMode int

const (
	siteModeList siteMode = iota
	siteModeEdit
	siteModeTitle
	siteModeConfirmRemoveTab
	siteModeConfirmDestroy
	siteModeConfirmLeave
)

// newTabIndex marks the editor as adding a tab rather than editing one.
const newTabIndex = -1

// SiteModel shows the tabs of an opened site and edits them.
type SiteModel struct {
	ctx     context.Context
	sites   service.SiteService
	watcher *workers.Watcher

	site      *document.Unlocked
	offline   bool
	idx       int
	dirty     bool
	mode      siteMode
	busy      bool
	listening bool
	remote    *workers.Change
	// known is the remote blob the watcher compares against
	known string

	editor     textarea.Model
	editIdx    int
	titleInput textinput.Model

	status string
	errMsg string
}

// NewSiteModel creates an empty [SiteModel]. watcher may be nil.
func NewSiteModel(ctx context.Context, sites service.SiteService, watcher *workers.Watcher) *SiteModel {
	editor := textarea.New()
	editor.Placeholder = "Текст вкладки"
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.SetWidth(72)
	editor.SetHeight(16)

	titleInput := textinput.New()
	titleInput.Placeholder = "заголовок (пусто: убрать)"
	titleInput.CharLimit = 256
	titleInput.Width = 40

	return &SiteModel{
		ctx:        ctx,
		sites:      sites,
		watcher:    watcher,
		editor:     editor,
		titleInput: titleInput,
	}
}

func (m *SiteModel) Init() tea.Cmd {
	return nil
}

func (m *SiteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 8 {
			m.editor.SetWidth(msg.Width - 8)
		}
		if msg.Height > 12 {
			m.editor.SetHeight(msg.Height - 12)
		}
		return m, nil
	case showSiteMsg:
		return m, m.show(msg.site, msg.offline)
	case siteOpenedMsg:
		// результат перезагрузки
		m.busy = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.status = "Сайт перезагружен"
		return m, m.show(msg.site, false)
	case siteSavedMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			m.resumeWatch()
			return m, nil
		}
		m.dirty = false
		m.remote = nil
		m.errMsg = ""
		m.status = "Сохранено"
		m.watch()
		return m, nil
	case siteDeletedMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			m.resumeWatch()
			return m, nil
		}
		return m, m.leave("Сайт удалён")
	case remoteChangedMsg:
		if m.site != nil && !m.offline && msg.change.Name == m.site.Name() {
			change := msg.change
			m.remote = &change
		}
		return m, m.waitForChange()
	case copiedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Ошибка копирования: %v", msg.err)
			return m, nil
		}
		m.status = "Скопировано"
		return m, nil
	}

	if m.site == nil {
		return m, nil
	}

	if _, isKey := msg.(tea.KeyMsg); isKey && m.busy && m.mode != siteModeList {
		return m, nil
	}

	switch m.mode {
	case siteModeEdit:
		return m.updateEditor(msg)
	case siteModeTitle:
		return m.updateTitle(msg)
	case siteModeConfirmRemoveTab, siteModeConfirmDestroy, siteModeConfirmLeave:
		return m.updateConfirm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	return m.updateList(keyMsg)
}

func (m *SiteModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tabs := m.site.Tabs()
	m.errMsg = ""

	// the running request reads the site; only moving the cursor, copying
	// and quitting are allowed until it is done
	if m.busy && !key.Matches(msg, keys.up, keys.down, keys.copy, keys.quit) {
		m.status = "Дождитесь окончания операции"
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.esc):
		if m.dirty {
			m.mode = siteModeConfirmLeave
			return m, nil
		}
		return m, m.leave("")
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(tabs)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.moveUp):
		m.moveTab(m.idx - 1)
	case key.Matches(msg, keys.moveDown):
		m.moveTab(m.idx + 1)
	case key.Matches(msg, keys.newTab):
		m.startEdit(newTabIndex, "")
		return m, textarea.Blink
	case key.Matches(msg, keys.edit):
		if len(tabs) == 0 {
			m.status = "Нет вкладок"
			return m, nil
		}
		m.startEdit(m.idx, tabs[m.idx])
		return m, textarea.Blink
	case key.Matches(msg, keys.delete):
		if len(tabs) == 0 {
			return m, nil
		}
		m.mode = siteModeConfirmRemoveTab
	case key.Matches(msg, keys.copy):
		if len(tabs) == 0 {
			m.status = "Нечего копировать"
			return m, nil
		}
		return m, cmdCopy(tabs[m.idx])
	case key.Matches(msg, keys.title):
		meta, err := m.site.Metadata()
		if err != nil {
			m.errMsg = humanizeError(err)
			return m, nil
		}
		m.titleInput.SetValue(meta.Title())
		m.titleInput.Focus()
		m.mode = siteModeTitle
		return m, textinput.Blink
	case key.Matches(msg, keys.save):
		if m.offline {
			m.errMsg = "Офлайн-копию нельзя сохранить"
			return m, nil
		}
		m.busy = true
		m.status = "Сохранение..."
		m.pauseWatch()
		return m, m.cmdSave()
	case key.Matches(msg, keys.reload):
		if m.offline {
			return m, nil
		}
		m.busy = true
		m.status = "Загрузка..."
		return m, m.cmdReload()
	case key.Matches(msg, keys.destroy):
		if m.offline || !m.site.Document().Exists() {
			return m, nil
		}
		m.mode = siteModeConfirmDestroy
	}

	return m, nil
}

func (m *SiteModel) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.stopEdit()
			return m, nil
		case key.Matches(keyMsg, keys.apply):
			var err error
			content := m.editor.Value()
			if m.editIdx == newTabIndex {
				err = m.site.AddTab(content)
			} else {
				err = m.site.UpdateTab(m.editIdx, content)
			}
			if err != nil {
				m.errMsg = humanizeError(err)
				return m, nil
			}
			if m.editIdx == newTabIndex {
				m.idx = len(m.site.Tabs()) - 1
			}
			m.dirty = true
			m.stopEdit()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *SiteModel) updateTitle(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.titleInput.Blur()
			m.mode = siteModeList
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if err := m.setTitle(strings.TrimSpace(m.titleInput.Value())); err != nil {
				m.errMsg = humanizeError(err)
				return m, nil
			}
			m.titleInput.Blur()
			m.mode = siteModeList
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.titleInput, cmd = m.titleInput.Update(msg)
	return m, cmd
}

func (m *SiteModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.yes):
		mode := m.mode
		m.mode = siteModeList
		switch mode {
		case siteModeConfirmRemoveTab:
			if err := m.site.RemoveTab(m.idx); err != nil {
				m.errMsg = "Нельзя удалить последнюю вкладку"
				return m, nil
			}
			m.dirty = true
			if m.idx >= len(m.site.Tabs()) {
				m.idx = len(m.site.Tabs()) - 1
			}
		case siteModeConfirmDestroy:
			m.busy = true
			m.status = "Удаление..."
			m.pauseWatch()
			return m, m.cmdDelete()
		case siteModeConfirmLeave:
			return m, m.leave("")
		}
	case key.Matches(keyMsg, keys.no):
		m.mode = siteModeList
	}
	return m, nil
}

func (m *SiteModel) View() string {
	if m.site == nil {
		return renderPage("САЙТ", "", "esc: назад")
	}

	switch m.mode {
	case siteModeEdit:
		title := "НОВАЯ ВКЛАДКА"
		if m.editIdx != newTabIndex {
			title = fmt.Sprintf("ВКЛАДКА %d", m.editIdx+1)
		}
		return renderPage(title, m.editor.View()+m.footer(), "ctrl+s: применить │ esc: отмена")
	case siteModeTitle:
		return renderPage("ЗАГОЛОВОК", "["+m.titleInput.View()+"]"+m.footer(), "enter: применить │ esc: отмена")
	}

	var b strings.Builder
	if m.remote != nil {
		text := "Сайт изменён в другом месте. r: перезагрузить"
		if m.remote.Deleted {
			text = "Сайт удалён в другом месте"
		}
		b.WriteString(bannerStyle.Render(text))
		b.WriteString("\n\n")
	}

	tabs := m.site.Tabs()
	if len(tabs) == 0 {
		b.WriteString("Нет вкладок. n: добавить\n")
	}
	for i := range tabs {
		title, _ := m.site.TabTitle(i)
		if strings.TrimSpace(title) == "" {
			title = "(без названия)"
		}
		line := fmt.Sprintf("%d. %s", i+1, fitText(title, 60))
		if i == m.idx {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.idx >= 0 && m.idx < len(tabs) {
		b.WriteString("\n")
		b.WriteString(uiDivider)
		b.WriteString("\n")
		b.WriteString(previewLines(tabs[m.idx], 10))
		b.WriteString("\n")
	}

	switch m.mode {
	case siteModeConfirmRemoveTab:
		b.WriteString("\n")
		b.WriteString(confirmModel{message: fmt.Sprintf("Удалить вкладку %d?", m.idx+1)}.View())
	case siteModeConfirmDestroy:
		b.WriteString("\n")
		b.WriteString(confirmModel{message: fmt.Sprintf("Удалить сайт %q навсегда?", m.site.Name()), danger: true}.View())
	case siteModeConfirmLeave:
		b.WriteString("\n")
		b.WriteString(confirmModel{message: "Есть несохранённые изменения. Выйти без сохранения?"}.View())
	}
	b.WriteString(m.footer())

	hotKeys := "↑/↓: выбор │ enter: изменить │ n: новая │ ctrl+d: удалить │ shift+↑/↓: переместить │ c: копировать │ t: заголовок │ s: сохранить │ r: перезагрузить │ ctrl+x: удалить сайт │ esc: назад"
	if m.offline {
		hotKeys = "↑/↓: выбор │ c: копировать │ esc: назад"
	}
	return renderPage(m.pageTitle(), strings.TrimRight(b.String(), "\n"), hotKeys)
}

func (m *SiteModel) pageTitle() string {
	title := "САЙТ: " + m.site.Name()
	if meta, err := m.site.Metadata(); err == nil && meta.Title() != "" {
		title += " | " + meta.Title()
	}
	if m.offline {
		title += " [офлайн]"
	}
	if m.dirty {
		title += " *"
	}
	return title
}

func (m *SiteModel) footer() string {
	var b strings.Builder
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorOverlayModel{site: m.site.Name(), message: m.errMsg}.View())
	}
	return b.String()
}

func (m *SiteModel) show(site *document.Unlocked, offline bool) tea.Cmd {
	m.site = site
	m.offline = offline
	m.idx = 0
	m.dirty = false
	m.mode = siteModeList
	m.remote = nil
	m.errMsg = ""

	if offline {
		if m.watcher != nil {
			m.watcher.Unwatch()
		}
		return nil
	}

	m.watch()
	if m.listening || m.watcher == nil {
		return nil
	}
	m.listening = true
	return m.waitForChange()
}

func (m *SiteModel) watch() {
	if m.watcher == nil || m.site == nil {
		return
	}
	m.known = m.site.Document().EncryptedContent()
	m.watcher.Watch(m.site.Name(), m.known)
}

// pauseWatch stops change reports while an own save or delete is in
// flight, so the client does not report its own write.
func (m *SiteModel) pauseWatch() {
	if m.watcher != nil {
		m.watcher.Unwatch()
	}
}

// resumeWatch watches again against the blob known before a failed request.
func (m *SiteModel) resumeWatch() {
	if m.watcher == nil || m.site == nil || m.offline {
		return
	}
	m.watcher.Watch(m.site.Name(), m.known)
}

func (m *SiteModel) leave(notice string) tea.Cmd {
	if m.watcher != nil {
		m.watcher.Unwatch()
	}
	m.site = nil
	m.mode = siteModeList
	m.status = ""
	m.errMsg = ""
	return func() tea.Msg {
		return NavigateTo{Page: pageOpen, Payload: noticeMsg{text: notice}}
	}
}

func (m *SiteModel) startEdit(i int, content string) {
	m.editIdx = i
	m.editor.SetValue(content)
	m.editor.Focus()
	m.mode = siteModeEdit
}

func (m *SiteModel) stopEdit() {
	m.editor.Blur()
	m.editor.Reset()
	m.mode = siteModeList
}

func (m *SiteModel) moveTab(to int) {
	if to < 0 || to >= len(m.site.Tabs()) {
		return
	}
	if err := m.site.MoveTab(m.idx, to); err != nil {
		m.errMsg = humanizeError(err)
		return
	}
	m.idx = to
	m.dirty = true
}

func (m *SiteModel) setTitle(title string) error {
	meta, err := m.site.Metadata()
	if err != nil {
		return err
	}
	meta = meta.Clone()
	if title == "" {
		if meta.Title() == "" {
			return nil
		}
		meta.Delete(codec.KeyTitle)
	} else if err = meta.Set(codec.KeyTitle, title); err != nil {
		return err
	}

	if err = m.site.SetMetadata(meta); err != nil {
		return err
	}
	m.dirty = true
	return nil
}

func (m *SiteModel) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	changes := m.watcher.Changes()
	return func() tea.Msg {
		change, ok := <-changes
		if !ok {
			return nil
		}
		return remoteChangedMsg{change: change}
	}
}

func (m *SiteModel) cmdSave() tea.Cmd {
	ctx, sites, site := m.ctx, m.sites, m.site
	return func() tea.Msg {
		return siteSavedMsg{err: sites.Save(ctx, site)}
	}
}

func (m *SiteModel) cmdDelete() tea.Cmd {
	ctx, sites, site := m.ctx, m.sites, m.site
	return func() tea.Msg {
		return siteDeletedMsg{err: sites.Delete(ctx, site)}
	}
}

func (m *SiteModel) cmdReload() tea.Cmd {
	ctx, sites := m.ctx, m.sites
	name, password := m.site.Name(), m.site.Password()
	return func() tea.Msg {
		site, err := sites.Open(ctx, name, password)
		return siteOpenedMsg{site: site, err: err}
	}
}

func cmdCopy(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(text)}
	}
}
