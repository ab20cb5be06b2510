package tui

// confirmModel is a yes/no question shown inside a page. danger marks
// questions whose answer cannot be undone.
type confirmModel struct {
	message string
	danger  bool
}

func (m confirmModel) View() string {
	style := overlayBoxStyle
	if m.danger {
		style = dangerBoxStyle
	}
	return style.Render(m.message + "\n\n" + helpStyle.Render("y: да │ n / esc: нет"))
}
