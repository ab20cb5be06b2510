package tui

// errorOverlayModel frames the last failure of a request made for site.
type errorOverlayModel struct {
	site    string
	message string
}

func (m errorOverlayModel) View() string {
	header := "Ошибка"
	if m.site != "" {
		header += ": " + m.site
	}
	return dangerBoxStyle.Render(errorStyle.Render(header) + "\n" + m.message)
}
