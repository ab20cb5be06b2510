package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up        key.Binding
	down      key.Binding
	moveUp    key.Binding
	moveDown  key.Binding
	enter     key.Binding
	esc       key.Binding
	tab       key.Binding
	backtab   key.Binding
	quit      key.Binding
	newTab    key.Binding
	save      key.Binding
	apply     key.Binding
	edit      key.Binding
	delete    key.Binding
	destroy   key.Binding
	copy      key.Binding
	title     key.Binding
	reload    key.Binding
	offline   key.Binding
	buildInfo key.Binding
	yes       key.Binding
	no        key.Binding
}

var keys = keyMap{
	up:        key.NewBinding(key.WithKeys("up", "k")),
	down:      key.NewBinding(key.WithKeys("down", "j")),
	moveUp:    key.NewBinding(key.WithKeys("shift+up", "K")),
	moveDown:  key.NewBinding(key.WithKeys("shift+down", "J")),
	enter:     key.NewBinding(key.WithKeys("enter")),
	esc:       key.NewBinding(key.WithKeys("esc")),
	tab:       key.NewBinding(key.WithKeys("tab")),
	backtab:   key.NewBinding(key.WithKeys("shift+tab")),
	quit:      key.NewBinding(key.WithKeys("q")),
	newTab:    key.NewBinding(key.WithKeys("n")),
	save:      key.NewBinding(key.WithKeys("s", "ctrl+s")),
	apply:     key.NewBinding(key.WithKeys("ctrl+s")),
	edit:      key.NewBinding(key.WithKeys("e", "enter")),
	delete:    key.NewBinding(key.WithKeys("ctrl+d")),
	destroy:   key.NewBinding(key.WithKeys("ctrl+x")),
	copy:      key.NewBinding(key.WithKeys("c")),
	title:     key.NewBinding(key.WithKeys("t")),
	reload:    key.NewBinding(key.WithKeys("r")),
	offline:   key.NewBinding(key.WithKeys("ctrl+o")),
	buildInfo: key.NewBinding(key.WithKeys("f1")),
	yes:       key.NewBinding(key.WithKeys("y")),
	no:        key.NewBinding(key.WithKeys("n", "esc")),
}
