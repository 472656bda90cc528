package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Enter  key.Binding
	Toggle key.Binding
	Remove key.Binding
	Up     key.Binding
	Down   key.Binding
	Focus  key.Binding
	Submit key.Binding
	Quit   key.Binding
	Abort  key.Binding
}

var keys = keyMap{
	Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
	Toggle: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
	Remove: key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Focus:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch focus")),
	Submit: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done")),
	Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Abort:  key.NewBinding(key.WithKeys("ctrl+c")),
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += " • "
		}
		h := b.Help()
		out += h.Key + ": " + h.Desc
	}
	return out
}
