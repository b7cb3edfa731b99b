package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Select       key.Binding
	Back         key.Binding
	ToggleCenter key.Binding
	Refresh      key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		ToggleCenter: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle center"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) help(stage stage) []key.Binding {
	if stage == stageWindows {
		return []key.Binding{k.Select, k.Refresh, k.ToggleCenter, k.Quit}
	}
	return []key.Binding{k.Select, k.Back, k.ToggleCenter, k.Quit}
}
