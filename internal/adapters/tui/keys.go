package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	StartPause key.Binding
	Reset      key.Binding
	SwitchNow  key.Binding
	Switch     key.Binding
	Edit       key.Binding
	Add5       key.Binding
	SkipBreak  key.Binding
	Sound      key.Binding
	Settings   key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		StartPause: key.NewBinding(key.WithKeys(" ", "s"), key.WithHelp("space", "start/pause")),
		Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		SwitchNow:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "start other now")),
		Switch:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "switch mode")),
		Edit:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit time")),
		Add5:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "add 5 min")),
		SkipBreak:  key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "skip next break")),
		Sound:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sound")),
		Settings:   key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.StartPause, k.Reset, k.Edit, k.Settings, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.StartPause, k.Reset, k.Edit, k.Add5},
		{k.SwitchNow, k.Switch, k.SkipBreak},
		{k.Sound, k.Settings, k.Help, k.Quit},
	}
}

// editKeyMap is active while the time is being edited.
type editKeyMap struct {
	Commit key.Binding
	Cancel key.Binding
	Add5   key.Binding
	Add10  key.Binding
	Add15  key.Binding
}

func defaultEditKeyMap() editKeyMap {
	return editKeyMap{
		Commit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Add5:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "+5")),
		Add10:  key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("⇧↑", "+10")),
		Add15:  key.NewBinding(key.WithKeys("ctrl+up"), key.WithHelp("^↑", "+15")),
	}
}

func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Cancel, k.Add5, k.Add10, k.Add15}
}

func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
