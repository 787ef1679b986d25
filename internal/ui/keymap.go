package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	FocusLeft  key.Binding
	FocusRight key.Binding
	Tab        key.Binding
	Reload     key.Binding
	Search     key.Binding
	Date       key.Binding
	Reset      key.Binding
	Refresh    key.Binding
	ToggleAll  key.Binding
	Export     key.Binding
	ExportAll  key.Binding
	ExportDate key.Binding
	ExportOne  key.Binding
	Copy       key.Binding
	Delete     key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		FocusLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "focus list"),
		),
		FocusRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "focus details"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "toggle focus"),
		),
		Reload: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "reload ticket"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Date: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "filter by date"),
		),
		Reset: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filters"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		ToggleAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all/recent"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export results"),
		),
		ExportAll: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export all"),
		),
		ExportDate: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "export day"),
		),
		ExportOne: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export one"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy comments"),
		),
		Delete: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tab, k.Search, k.Date, k.Reset, k.Export, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.FocusLeft, k.FocusRight, k.Tab},
		{k.Reload, k.Search, k.Date, k.Reset, k.Refresh, k.ToggleAll},
		{k.Export, k.ExportAll, k.ExportDate, k.ExportOne, k.Copy, k.Delete, k.Quit},
	}
}
