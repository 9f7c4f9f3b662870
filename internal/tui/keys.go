package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the browser key bindings.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	PrevPage     key.Binding
	NextPage     key.Binding
	Search       key.Binding
	Scope        key.Binding
	TypeFilter   key.Binding
	ResetCatalog key.Binding
	ResetTag     key.Binding
	Open         key.Binding
	Back         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "pgup"),
			key.WithHelp("←/h", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "pgdown"),
			key.WithHelp("→/l", "next page"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Scope: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "search scope"),
		),
		TypeFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "data type"),
		),
		ResetCatalog: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear catalog"),
		),
		ResetTag: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "clear tag"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.PrevPage, k.NextPage, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage},
		{k.Search, k.Scope, k.TypeFilter},
		{k.ResetCatalog, k.ResetTag},
		{k.Open, k.Back, k.Help, k.Quit},
	}
}
