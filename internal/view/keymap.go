package view

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the watch key bindings.
type KeyMap struct {
	Quit       key.Binding
	SwitchPane key.Binding
	Up         key.Binding
	Down       key.Binding
	Toggle     key.Binding
	Level      key.Binding
	Next       key.Binding
	Prev       key.Binding
	First      key.Binding
	Last       key.Binding
	Lock       key.Binding
	Overview   key.Binding
	Origin     key.Binding
	Help       key.Binding
}

// DefaultKeyMap mirrors the keyboard shortcuts of the original log viewer.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		SwitchPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "log/theater")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "collapse/open")),
		Level:      key.NewBinding(key.WithKeys("0", "1", "2", "3", "4"), key.WithHelp("0-4", "verbosity")),
		Next:       key.NewBinding(key.WithKeys("right", "j", "down"), key.WithHelp("→/j", "next plot")),
		Prev:       key.NewBinding(key.WithKeys("left", "k", "up"), key.WithHelp("←/k", "previous plot")),
		First:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first plot")),
		Last:       key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last plot")),
		Lock:       key.NewBinding(key.WithKeys("l", "L"), key.WithHelp("l", "lock category")),
		Overview:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "overview")),
		Origin:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "jump to origin")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchPane, k.Overview, k.Lock, k.Level, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Level},
		{k.Next, k.Prev, k.First, k.Last},
		{k.Lock, k.Overview, k.Origin},
		{k.SwitchPane, k.Help, k.Quit},
	}
}
