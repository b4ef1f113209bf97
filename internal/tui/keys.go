package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up            key.Binding
	Down          key.Binding
	JumpUp        key.Binding
	JumpDown      key.Binding
	NextRepo      key.Binding
	PrevRepo      key.Binding
	Toggle        key.Binding
	SwitchPanel   key.Binding
	Search        key.Binding
	Refresh       key.Binding
	DetailsDown   key.Binding
	DetailsUp     key.Binding
	Open          key.Binding
	Review        key.Binding
	Help          key.Binding
	Quit          key.Binding
	Close         key.Binding
	ConfirmSearch key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	JumpUp: key.NewBinding(
		key.WithKeys("u", "pgup"),
		key.WithHelp("u", "jump up"),
	),
	JumpDown: key.NewBinding(
		key.WithKeys("d", "pgdown"),
		key.WithHelp("d", "jump down"),
	),
	NextRepo: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "next repo"),
	),
	PrevRepo: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "prev repo"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "fold repo"),
	),
	SwitchPanel: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "switch panel"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "refresh"),
	),
	DetailsDown: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "details down"),
	),
	DetailsUp: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "details up"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open in browser"),
	),
	Review: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "review"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close/clear"),
	),
	ConfirmSearch: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "keep filter"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.SwitchPanel, k.Search, k.Open, k.Review, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.JumpUp, k.JumpDown, k.NextRepo, k.PrevRepo},
		{k.Toggle, k.SwitchPanel, k.DetailsDown, k.DetailsUp},
		{k.Search, k.ConfirmSearch, k.Close, k.Refresh},
		{k.Open, k.Review, k.Help, k.Quit},
	}
}
