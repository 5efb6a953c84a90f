package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	DataTab   key.Binding
	PlotTab   key.Binding
	NextField key.Binding
	PrevField key.Binding
	Up        key.Binding
	Down      key.Binding
	Prev      key.Binding
	Next      key.Binding
	Open      key.Binding
	Add       key.Binding
	Clear     key.Binding
	Export    key.Binding
	Browser   key.Binding
	Save      key.Binding
	Columns   key.Binding
	Types     key.Binding
	Submit    key.Binding
	Leave     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		DataTab:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "data")),
		PlotTab:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "plot")),
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		Next:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		Open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open file")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add trace")),
		Clear:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear traces")),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Browser:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "open in browser")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save snapshot")),
		Columns:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "toggle columns")),
		Types:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "toggle types")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add trace")),
		Leave:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop editing")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.DataTab, k.PlotTab, k.Open, k.Add, k.Clear, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.DataTab, k.PlotTab, k.Open, k.Columns, k.Types},
		{k.NextField, k.PrevField, k.Prev, k.Next, k.Submit, k.Leave},
		{k.Add, k.Clear, k.Export, k.Browser, k.Save},
		{k.Up, k.Down, k.Help, k.Quit},
	}
}
