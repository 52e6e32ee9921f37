package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up     key.Binding
	down   key.Binding
	search key.Binding
	tab    key.Binding
	enter  key.Binding
	play   key.Binding
	add    key.Binding
	back   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "songs/playlists")),
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		play:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to playlist")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.search, k.tab, k.play, k.add},
		{k.back, k.quit},
	}
}
