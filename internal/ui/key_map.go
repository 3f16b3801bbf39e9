package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the player.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	toggle   key.Binding
	next     key.Binding
	previous key.Binding
	seekBack key.Binding
	seekFwd  key.Binding
	volUp    key.Binding
	volDown  key.Binding
	like     key.Binding
	enqueue  key.Binding
	clear    key.Binding
	addTo    key.Binding
	remove   key.Binding
	create   key.Binding
	tab      key.Binding
	refresh  key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play/open")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause/resume")),
		next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		previous: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		seekBack: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "-5s")),
		seekFwd:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "+5s")),
		volUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		volDown:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		like:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		enqueue:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to queue")),
		clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear queue")),
		addTo:    key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add to playlist")),
		remove:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove from playlist")),
		create:   key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new playlist")),
		tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.toggle, k.next, k.previous, k.like, k.tab, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.toggle, k.next, k.previous, k.seekBack, k.seekFwd},
		{k.volUp, k.volDown, k.like, k.enqueue, k.clear},
		{k.addTo, k.remove, k.create},
		{k.tab, k.refresh, k.quit},
	}
}
