package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the board key bindings.
type keyMap struct {
	Active    key.Binding
	Today     key.Binding
	Completed key.Binding
	Archived  key.Binding
	Search    key.Binding
	Priority  key.Binding
	Due       key.Binding
	GoLive    key.Binding
	Clear     key.Binding
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Done      key.Binding
	Archive   key.Binding
	Delete    key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Active:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "active")),
	Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	Completed: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "completed")),
	Archived:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "archived")),
	Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Priority:  key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "priority")),
	Due:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "due")),
	GoLive:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go-live")),
	Clear:     key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "clear")),
	Left:      key.NewBinding(key.WithKeys("h", "left")),
	Right:     key.NewBinding(key.WithKeys("l", "right")),
	Up:        key.NewBinding(key.WithKeys("k", "up")),
	Down:      key.NewBinding(key.WithKeys("j", "down")),
	Done:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done")),
	Archive:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "archive")),
	Delete:    key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete")),
	Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// helpBindings are the bindings listed in the status bar, in order.
func (k keyMap) helpBindings() []key.Binding {
	return []key.Binding{
		k.Active, k.Today, k.Completed, k.Archived, k.Search, k.Priority,
		k.Due, k.GoLive, k.Clear, k.Done, k.Archive, k.Delete, k.Quit,
	}
}
