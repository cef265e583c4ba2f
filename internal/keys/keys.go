package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the note list.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Open the selected note
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search by title
	Search key.Binding

	// Help toggle
	Help key.Binding

	// Reload the cache from the database
	Refresh key.Binding

	// Note actions
	NewNote       key.Binding
	NewChecklist  key.Binding
	TogglePrivacy key.Binding
	Delete        key.Binding
	Export        key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open note"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search titles"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		NewNote: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new note"),
		),
		NewChecklist: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "new checklist"),
		),
		TogglePrivacy: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "toggle private"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export .eml"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.NewNote,
		k.Search, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Search, k.Help, k.Refresh},
		{k.NewNote, k.NewChecklist, k.TogglePrivacy, k.Delete, k.Export},
	}
}

// ChecklistKeyMap defines the keybindings of the checklist editor.
type ChecklistKeyMap struct {
	Down   key.Binding
	Up     key.Binding
	Add    key.Binding
	Toggle key.Binding
	Rename key.Binding
	Title  key.Binding
	Remove key.Binding
	Back   key.Binding
}

// DefaultChecklistKeyMap returns the default checklist editor bindings.
func DefaultChecklistKeyMap() *ChecklistKeyMap {
	return &ChecklistKeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add item"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		Rename: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "rename item"),
		),
		Title: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "edit title"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete item"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "save & close"),
		),
	}
}

// ShortHelp returns the checklist bindings for the status bar.
func (k *ChecklistKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Rename, k.Title, k.Remove, k.Back}
}

// FullHelp returns the checklist bindings in one group.
func (k *ChecklistKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Add, k.Toggle, k.Rename, k.Title, k.Remove, k.Back},
	}
}
