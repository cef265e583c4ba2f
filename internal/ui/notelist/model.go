package notelist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notebook/internal/keys"
	"github.com/nhle/notebook/internal/model"
	"github.com/nhle/notebook/internal/notebook"
	"github.com/nhle/notebook/internal/theme"
)

// NotesLoadedMsg carries the notes to display.
type NotesLoadedMsg struct {
	Notes []model.Note
}

// OpenNoteMsg asks to open the selected note.
type OpenNoteMsg struct{ Note model.Note }

// NewNoteMsg asks to start a new note.
type NewNoteMsg struct{ IsChecklist bool }

// TogglePrivacyMsg asks to flip the privacy of the selected note.
type TogglePrivacyMsg struct{ Note model.Note }

// DeleteNoteMsg asks to delete the selected note.
type DeleteNoteMsg struct{ Note model.Note }

// ExportNoteMsg asks to export the selected note.
type ExportNoteMsg struct{ Note model.Note }

// Model is the note list view. It reads from the notebook cache; it never
// touches the database itself.
type Model struct {
	list        list.Model
	notebook    *notebook.Notebook
	keys        *keys.KeyMap
	query       string
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a note list over nb.
func New(nb *notebook.Notebook, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, NoteDelegate{}, width, height-2)
	l.Title = "Notes"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search titles..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		notebook:    nb,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that shows the cached notes.
func (m Model) Init() tea.Cmd {
	return m.LoadNotes()
}

// Update handles messages for the list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case NotesLoadedMsg:
		items := make([]list.Item, len(msg.Notes))
		for i, n := range msg.Notes {
			items[i] = NoteItem{Note: n}
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while the search bar is focused.
// The results update as the user types.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.searchInput.Blur()
		m.query = ""
		return m, m.LoadNotes()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.query = m.searchInput.Value()
	return m, tea.Batch(cmd, m.LoadNotes())
}

// handleNormalKeys processes key input in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.query)
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Back):
		if m.query != "" {
			m.query = ""
			m.searchInput.Reset()
			return m, m.LoadNotes()
		}
		return m, nil

	case key.Matches(msg, m.keys.NewNote):
		return m, emit(NewNoteMsg{})

	case key.Matches(msg, m.keys.NewChecklist):
		return m, emit(NewNoteMsg{IsChecklist: true})
	}

	if note, ok := m.SelectedNote(); ok {
		switch {
		case key.Matches(msg, m.keys.Select):
			return m, emit(OpenNoteMsg{Note: note})
		case key.Matches(msg, m.keys.TogglePrivacy):
			return m, emit(TogglePrivacyMsg{Note: note})
		case key.Matches(msg, m.keys.Delete):
			return m, emit(DeleteNoteMsg{Note: note})
		case key.Matches(msg, m.keys.Export):
			return m, emit(ExportNoteMsg{Note: note})
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// SelectedNote returns the highlighted note.
func (m Model) SelectedNote() (model.Note, bool) {
	item, ok := m.list.SelectedItem().(NoteItem)
	if !ok {
		return model.Note{}, false
	}
	return item.Note, true
}

// Searching reports whether the search bar has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// Query returns the active title filter.
func (m Model) Query() string {
	return m.query
}

// View renders the list.
func (m Model) View() string {
	var top string
	if m.searchMode || m.query != "" {
		top = lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
	}

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = m.renderEmptyState()
	}
	if top == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, body)
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.query != "" {
		return style.Render("No notes match \"" + m.query + "\".")
	}
	return style.Render("No notes yet.\n\nPress n for a note or L for a checklist.")
}

// LoadNotes returns a command that reads the cache, filtered by the
// current query.
func (m Model) LoadNotes() tea.Cmd {
	nb := m.notebook
	query := m.query
	return func() tea.Msg {
		if query == "" {
			return NotesLoadedMsg{Notes: nb.Notes()}
		}
		return NotesLoadedMsg{Notes: nb.Search(query)}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
