// Package checklist is the editor for checklist notes. It edits either a
// saved note, writing every change through the notebook at once, or an
// unsaved draft that is handed back on close.
package checklist

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/nhle/notebook/internal/keys"
	"github.com/nhle/notebook/internal/model"
	"github.com/nhle/notebook/internal/notebook"
	"github.com/nhle/notebook/internal/theme"
)

// ItemsLoadedMsg carries the items of a saved note.
type ItemsLoadedMsg struct {
	NoteID int64
	Items  []model.ChecklistItem
	Err    error
}

// ChangedMsg reports the outcome of a write to a saved note.
type ChangedMsg struct {
	NoteID int64
	Err    error
}

// CloseMsg is dispatched when the editor closes. Draft is set when the
// editor was working on an unsaved note.
type CloseMsg struct {
	Draft *notebook.Draft
}

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeRename
	modeTitle
)

// row is one line of the editor, backed by a saved item or a draft item.
type row struct {
	item  model.ChecklistItem
	key   uuid.UUID
	title string
	done  bool
}

// Model is the checklist editor.
type Model struct {
	notebook *notebook.Notebook
	keys     *keys.ChecklistKeyMap
	help     help.Model

	note  *model.Note
	draft *notebook.Draft
	rows  []row

	cursor int
	mode   mode
	input  textinput.Model
	width  int
	height int
}

// New creates an idle editor.
func New(nb *notebook.Notebook, k *keys.ChecklistKeyMap, width, height int) Model {
	in := textinput.New()
	in.CharLimit = 200
	in.Width = width - 8

	return Model{
		notebook: nb,
		keys:     k,
		help:     help.New(),
		input:    in,
		width:    width,
		height:   height,
	}
}

// Open starts editing a saved checklist note.
func (m *Model) Open(note model.Note) tea.Cmd {
	m.note = &note
	m.draft = nil
	m.rows = nil
	m.cursor = 0
	m.mode = modeBrowse
	return m.loadItems()
}

// StartDraft starts a new, unsaved checklist. The title is edited first.
func (m *Model) StartDraft() tea.Cmd {
	m.note = nil
	m.draft = notebook.NewDraft(true)
	m.rows = nil
	m.cursor = 0
	return m.beginInput(modeTitle, "")
}

// NoteID returns the ID of the saved note being edited, or zero for a draft.
func (m Model) NoteID() int64 {
	if m.note == nil {
		return 0
	}
	return m.note.ID
}

// Typing reports whether a text input has focus.
func (m Model) Typing() bool {
	return m.mode != modeBrowse
}

// Update handles messages for the editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ItemsLoadedMsg:
		if m.note == nil || msg.NoteID != m.note.ID || msg.Err != nil {
			return m, nil
		}
		m.rows = make([]row, len(msg.Items))
		for i, it := range msg.Items {
			m.rows[i] = row{item: it, title: it.Title, done: it.IsCompleted}
		}
		m.clampCursor()
		return m, nil

	case ChangedMsg:
		if m.note != nil && msg.NoteID == m.note.ID {
			return m, m.loadItems()
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.handleInputKeys(msg)
		}
		return m.handleBrowseKeys(msg)
	}

	return m, nil
}

func (m Model) handleBrowseKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Add):
		cmd := m.beginInput(modeAdd, "")
		return m, cmd
	case key.Matches(msg, m.keys.Title):
		cmd := m.beginInput(modeTitle, m.title())
		return m, cmd
	case key.Matches(msg, m.keys.Rename):
		if r, ok := m.selected(); ok {
			cmd := m.beginInput(modeRename, r.title)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.selected(); ok {
			cmd := m.toggle(r)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Remove):
		if r, ok := m.selected(); ok {
			cmd := m.remove(r)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Back):
		draft := m.draft
		m.note = nil
		m.draft = nil
		m.rows = nil
		return m, func() tea.Msg { return CloseMsg{Draft: draft} }
	}
	return m, nil
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		current := m.mode
		m.mode = modeBrowse
		m.input.Blur()
		cmd := m.commit(current, value)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) beginInput(md mode, value string) tea.Cmd {
	m.mode = md
	switch md {
	case modeTitle:
		m.input.Placeholder = "Checklist title"
	case modeAdd:
		m.input.Placeholder = "New item"
	case modeRename:
		m.input.Placeholder = "Item title"
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

// commit applies a finished text input. Empty item titles are ignored.
func (m *Model) commit(md mode, value string) tea.Cmd {
	switch md {
	case modeTitle:
		return m.setTitle(value)
	case modeAdd:
		if value == "" {
			return nil
		}
		return m.add(value)
	case modeRename:
		r, ok := m.selected()
		if !ok || value == "" {
			return nil
		}
		return m.rename(r, value)
	}
	return nil
}

func (m *Model) setTitle(title string) tea.Cmd {
	if m.draft != nil {
		m.draft.Title = title
		return nil
	}

	nb, id := m.notebook, m.note.ID
	m.note.Title = title
	return func() tea.Msg {
		_, err := nb.UpdateNote(context.Background(), id, model.NotePatch{Title: &title})
		return ChangedMsg{NoteID: id, Err: err}
	}
}

func (m *Model) add(title string) tea.Cmd {
	if m.draft != nil {
		it := m.draft.AddItem(title)
		m.rows = append(m.rows, row{key: it.Key, title: it.Title})
		m.cursor = len(m.rows) - 1
		return nil
	}

	nb, id := m.notebook, m.note.ID
	return func() tea.Msg {
		_, err := nb.CreateChecklistItem(context.Background(), id, title)
		return ChangedMsg{NoteID: id, Err: err}
	}
}

func (m *Model) rename(r row, title string) tea.Cmd {
	if m.draft != nil {
		m.draft.UpdateItem(r.key, title, r.done)
		m.rows[m.cursor].title = title
		return nil
	}

	nb, id := m.notebook, m.note.ID
	upd := model.ChecklistItemUpdate{Title: title, IsCompleted: r.done}
	return func() tea.Msg {
		err := nb.UpdateChecklistItem(context.Background(), r.item.ID, upd)
		return ChangedMsg{NoteID: id, Err: err}
	}
}

func (m *Model) toggle(r row) tea.Cmd {
	if m.draft != nil {
		m.draft.ToggleItem(r.key)
		m.rows[m.cursor].done = !r.done
		return nil
	}

	nb, id := m.notebook, m.note.ID
	return func() tea.Msg {
		err := nb.ToggleChecklistItem(context.Background(), r.item)
		return ChangedMsg{NoteID: id, Err: err}
	}
}

func (m *Model) remove(r row) tea.Cmd {
	if m.draft != nil {
		m.draft.RemoveItem(r.key)
		m.rows = slices.Delete(m.rows, m.cursor, m.cursor+1)
		m.clampCursor()
		return nil
	}

	nb, id := m.notebook, m.note.ID
	return func() tea.Msg {
		err := nb.DeleteChecklistItem(context.Background(), r.item.ID)
		return ChangedMsg{NoteID: id, Err: err}
	}
}

func (m Model) loadItems() tea.Cmd {
	nb, id := m.notebook, m.note.ID
	return func() tea.Msg {
		items, err := nb.ChecklistItems(context.Background(), id)
		return ItemsLoadedMsg{NoteID: id, Items: items, Err: err}
	}
}

func (m Model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) clampCursor() {
	m.cursor = max(min(m.cursor, len(m.rows)-1), 0)
}

func (m Model) title() string {
	switch {
	case m.draft != nil:
		return m.draft.Title
	case m.note != nil:
		return m.note.Title
	default:
		return ""
	}
}

// View renders the editor.
func (m Model) View() string {
	heading := m.title()
	if heading == "" {
		heading = "(untitled checklist)"
	}
	if m.draft != nil {
		heading += " (new)"
	}

	lines := []string{theme.TitleStyle.Render(heading)}
	if m.mode == modeTitle {
		lines = append(lines, m.input.View(), "")
	}

	if len(m.rows) == 0 {
		lines = append(lines, theme.HelpStyle.Render("No items. Press a to add one."))
	}
	for i, r := range m.rows {
		lines = append(lines, m.renderRow(i, r))
	}

	if m.mode == modeAdd {
		lines = append(lines, "", m.input.View())
	}

	m.help.Width = m.width - 4
	lines = append(lines, "", m.help.View(m.keys))

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderRow(i int, r row) string {
	mark := "[ ]"
	if r.done {
		mark = "[x]"
	}
	box := theme.CheckStyle(r.done).Render(mark)

	title := r.title
	if m.mode == modeRename && i == m.cursor {
		title = m.input.View()
	} else if r.done {
		title = theme.DimmedStyle.Render(title)
	}

	line := fmt.Sprintf("%s %s", box, title)
	if i == m.cursor {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// SetSize updates the editor dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 8
}
