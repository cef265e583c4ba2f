package noteform

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notebook/internal/model"
	"github.com/nhle/notebook/internal/theme"
)

// SubmittedMsg is dispatched when the form is completed. ID is zero for a
// new note.
type SubmittedMsg struct {
	ID      int64
	Title   string
	Content string
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds field values on the heap so that huh's Value()
// pointers stay valid across Bubble Tea model copies.
type formBindings struct {
	title   string
	content string
}

// Model edits the title and content of a text note.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	editID int64
	width  int
	height int
}

// New creates an idle note form.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate prepares the form for a new note.
func (m *Model) StartCreate() tea.Cmd {
	m.editID = 0
	m.fb.title = ""
	m.fb.content = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit prepares the form for an existing note.
func (m *Model) StartEdit(note model.Note) tea.Cmd {
	m.editID = note.ID
	m.fb.title = note.Title
	m.fb.content = note.Content
	m.form = m.buildForm()
	return m.form.Init()
}

// Editing reports whether the form holds an existing note.
func (m Model) Editing() bool {
	return m.editID != 0
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		submitted := SubmittedMsg{ID: m.editID, Title: m.fb.title, Content: m.fb.content}
		return m, func() tea.Msg { return submitted }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	heading := "New Note"
	if m.Editing() {
		heading = "Edit Note"
	}

	content := theme.TitleStyle.Render(heading) + "\n" + m.form.View()
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// buildForm lays out the fields. An empty title is allowed here; the
// notebook drops new notes without one.
func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Title").
				Value(&m.fb.title),
			huh.NewText().
				Title("Note").
				Placeholder("Start writing...").
				Lines(m.textLines()).
				Value(&m.fb.content),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true)
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) textLines() int {
	return max(m.height-12, 5)
}
