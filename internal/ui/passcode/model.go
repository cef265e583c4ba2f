package passcode

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notebook/internal/model"
	"github.com/nhle/notebook/internal/privacy"
	"github.com/nhle/notebook/internal/theme"
)

// ResultMsg reports the outcome of a prompt. Err is nil when the passcode
// was accepted; privacy.ErrAuthFailed when it was wrong or the prompt was
// abandoned.
type ResultMsg struct {
	Note   model.Note
	Action privacy.Action
	Err    error
}

type bindings struct {
	value string
}

// Model prompts for the passcode before a gated action.
type Model struct {
	verifier privacy.Verifier
	form     *huh.Form
	b        *bindings
	note     model.Note
	action   privacy.Action
	width    int
}

// New creates an idle prompt.
func New(v privacy.Verifier, width int) Model {
	return Model{verifier: v, b: &bindings{}, width: width}
}

// Start asks for the passcode needed to perform action on note.
func (m *Model) Start(note model.Note, action privacy.Action) tea.Cmd {
	m.note = note
	m.action = action
	m.b.value = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Passcode").
				Description(describe(action)).
				EchoMode(huh.EchoModePassword).
				Value(&m.b.value),
		),
	).WithWidth(min(max(m.width-4, 30), 60))
	return m.form.Init()
}

// Update handles messages for the prompt.
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
		return m, m.verify(m.b.value)
	case huh.StateAborted:
		m.form = nil
		return m, m.result(privacy.ErrAuthFailed)
	}

	return m, cmd
}

func (m Model) verify(value string) tea.Cmd {
	v := m.verifier
	note, action := m.note, m.action
	return func() tea.Msg {
		err := v.Verify(value)
		if errors.Is(err, privacy.ErrNoPasscode) {
			// No passcode configured yet: private notes stay locked.
			err = errors.Join(privacy.ErrAuthFailed, err)
		}
		return ResultMsg{Note: note, Action: action, Err: err}
	}
}

func (m Model) result(err error) tea.Cmd {
	note, action := m.note, m.action
	return func() tea.Msg {
		return ResultMsg{Note: note, Action: action, Err: err}
	}
}

// View renders the prompt.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	content := theme.TitleStyle.Render("🔒 "+m.note.Title) + "\n" + m.form.View()
	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the prompt width.
func (m *Model) SetSize(width, _ int) {
	m.width = width
}

func describe(a privacy.Action) string {
	switch a {
	case privacy.ActionMakePublic:
		return "Enter passcode to make this note public"
	case privacy.ActionExport:
		return "Enter passcode to export this private note"
	default:
		return "Enter passcode to open this private note"
	}
}
