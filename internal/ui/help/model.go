package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notebook/internal/theme"
)

// Section is a titled group of keybindings.
type Section struct {
	Title string
	Keys  help.KeyMap
}

// Model is the help overlay view.
type Model struct {
	sections []Section
	help     help.Model
	width    int
	height   int
}

// New creates a help view listing sections in order.
func New(width, height int, sections ...Section) Model {
	h := help.New()
	h.Width = width
	h.ShowAll = true
	return Model{
		sections: sections,
		help:     h,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	parts := []string{theme.TitleStyle.Render("Keyboard Shortcuts")}
	for _, s := range m.sections {
		parts = append(parts,
			lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue).Render(s.Title),
			m.help.View(s.Keys),
			"",
		)
	}

	return theme.PanelStyle.
		Width(max(m.width-4, 0)).
		Height(max(m.height-4, 0)).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
