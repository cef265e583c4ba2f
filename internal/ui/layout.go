package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notebook/internal/theme"
)

// Layout manages the header, content and status bar dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height left for the active view.
func (l Layout) ContentHeight() int {
	return max(l.Height-l.HeaderHeight-l.StatusBarHeight, 0)
}

// RenderHeader renders the title bar with the note count on the right.
func (l Layout) RenderHeader(title, right string) string {
	left := theme.HeaderStyle.Render(title)
	end := theme.HeaderStyle.Render(right)
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		left,
		l.fill(theme.HeaderStyle, l.Width-lipgloss.Width(left)-lipgloss.Width(end)),
		end,
	)
}

// RenderStatusBar renders the bottom bar. Alerts are drawn in the error
// style.
func (l Layout) RenderStatusBar(text string, alert bool) string {
	style := theme.StatusBarStyle
	if alert {
		style = theme.ErrorBarStyle
	}

	rendered := style.Render(text)
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		rendered,
		l.fill(style, l.Width-lipgloss.Width(rendered)),
	)
}

// RenderWithFrame stacks header, content and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	content = lipgloss.NewStyle().
		Height(l.ContentHeight()).
		MaxHeight(l.ContentHeight()).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

func (l Layout) fill(style lipgloss.Style, width int) string {
	return lipgloss.NewStyle().
		Width(max(width, 0)).
		Background(style.GetBackground()).
		Render("")
}
