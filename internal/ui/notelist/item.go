package notelist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/notebook/internal/model"
	"github.com/nhle/notebook/internal/theme"
)

// NoteItem wraps a model.Note so it can be used in a bubbles/list.
type NoteItem struct {
	Note model.Note
}

// FilterValue returns the string used for filtering.
func (i NoteItem) FilterValue() string { return i.Note.Title }

// Title returns the note title, or a placeholder for untitled notes.
func (i NoteItem) Title() string {
	if i.Note.Title == "" {
		return "(untitled)"
	}
	return i.Note.Title
}

// Description returns a short summary line. Private notes never show
// their content here.
func (i NoteItem) Description() string {
	if i.Note.IsPrivate {
		return "private"
	}
	if i.Note.IsChecklist {
		return "checklist"
	}
	return firstLine(i.Note.Content)
}

// NoteDelegate implements list.ItemDelegate for rendering notes.
type NoteDelegate struct {
	// now is used for relative dates; tests pin it.
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d NoteDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d NoteDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d NoteDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list line: badges, title and relative date.
func (d NoteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(NoteItem)
	if !ok {
		return
	}

	fmt.Fprint(w, d.renderLine(ni, index == m.Index()))
}

func (d NoteDelegate) renderLine(ni NoteItem, selected bool) string {
	lock := "  "
	if ni.Note.IsPrivate {
		lock = theme.PrivateBadgeStyle.Render("🔒")
	}
	kind := " "
	if ni.Note.IsChecklist {
		kind = theme.ChecklistBadgeStyle.Render("☑")
	}

	now := time.Now
	if d.now != nil {
		now = d.now
	}
	date := theme.DateStyle.Render(relativeTime(now(), ni.Note.Date))

	line := fmt.Sprintf("%s %s %s  %s", lock, kind, ni.Title(), date)
	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(now, t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Local().Format("Jan 02, 2006")
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
