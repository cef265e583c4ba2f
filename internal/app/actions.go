package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/notebook/internal/export"
	"github.com/nhle/notebook/internal/model"
	"github.com/nhle/notebook/internal/notebook"
	"github.com/nhle/notebook/internal/ui/noteform"
)

// notebookLoadedMsg is sent after the cache has been (re)loaded.
type notebookLoadedMsg struct{ err error }

// resultMsg is sent after a write through the notebook. info, when set,
// is shown in the status bar on success.
type resultMsg struct {
	op   string
	err  error
	info string
}

func (m *Model) saveTextNote(msg noteform.SubmittedMsg) tea.Cmd {
	nb := m.notebook
	if msg.ID == 0 {
		d := notebook.NewDraft(false)
		d.Title = msg.Title
		d.Content = msg.Content
		return m.saveDraft(d)
	}

	title, content := msg.Title, msg.Content
	return func() tea.Msg {
		_, err := nb.UpdateNote(context.Background(), msg.ID, model.NotePatch{
			Title:   &title,
			Content: &content,
		})
		return resultMsg{op: "save note", err: err}
	}
}

// saveDraft persists a new note. Drafts without a title are dropped
// silently.
func (m *Model) saveDraft(d *notebook.Draft) tea.Cmd {
	nb := m.notebook
	return func() tea.Msg {
		_, err := nb.SaveDraft(context.Background(), d)
		if errors.Is(err, notebook.ErrEmptyDraft) {
			err = nil
		}
		return resultMsg{op: "create note", err: err}
	}
}

func (m *Model) setPrivate(note model.Note, private bool) tea.Cmd {
	nb := m.notebook
	return func() tea.Msg {
		_, err := nb.SetPrivate(context.Background(), note.ID, private)
		return resultMsg{op: "change privacy", err: err}
	}
}

func (m *Model) deleteNote(note model.Note) tea.Cmd {
	nb := m.notebook
	return func() tea.Msg {
		err := nb.DeleteNote(context.Background(), note.ID)
		return resultMsg{op: "delete note", err: err}
	}
}

func (m *Model) exportNote(note model.Note) tea.Cmd {
	nb := m.notebook
	dir, from := m.opts.ExportDir, m.opts.ExportFrom
	return func() tea.Msg {
		var items []model.ChecklistItem
		if note.IsChecklist {
			var err error
			items, err = nb.ChecklistItems(context.Background(), note.ID)
			if err != nil {
				return resultMsg{op: "export note", err: err}
			}
		}

		path := filepath.Join(dir, export.FileName(note))
		if err := export.WriteFile(path, note, items, from); err != nil {
			return resultMsg{op: "export note", err: err}
		}
		return resultMsg{op: "export note", info: fmt.Sprintf("Exported to %s", path)}
	}
}
