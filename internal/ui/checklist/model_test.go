package checklist

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notebook/internal/keys"
	"github.com/nhle/notebook/internal/model"
	"github.com/nhle/notebook/internal/notebook"
	"github.com/nhle/notebook/internal/testutil"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
)

func newEditor(t *testing.T) (Model, *notebook.Notebook) {
	t.Helper()
	nb := notebook.New(testutil.NewTestStore(t))
	return New(nb, keys.DefaultChecklistKeyMap(), 80, 24), nb
}

// typeLine focuses an input with key, types text and confirms it.
func typeLine(m Model, key, text string) (Model, tea.Cmd) {
	if key != "" {
		m, _ = m.Update(runes(key))
	}
	m, _ = m.Update(runes(text))
	return m.Update(enter)
}

// apply feeds the result of a write back into the editor and loads the
// resulting items.
func apply(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	changed, ok := cmd().(ChangedMsg)
	require.True(t, ok)
	require.NoError(t, changed.Err)

	m, load := m.Update(changed)
	require.NotNil(t, load)
	m, _ = m.Update(load())
	return m
}

func TestDraft_BuildsAndClosesWithDraft(t *testing.T) {
	m, _ := newEditor(t)

	m.StartDraft()
	require.True(t, m.Typing())
	m, _ = typeLine(m, "", "Groceries")
	assert.False(t, m.Typing())

	m, _ = typeLine(m, "a", "Milk")
	m, _ = typeLine(m, "a", "Eggs")
	m, _ = typeLine(m, "a", "Bread")
	m, _ = m.Update(space) // completes Bread
	m, _ = m.Update(runes("k"))
	m, _ = m.Update(runes("d")) // removes Eggs

	m, cmd := m.Update(esc)
	require.NotNil(t, cmd)
	closed, ok := cmd().(CloseMsg)
	require.True(t, ok)
	require.NotNil(t, closed.Draft)

	assert.Equal(t, "Groceries", closed.Draft.Title)
	items := closed.Draft.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Milk", items[0].Title)
	assert.False(t, items[0].IsCompleted)
	assert.Equal(t, "Bread", items[1].Title)
	assert.True(t, items[1].IsCompleted)
}

func TestDraft_EmptyItemIgnored(t *testing.T) {
	m, _ := newEditor(t)
	m.StartDraft()
	m, _ = m.Update(enter)

	m, _ = typeLine(m, "a", "   ")
	assert.Contains(t, m.View(), "No items")
}

func TestSavedNote_WritesThrough(t *testing.T) {
	m, nb := newEditor(t)
	ctx := context.Background()
	note, err := nb.CreateNote(ctx, model.NoteInput{Title: "Trip", IsChecklist: true})
	require.NoError(t, err)

	cmd := m.Open(note)
	m, _ = m.Update(cmd())
	assert.Equal(t, note.ID, m.NoteID())

	m, cmd = typeLine(m, "a", "Passport")
	m = apply(t, m, cmd)
	m, cmd = typeLine(m, "a", "Tickets")
	m = apply(t, m, cmd)

	// Cursor stays on the first row after reloads.
	m, cmd = m.Update(space)
	m = apply(t, m, cmd)

	m, cmd = typeLine(m, "e", " & visa")
	m = apply(t, m, cmd)

	items, err := nb.ChecklistItems(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Passport & visa", items[0].Title)
	assert.True(t, items[0].IsCompleted)
	assert.Equal(t, "Tickets", items[1].Title)

	m, cmd = m.Update(runes("d"))
	m = apply(t, m, cmd)
	items, err = nb.ChecklistItems(ctx, note.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Tickets", items[0].Title)

	m, cmd = typeLine(m, "t", " renamed")
	_ = apply(t, m, cmd)
	got, _ := nb.Note(note.ID)
	assert.Equal(t, "Trip renamed", got.Title)

	_, cmd = m.Update(esc)
	closed := cmd().(CloseMsg)
	assert.Nil(t, closed.Draft)
}

func TestItemsLoaded_IgnoresOtherNotes(t *testing.T) {
	m, nb := newEditor(t)
	note, err := nb.CreateNote(context.Background(), model.NoteInput{Title: "A", IsChecklist: true})
	require.NoError(t, err)
	m.Open(note)

	m, _ = m.Update(ItemsLoadedMsg{NoteID: note.ID + 1, Items: []model.ChecklistItem{{Title: "stray"}}})
	assert.NotContains(t, m.View(), "stray")
}
