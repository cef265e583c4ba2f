package notebook

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/notebook/internal/model"
)

// DraftItem is a checklist line held in memory until its note is saved.
type DraftItem struct {
	Key         uuid.UUID
	Title       string
	IsCompleted bool
}

// Draft is a note that has not been persisted yet. Checklist items added
// to a draft live only here until SaveDraft writes them.
type Draft struct {
	Title       string
	Content     string
	IsChecklist bool

	items []DraftItem
}

// NewDraft starts an empty draft of the given type.
func NewDraft(isChecklist bool) *Draft {
	return &Draft{IsChecklist: isChecklist}
}

// AddItem appends a line and returns it.
func (d *Draft) AddItem(title string) DraftItem {
	it := DraftItem{Key: uuid.New(), Title: title}
	d.items = append(d.items, it)
	return it
}

// UpdateItem replaces the title and completion of the item with key.
// It reports whether the item exists.
func (d *Draft) UpdateItem(key uuid.UUID, title string, completed bool) bool {
	i := d.index(key)
	if i < 0 {
		return false
	}
	d.items[i].Title = title
	d.items[i].IsCompleted = completed
	return true
}

// ToggleItem flips the completion of the item with key.
func (d *Draft) ToggleItem(key uuid.UUID) bool {
	i := d.index(key)
	if i < 0 {
		return false
	}
	d.items[i].IsCompleted = !d.items[i].IsCompleted
	return true
}

// RemoveItem drops the item with key. It reports whether it existed.
func (d *Draft) RemoveItem(key uuid.UUID) bool {
	i := d.index(key)
	if i < 0 {
		return false
	}
	d.items = slices.Delete(d.items, i, i+1)
	return true
}

// Items returns a copy of the draft lines in insertion order.
func (d *Draft) Items() []DraftItem {
	return slices.Clone(d.items)
}

// IsEmpty reports whether saving the draft would be a no-op.
func (d *Draft) IsEmpty() bool {
	return strings.TrimSpace(d.Title) == ""
}

func (d *Draft) index(key uuid.UUID) int {
	return slices.IndexFunc(d.items, func(it DraftItem) bool { return it.Key == key })
}

// SaveDraft creates the note described by d and then its checklist items,
// one by one, against the new note ID. A draft without a title is
// discarded with ErrEmptyDraft. An item that fails to save is logged and
// skipped; the note itself stays.
func (n *Notebook) SaveDraft(ctx context.Context, d *Draft) (model.Note, error) {
	if d.IsEmpty() {
		return model.Note{}, ErrEmptyDraft
	}

	content := d.Content
	if d.IsChecklist {
		content = ""
	}

	note, err := n.CreateNote(ctx, model.NoteInput{
		Title:       d.Title,
		Content:     content,
		IsChecklist: d.IsChecklist,
	})
	if err != nil {
		return model.Note{}, fmt.Errorf("saving draft: %w", err)
	}

	if !d.IsChecklist {
		return note, nil
	}

	for _, it := range d.items {
		id, err := n.CreateChecklistItem(ctx, note.ID, it.Title)
		if err != nil {
			log.Printf("saving draft item %q of note %d: %v", it.Title, note.ID, err)
			continue
		}
		if !it.IsCompleted {
			continue
		}
		err = n.UpdateChecklistItem(ctx, id, model.ChecklistItemUpdate{Title: it.Title, IsCompleted: true})
		if err != nil {
			log.Printf("completing draft item %q of note %d: %v", it.Title, note.ID, err)
		}
	}

	return note, nil
}
