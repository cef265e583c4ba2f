package notebook

import (
	"context"

	"github.com/nhle/notebook/internal/model"
)

// Checklist items are not part of the cached notes, so these calls go
// straight to the store.

// ChecklistItems returns the items of a note in display order.
func (n *Notebook) ChecklistItems(ctx context.Context, noteID int64) ([]model.ChecklistItem, error) {
	return n.store.ListChecklistItems(ctx, noteID)
}

// CreateChecklistItem appends an item to a persisted note.
func (n *Notebook) CreateChecklistItem(ctx context.Context, noteID int64, title string) (int64, error) {
	return n.store.CreateChecklistItem(ctx, noteID, title)
}

// UpdateChecklistItem replaces an item's title and completion state.
func (n *Notebook) UpdateChecklistItem(ctx context.Context, id int64, upd model.ChecklistItemUpdate) error {
	return n.store.UpdateChecklistItem(ctx, id, upd)
}

// ToggleChecklistItem flips the completion state of item.
func (n *Notebook) ToggleChecklistItem(ctx context.Context, item model.ChecklistItem) error {
	return n.store.UpdateChecklistItem(ctx, item.ID, model.ChecklistItemUpdate{
		Title:       item.Title,
		IsCompleted: !item.IsCompleted,
	})
}

// DeleteChecklistItem removes an item.
func (n *Notebook) DeleteChecklistItem(ctx context.Context, id int64) error {
	return n.store.DeleteChecklistItem(ctx, id)
}
