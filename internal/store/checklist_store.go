package store

import (
	"context"
	"fmt"

	"github.com/nhle/notebook/internal/model"
)

// checklistRow mirrors a checklist_items row before booleans are materialized.
type checklistRow struct {
	ID          int64  `db:"id"`
	NoteID      int64  `db:"note_id"`
	Title       string `db:"title"`
	IsCompleted int    `db:"isCompleted"`
	OrderIndex  int    `db:"order_index"`
}

// ListChecklistItems returns all items of a note, ordered by order_index.
func (s *SQLiteStore) ListChecklistItems(ctx context.Context, noteID int64) ([]model.ChecklistItem, error) {
	var rows []checklistRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, note_id, title, isCompleted, order_index
		FROM checklist_items WHERE note_id = ?
		ORDER BY order_index ASC, id ASC`,
		noteID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing checklist items of note %d: %w", ErrQueryFailed, noteID, err)
	}

	items := make([]model.ChecklistItem, len(rows))
	for i, r := range rows {
		items[i] = model.ChecklistItem{
			ID:          r.ID,
			NoteID:      r.NoteID,
			Title:       r.Title,
			IsCompleted: r.IsCompleted != 0,
			OrderIndex:  r.OrderIndex,
		}
	}
	return items, nil
}

// CreateChecklistItem appends an item after every existing item of the
// note and returns its ID. Gaps left by deleted items are not reused.
func (s *SQLiteStore) CreateChecklistItem(ctx context.Context, noteID int64, title string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO checklist_items (note_id, title, isCompleted, order_index)
		VALUES (?, ?, 0, (
			SELECT COALESCE(MAX(order_index), 0) + 1
			FROM checklist_items WHERE note_id = ?
		))`,
		noteID, title, noteID,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: adding checklist item to note %d: %w", ErrCreateFailed, noteID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: reading new checklist item id: %w", ErrCreateFailed, err)
	}
	return id, nil
}

// UpdateChecklistItem replaces the title and completion state of an item.
func (s *SQLiteStore) UpdateChecklistItem(ctx context.Context, id int64, upd model.ChecklistItemUpdate) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE checklist_items SET title = ?, isCompleted = ? WHERE id = ?",
		upd.Title, boolToInt(upd.IsCompleted), id,
	)
	if err != nil {
		return fmt.Errorf("updating checklist item %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("checklist item %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteChecklistItem removes a checklist item by ID.
func (s *SQLiteStore) DeleteChecklistItem(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM checklist_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting checklist item %d: %w", id, err)
	}
	return nil
}
