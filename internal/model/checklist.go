package model

// ChecklistItem is a single line entry owned by a checklist note.
// Its lifecycle is bound to the parent note (CASCADE delete).
type ChecklistItem struct {
	ID          int64  `json:"id"`
	NoteID      int64  `json:"note_id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
	OrderIndex  int    `json:"order_index"`
}

// ChecklistItemUpdate replaces both mutable fields of an item.
type ChecklistItemUpdate struct {
	Title       string
	IsCompleted bool
}
