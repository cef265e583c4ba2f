package store

import (
	"context"

	"github.com/nhle/notebook/internal/model"
)

// Store defines the persistence interface for notes and their checklist items.
type Store interface {
	// === Notes ===

	ListNotes(ctx context.Context) ([]model.Note, error)
	GetNote(ctx context.Context, id int64) (*model.Note, error)
	CreateNote(ctx context.Context, in model.NoteInput) (*model.Note, error)
	UpdateNote(ctx context.Context, id int64, patch model.NotePatch) (*model.Note, error)
	DeleteNote(ctx context.Context, id int64) error

	// === Checklist items ===

	ListChecklistItems(ctx context.Context, noteID int64) ([]model.ChecklistItem, error)
	CreateChecklistItem(ctx context.Context, noteID int64, title string) (int64, error)
	UpdateChecklistItem(ctx context.Context, id int64, upd model.ChecklistItemUpdate) error
	DeleteChecklistItem(ctx context.Context, id int64) error

	// === Maintenance ===

	Reset(ctx context.Context) error
}
