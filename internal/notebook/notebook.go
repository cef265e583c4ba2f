// Package notebook is the single entry point presentation code uses to
// read and change notes. It keeps an in-memory copy of the note list in
// step with the database so list views never query the store directly.
package notebook

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/nhle/notebook/internal/model"
	"github.com/nhle/notebook/internal/store"
)

var (
	// ErrTypeChange is returned when an update tries to turn a text note
	// into a checklist or back.
	ErrTypeChange = errors.New("note type cannot change after creation")
	// ErrEmptyDraft is returned by SaveDraft when there is nothing to save.
	ErrEmptyDraft = errors.New("draft has no title")
)

// Notebook aggregates the note and checklist stores and owns the cached
// note list. The zero value is not usable; call New.
type Notebook struct {
	store store.Store

	mu    sync.RWMutex
	notes []model.Note
}

// New creates a Notebook backed by s. The cache is empty until Load.
func New(s store.Store) *Notebook {
	return &Notebook{store: s}
}

// Load replaces the cache with the full note list from the store.
// On failure the previous cache is kept.
func (n *Notebook) Load(ctx context.Context) error {
	notes, err := n.store.ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("loading notes: %w", err)
	}

	n.mu.Lock()
	n.notes = notes
	n.mu.Unlock()
	return nil
}

// Notes returns a copy of the cached notes, most recent first.
func (n *Notebook) Notes() []model.Note {
	n.mu.RLock()
	notes := slices.Clone(n.notes)
	n.mu.RUnlock()

	sortByDateDesc(notes)
	return notes
}

// Len returns the number of cached notes.
func (n *Notebook) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.notes)
}

// Note looks up a cached note by ID.
func (n *Notebook) Note(id int64) (model.Note, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	i := n.indexOf(id)
	if i < 0 {
		return model.Note{}, false
	}
	return n.notes[i], true
}

// Search returns the cached notes whose title contains query, ignoring
// case, most recent first. An empty query matches every note.
func (n *Notebook) Search(query string) []model.Note {
	notes := n.Notes()
	if query == "" {
		return notes
	}

	q := strings.ToLower(query)
	return slices.DeleteFunc(notes, func(note model.Note) bool {
		return !strings.Contains(strings.ToLower(note.Title), q)
	})
}

// CreateNote persists a new note and appends it to the cache.
func (n *Notebook) CreateNote(ctx context.Context, in model.NoteInput) (model.Note, error) {
	created, err := n.store.CreateNote(ctx, in)
	if err != nil {
		return model.Note{}, err
	}

	n.mu.Lock()
	n.notes = append(n.notes, *created)
	n.mu.Unlock()
	return *created, nil
}

// UpdateNote applies patch and replaces the cached copy. Changing
// IsChecklist is rejected with ErrTypeChange; repeating the current value
// is allowed. An empty patch returns the current note without writing.
func (n *Notebook) UpdateNote(ctx context.Context, id int64, patch model.NotePatch) (model.Note, error) {
	if patch.IsEmpty() {
		return n.current(ctx, id)
	}

	if patch.IsChecklist != nil {
		current, err := n.current(ctx, id)
		if err != nil {
			return model.Note{}, err
		}
		if current.IsChecklist != *patch.IsChecklist {
			return model.Note{}, fmt.Errorf("note %d: %w", id, ErrTypeChange)
		}
	}

	updated, err := n.store.UpdateNote(ctx, id, patch)
	if err != nil {
		return model.Note{}, err
	}

	n.mu.Lock()
	if i := n.indexOf(id); i >= 0 {
		n.notes[i] = *updated
	}
	n.mu.Unlock()
	return *updated, nil
}

// SetPrivate flips the privacy flag of a note. Authentication is the
// caller's job; see package privacy.
func (n *Notebook) SetPrivate(ctx context.Context, id int64, private bool) (model.Note, error) {
	return n.UpdateNote(ctx, id, model.NotePatch{IsPrivate: &private})
}

// DeleteNote removes a note, its checklist items, and its cached copy.
func (n *Notebook) DeleteNote(ctx context.Context, id int64) error {
	if err := n.store.DeleteNote(ctx, id); err != nil {
		return err
	}

	n.mu.Lock()
	n.notes = slices.DeleteFunc(n.notes, func(note model.Note) bool { return note.ID == id })
	n.mu.Unlock()
	return nil
}

// Reset wipes the database and the cache. Debug use only.
func (n *Notebook) Reset(ctx context.Context) error {
	if err := n.store.Reset(ctx); err != nil {
		return fmt.Errorf("resetting notebook: %w", err)
	}

	n.mu.Lock()
	n.notes = nil
	n.mu.Unlock()
	return nil
}

// current returns the cached note, falling back to the store for notes
// the cache has not seen.
func (n *Notebook) current(ctx context.Context, id int64) (model.Note, error) {
	if note, ok := n.Note(id); ok {
		return note, nil
	}
	note, err := n.store.GetNote(ctx, id)
	if err != nil {
		return model.Note{}, err
	}
	return *note, nil
}

// indexOf must be called with mu held.
func (n *Notebook) indexOf(id int64) int {
	return slices.IndexFunc(n.notes, func(note model.Note) bool { return note.ID == id })
}

func sortByDateDesc(notes []model.Note) {
	slices.SortStableFunc(notes, func(a, b model.Note) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
}
