package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/notebook/internal/model"
)

// noteColumns is the projection shared by every note query.
const noteColumns = "id, title, content, date, isPrivate, isChecklist, color"

// noteRow mirrors a notebook row before booleans and dates are materialized.
type noteRow struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Content     string         `db:"content"`
	Date        string         `db:"date"`
	IsPrivate   int            `db:"isPrivate"`
	IsChecklist int            `db:"isChecklist"`
	Color       sql.NullString `db:"color"`
}

func (r noteRow) toNote() (model.Note, error) {
	date, err := model.ParseDate(r.Date)
	if err != nil {
		return model.Note{}, fmt.Errorf("parsing date of note %d: %w", r.ID, err)
	}

	n := model.Note{
		ID:          r.ID,
		Title:       r.Title,
		Content:     r.Content,
		Date:        date,
		IsPrivate:   r.IsPrivate != 0,
		IsChecklist: r.IsChecklist != 0,
	}
	if r.Color.Valid {
		n.Color = &r.Color.String
	}
	return n, nil
}

// now is the clock used for creation dates. Tests may replace it.
var now = time.Now

// ListNotes returns every note, most recent first. Rows whose date cannot
// be parsed are logged and left out.
func (s *SQLiteStore) ListNotes(ctx context.Context) ([]model.Note, error) {
	var rows []noteRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT "+noteColumns+" FROM notebook ORDER BY date DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("%w: listing notes: %w", ErrQueryFailed, err)
	}

	notes := make([]model.Note, 0, len(rows))
	for _, r := range rows {
		n, err := r.toNote()
		if err != nil {
			log.Printf("skipping note: %v", err)
			continue
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// GetNote retrieves a single note by ID.
func (s *SQLiteStore) GetNote(ctx context.Context, id int64) (*model.Note, error) {
	n, err := getNote(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func getNote(ctx context.Context, q sqlx.QueryerContext, id int64) (model.Note, error) {
	var r noteRow
	err := sqlx.GetContext(ctx, q, &r, "SELECT "+noteColumns+" FROM notebook WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Note{}, fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Note{}, fmt.Errorf("%w: getting note %d: %w", ErrQueryFailed, id, err)
	}

	n, err := r.toNote()
	if err != nil {
		return model.Note{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return n, nil
}

// CreateNote inserts a new note dated now and returns the stored record.
func (s *SQLiteStore) CreateNote(ctx context.Context, in model.NoteInput) (*model.Note, error) {
	note := model.Note{
		Title:       in.Title,
		Content:     in.Content,
		Date:        now().UTC().Truncate(time.Millisecond),
		IsPrivate:   in.IsPrivate,
		IsChecklist: in.IsChecklist,
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO notebook (title, content, date, isPrivate, isChecklist, color)
		VALUES (?, ?, ?, ?, ?, NULL)`,
		note.Title, note.Content, model.FormatDate(note.Date),
		boolToInt(note.IsPrivate), boolToInt(note.IsChecklist),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: inserting note: %w", ErrCreateFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: reading new note id: %w", ErrCreateFailed, err)
	}
	note.ID = id

	return &note, nil
}

// UpdateNote merges patch into the stored note. Fields absent from the
// patch keep their value and the creation date is never rewritten.
func (s *SQLiteStore) UpdateNote(ctx context.Context, id int64, patch model.NotePatch) (*model.Note, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := getNote(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(existing)

	_, err = tx.ExecContext(ctx, `
		UPDATE notebook SET title = ?, content = ?, isPrivate = ?, isChecklist = ?
		WHERE id = ?`,
		updated.Title, updated.Content,
		boolToInt(updated.IsPrivate), boolToInt(updated.IsChecklist),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating note %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing note %d: %w", id, err)
	}
	return &updated, nil
}

// DeleteNote removes a note by ID. Its checklist items go with it through
// the foreign key. Deleting a missing note is not an error.
func (s *SQLiteStore) DeleteNote(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM notebook WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting note %d: %w", id, err)
	}
	return nil
}
