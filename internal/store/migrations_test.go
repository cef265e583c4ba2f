package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_FreshDatabase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	version, err := s.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion(), version)

	for _, col := range []string{"id", "title", "content", "date", "isPrivate", "isChecklist", "color"} {
		ok, err := hasColumn(ctx, s.db, "notebook", col)
		require.NoError(t, err)
		assert.True(t, ok, "notebook.%s", col)
	}
	for _, col := range []string{"id", "note_id", "title", "isCompleted", "order_index"} {
		ok, err := hasColumn(ctx, s.db, "checklist_items", col)
		require.NoError(t, err)
		assert.True(t, ok, "checklist_items.%s", col)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before := schemaDump(t, s)
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx))
	assert.Equal(t, before, schemaDump(t, s))

	var rows int
	require.NoError(t, s.db.Get(&rows, "SELECT COUNT(*) FROM schema_version"))
	assert.Equal(t, len(migrations), rows)
}

func TestMigrate_StepsAreIdempotentWithoutVersionTable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before := schemaDump(t, s)

	// Losing the bookkeeping forces every step to run again.
	_, err := s.db.Exec("DROP TABLE schema_version")
	require.NoError(t, err)
	require.NoError(t, s.Migrate(ctx))

	version, err := s.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion(), version)
	assert.Equal(t, before, schemaDump(t, s))
}

func TestMigrate_UpgradesLegacyDatabase(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	// Layout written by the first release: no isChecklist, no color,
	// no version table, and a leftover flashcards table.
	_, err = s.db.Exec(`
CREATE TABLE notebook (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	date TEXT NOT NULL,
	isPrivate INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE flashcards (id INTEGER PRIMARY KEY, front TEXT);
INSERT INTO notebook (title, content, date, isPrivate)
VALUES ('Old', 'body', '2024-03-01T10:00:00.000Z', 1);`)
	require.NoError(t, err)

	require.NoError(t, s.Migrate(ctx))

	notes, err := s.ListNotes(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Old", notes[0].Title)
	assert.True(t, notes[0].IsPrivate)
	assert.False(t, notes[0].IsChecklist)
	assert.Nil(t, notes[0].Color)

	var flashcards int
	require.NoError(t, s.db.Get(&flashcards,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='flashcards'"))
	assert.Zero(t, flashcards)

	_, err = s.CreateChecklistItem(ctx, notes[0].ID, "works")
	require.NoError(t, err)
}

func TestMigrate_FailureIsReported(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	// A view squatting on the table name makes step 1 fail.
	_, err = s.db.Exec("CREATE VIEW notebook AS SELECT 1 AS id")
	require.NoError(t, err)

	err = s.Migrate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMigrationFailed)
}

func TestReset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	note, err := s.CreateNote(ctx, noteInput("Scratch"))
	require.NoError(t, err)
	_, err = s.CreateChecklistItem(ctx, note.ID, "item")
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	notes, err := s.ListNotes(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)

	items, err := s.ListChecklistItems(ctx, note.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	version, err := s.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion(), version)
}
