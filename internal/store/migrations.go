package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// migration holds a single schema step with its target version.
// Every apply func must be safe to run against a database that already
// has the step in place: databases created before version tracking
// existed carry some of these changes without a schema_version row.
type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, tx *sqlx.Tx) error
}

// migrations is the ordered list of schema migrations.
// Versions must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		name:    "create notebook",
		apply: execStep(`
CREATE TABLE IF NOT EXISTS notebook (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	title     TEXT NOT NULL,
	content   TEXT NOT NULL,
	date      TEXT NOT NULL,
	isPrivate INTEGER NOT NULL DEFAULT 0
);`),
	},
	{
		version: 2,
		name:    "add notebook.isChecklist",
		apply: addColumnStep("notebook", "isChecklist",
			"ALTER TABLE notebook ADD COLUMN isChecklist INTEGER NOT NULL DEFAULT 0"),
	},
	{
		version: 3,
		name:    "add notebook.color",
		apply:   addColumnStep("notebook", "color", "ALTER TABLE notebook ADD COLUMN color TEXT"),
	},
	{
		version: 4,
		name:    "create checklist_items",
		apply: execStep(`
CREATE TABLE IF NOT EXISTS checklist_items (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	note_id     INTEGER NOT NULL,
	title       TEXT NOT NULL,
	isCompleted INTEGER NOT NULL DEFAULT 0,
	order_index INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (note_id) REFERENCES notebook (id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_checklist_items_note_id ON checklist_items(note_id);`),
	},
	{
		version: 5,
		name:    "drop flashcards",
		apply:   execStep("DROP TABLE IF EXISTS flashcards"),
	},
	{
		version: 6,
		name:    "index notebook.date",
		apply:   execStep("CREATE INDEX IF NOT EXISTS idx_notebook_date ON notebook(date)"),
	},
}

// SchemaVersion returns the latest version known to this build.
func SchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// execStep returns a step that runs a fixed, self-guarding SQL script.
func execStep(sql string) func(context.Context, *sqlx.Tx) error {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, sql)
		return err
	}
}

// addColumnStep returns a step that runs alter only when column is
// missing from table.
func addColumnStep(table, column, alter string) func(context.Context, *sqlx.Tx) error {
	return func(ctx context.Context, tx *sqlx.Tx) error {
		present, err := hasColumn(ctx, tx, table, column)
		if err != nil {
			return err
		}
		if present {
			return nil
		}
		_, err = tx.ExecContext(ctx, alter)
		return err
	}
}

// hasColumn reports whether table has a column named column.
func hasColumn(ctx context.Context, q sqlx.QueryerContext, table, column string) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, q, &count,
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column)
	if err != nil {
		return false, fmt.Errorf("inspecting %s.%s: %w", table, column, err)
	}
	return count > 0, nil
}

// CurrentVersion returns the highest applied schema version, or 0 for a
// database that has never been migrated.
func (s *SQLiteStore) CurrentVersion(ctx context.Context) (int, error) {
	var tableCount int
	err := s.db.GetContext(ctx, &tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'")
	if err != nil {
		return 0, fmt.Errorf("checking schema_version table: %w", err)
	}
	if tableCount == 0 {
		return 0, nil
	}

	var version int
	err = s.db.GetContext(ctx, &version, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// Migrate applies every outstanding migration in order, each in its own
// transaction together with its schema_version row. It is safe to call on
// every startup.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		"CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("%w: creating schema_version: %w", ErrMigrationFailed, err)
	}

	current, err := s.CurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("%w: applying v%d (%s): %w", ErrMigrationFailed, m.version, m.name, err)
		}
	}

	return nil
}

func (s *SQLiteStore) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := m.apply(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
		return fmt.Errorf("recording version: %w", err)
	}

	return tx.Commit()
}
