package store

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// Open opens (or creates) a SQLite database at dbPath and enables WAL
// mode and foreign keys. It does not touch the schema; see Migrate.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection: pragmas are per connection and an in-memory
	// database only exists on the connection that created it.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys so checklist items cascade with their note.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore opens the database at dbPath and converges the schema.
// A failed migration is logged and the store is still returned: the
// target schema is additive, so an older layout keeps working for reads.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	s, err := Open(dbPath)
	if err != nil {
		return nil, err
	}

	if err := s.Migrate(context.Background()); err != nil {
		log.Printf("schema migration: %v", err)
	}

	return s, nil
}

// NewWithDB wraps an existing connection. The caller is responsible for
// connection pragmas and for running Migrate.
func NewWithDB(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Reset drops both tables and the version bookkeeping, then rebuilds the
// schema from scratch. All notes and items are lost. Debug use only.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning reset: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"checklist_items", "notebook", "schema_version"} {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("dropping %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing reset: %w", err)
	}

	return s.Migrate(ctx)
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
