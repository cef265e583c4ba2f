package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// setClock pins the creation clock for the duration of the test.
func setClock(t *testing.T, times ...time.Time) {
	t.Helper()

	orig := now
	i := 0
	now = func() time.Time {
		tm := times[i]
		if i < len(times)-1 {
			i++
		}
		return tm
	}
	t.Cleanup(func() { now = orig })
}

func schemaDump(t *testing.T, s *SQLiteStore) []string {
	t.Helper()

	var stmts []string
	err := s.db.Select(&stmts,
		"SELECT sql FROM sqlite_master WHERE sql IS NOT NULL ORDER BY type, name")
	require.NoError(t, err)
	return stmts
}
