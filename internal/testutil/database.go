package testutil

import (
	"testing"

	"echo-daily/internal/database"
	"echo-daily/internal/diary"
)

// NewTestDatabase creates a new in-memory SQLite database with all
// migrations applied. clock and idgen may be nil.
// The database is automatically closed when the test completes.
func NewTestDatabase(t *testing.T, clock diary.Clock, idgen diary.IDGenerator) *database.SQLiteDatabase {
	t.Helper()

	db, err := database.NewSQLiteDatabase(":memory:", clock, idgen)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
