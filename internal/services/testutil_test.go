package services

import (
	"database/sql"
	"testing"

	"github.com/mwestby/projtrack/internal/database"
)

// newTestDB opens an in-memory sqlite database with the schema applied.
// MaxOpenConns is pinned to 1 so every query sees the same in-memory store.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
