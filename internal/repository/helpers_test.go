package repository_test

import (
	"testing"

	"gorm.io/gorm"

	"github.com/oggyb/tutormatch/internal/db"
	"github.com/oggyb/tutormatch/internal/testutil"
)

// setupTestDB opens an isolated in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewDB(t)
}

// seedUsers inserts users with the given roles; ids start at 1.
func seedUsers(t *testing.T, gdb *gorm.DB, roles ...db.Role) {
	t.Helper()
	users := make([]testutil.User, len(roles))
	for i, role := range roles {
		users[i] = testutil.User{Role: role}
	}
	testutil.SeedUsers(t, gdb, users...)
}
