package matching_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/gorm"

	"github.com/oggyb/tutormatch/internal/cache"
	"github.com/oggyb/tutormatch/internal/db"
	"github.com/oggyb/tutormatch/internal/testutil"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewDB(t)
}

func setupCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	return testutil.NewCache(t)
}

type seedUser struct {
	role db.Role
	tags []string
}

// seed inserts users (ids from 1) and their tags, kind derived from role.
func seed(t *testing.T, gdb *gorm.DB, users ...seedUser) {
	t.Helper()
	rows := make([]testutil.User, len(users))
	for i, u := range users {
		rows[i] = testutil.User{Role: u.role, Tags: u.tags}
	}
	testutil.SeedUsers(t, gdb, rows...)
}

func countRows(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	return testutil.Count(t, gdb, model)
}
