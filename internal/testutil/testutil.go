// Package testutil spins up isolated SQLite and miniredis backends for tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/tutormatch/internal/app"
	"github.com/oggyb/tutormatch/internal/cache"
	"github.com/oggyb/tutormatch/internal/config"
	"github.com/oggyb/tutormatch/internal/db"
)

// NewDB opens an in-memory SQLite database private to t, with the full
// schema migrated. A single connection keeps the shared cache free of
// table locks, so never query outside an open transaction from inside it.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	database, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// NewConcurrentDB opens a file-backed SQLite database private to t that
// allows several connections at once. Transactions begin IMMEDIATE and wait
// on the write lock, so concurrent writers queue instead of failing.
func NewConcurrentDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=10000&_txlock=immediate&_journal_mode=WAL"
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(8)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// NewCache starts a miniredis private to t and returns a client for it.
func NewCache(t testing.TB) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

// NewAppContext wires a fresh DB, cache and a discarding logger. The feed
// seed is fixed so feeds are reproducible.
func NewAppContext(t testing.TB) (*app.AppContext, *miniredis.Miniredis) {
	t.Helper()
	rc, mr := NewCache(t)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Feed.Seed = 1

	log := slog.New(slog.NewTextHandler(io.Discard, nil)) // discard logs in tests
	return app.New(NewDB(t), rc, log, cfg), mr
}

// User describes a row for SeedUsers. Tags get the kind matching Role.
type User struct {
	Role db.Role
	Name string
	Tags []string
}

// SeedUsers inserts users with ids starting at 1, in argument order.
func SeedUsers(t testing.TB, gdb *gorm.DB, users ...User) {
	t.Helper()
	for i, u := range users {
		id := uint64(i + 1)
		name := u.Name
		if name == "" {
			name = fmt.Sprintf("user%d", id)
		}
		require.NoError(t, gdb.Create(&db.User{
			ID:           id,
			Name:         name,
			Email:        fmt.Sprintf("u%d@test.com", id),
			PasswordHash: "x",
			Role:         u.Role,
		}).Error)
		for _, tag := range u.Tags {
			require.NoError(t, gdb.Create(&db.Tag{UserID: id, Kind: u.Role.TagKind(), Name: tag}).Error)
		}
	}
}

// Count returns the number of rows of model.
func Count(t testing.TB, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}
