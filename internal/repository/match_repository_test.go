package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/tutormatch/internal/config"
	"github.com/oggyb/tutormatch/internal/db"
	svcErr "github.com/oggyb/tutormatch/internal/errors"
	"github.com/oggyb/tutormatch/internal/repository"
)

func TestMatchCreateIfAbsentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	first, created, err := repo.CreateIfAbsent(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, first.Active)

	again, created, err := repo.CreateIfAbsent(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	var count int64
	require.NoError(t, dbase.Model(&db.Match{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMatchFind(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMatchRepository(setupTestDB(t))

	m, _, err := repo.CreateIfAbsent(ctx, 3, 8)
	require.NoError(t, err)

	byID, err := repo.FindByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), byID.UserAID)
	assert.Equal(t, uint64(8), byID.UserBID)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	_, err = repo.FindByPair(ctx, 8, 3)
	assert.ErrorIs(t, err, svcErr.ErrNotFound, "pairs must be canonical")
}

func TestMatchListActiveAndPagination(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	base := time.Now().UTC().Truncate(time.Millisecond)
	rows := []db.Match{
		{UserAID: 1, UserBID: 2, Active: true, CreatedAt: base.Add(-3 * time.Minute)},
		{UserAID: 1, UserBID: 3, Active: true, CreatedAt: base.Add(-2 * time.Minute)},
		{UserAID: 1, UserBID: 4, Active: true, CreatedAt: base.Add(-1 * time.Minute)},
		{UserAID: 5, UserBID: 6, Active: true, CreatedAt: base},
	}
	require.NoError(t, dbase.Create(&rows).Error)
	// soft-deactivated matches are hidden
	require.NoError(t, dbase.Create(&db.Match{UserAID: 1, UserBID: 7, Active: true, CreatedAt: base}).Error)
	require.NoError(t, dbase.Model(&db.Match{}).Where("user_b_id = ?", 7).Update("active", false).Error)

	page1, next, err := repo.ListActive(ctx, 1, nil, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, next)
	assert.Equal(t, uint64(4), page1[0].UserBID)
	assert.Equal(t, uint64(3), page1[1].UserBID)

	page2, next, err := repo.ListActive(ctx, 1, next, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Nil(t, next)
	assert.Equal(t, uint64(2), page2[0].UserBID)

	count, err := repo.CountActive(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	bad := "%%%"
	_, _, err = repo.ListActive(ctx, 1, &bad, 2)
	assert.ErrorIs(t, err, svcErr.ErrValidation)
}

// TestListActivePagesSubMillisecondMatches opens the store the way the
// server does and pages through matches created within the same millisecond.
func TestListActivePagesSubMillisecondMatches(t *testing.T) {
	ctx := context.Background()
	cfg := config.New()
	cfg.DB.Driver = "sqlite"
	cfg.DB.SQLitePath = filepath.Join(t.TempDir(), "matches.db")
	cfg.DB.LogLevel = "silent"

	dbase, err := db.NewDB(cfg)
	require.NoError(t, err)
	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	base := time.Now()
	for i := 2; i <= 16; i++ {
		require.NoError(t, dbase.Create(&db.Match{
			UserAID: 1, UserBID: uint64(i), Active: true,
			CreatedAt: base.Add(time.Duration(i) * 100 * time.Microsecond),
		}).Error)
	}
	// the rest take the clock
	repo := repository.NewMatchRepository(dbase)
	for i := 17; i <= 26; i++ {
		_, _, err := repo.CreateIfAbsent(ctx, 1, uint64(i))
		require.NoError(t, err)
	}

	seen := map[uint64]bool{}
	var token *string
	for pages := 0; ; pages++ {
		require.Less(t, pages, 10)
		page, next, err := repo.ListActive(ctx, 1, token, 20)
		require.NoError(t, err)
		for _, m := range page {
			assert.False(t, seen[m.ID], "match %d listed twice", m.ID)
			seen[m.ID] = true
		}
		if next == nil {
			break
		}
		token = next
	}
	assert.Len(t, seen, 25)

	var stored db.Match
	require.NoError(t, dbase.First(&stored).Error)
	assert.Equal(t, stored.CreatedAt, stored.CreatedAt.Truncate(time.Millisecond))
}
