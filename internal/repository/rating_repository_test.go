package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/tutormatch/internal/db"
	"github.com/oggyb/tutormatch/internal/repository"
)

func TestRatingUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewRatingRepository(dbase)

	require.NoError(t, repo.Upsert(ctx, &db.Rating{MatchID: 1, RaterID: 1, RatedID: 2, Score: 3, Comment: "ok"}))
	require.NoError(t, repo.Upsert(ctx, &db.Rating{MatchID: 1, RaterID: 1, RatedID: 2, Score: 5, Comment: "great"}))

	var count int64
	require.NoError(t, dbase.Model(&db.Rating{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.Find(ctx, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 5, got.Score)
	assert.Equal(t, "great", got.Comment)

	none, err := repo.Find(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRatingScoreCheckConstraint(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRatingRepository(setupTestDB(t))

	err := repo.Upsert(ctx, &db.Rating{MatchID: 1, RaterID: 1, RatedID: 2, Score: 6})
	assert.Error(t, err)
}

func TestRatingAggregates(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRatingRepository(setupTestDB(t))

	require.NoError(t, repo.Upsert(ctx, &db.Rating{MatchID: 1, RaterID: 1, RatedID: 9, Score: 5}))
	require.NoError(t, repo.Upsert(ctx, &db.Rating{MatchID: 2, RaterID: 2, RatedID: 9, Score: 4}))
	require.NoError(t, repo.Upsert(ctx, &db.Rating{MatchID: 3, RaterID: 3, RatedID: 9, Score: 4}))
	require.NoError(t, repo.Upsert(ctx, &db.Rating{MatchID: 1, RaterID: 9, RatedID: 1, Score: 2}))

	agg, err := repo.Aggregates(ctx, []uint64{9, 1, 5})
	require.NoError(t, err)
	assert.Equal(t, int64(3), agg[9].Total)
	assert.InDelta(t, 13.0/3.0, agg[9].Average, 1e-9)
	assert.Equal(t, int64(1), agg[1].Total)
	assert.NotContains(t, agg, uint64(5))
}
