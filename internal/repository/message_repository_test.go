package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/tutormatch/internal/db"
	"github.com/oggyb/tutormatch/internal/repository"
)

func TestMessageSummaries(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMessageRepository(dbase)

	base := time.Now().UTC().Truncate(time.Millisecond)
	msgs := []db.Message{
		{MatchID: 1, SenderID: 2, Body: "hello", SentAt: base.Add(-2 * time.Minute)},
		{MatchID: 1, SenderID: 2, Body: "are you there?", SentAt: base.Add(-1 * time.Minute)},
		{MatchID: 1, SenderID: 1, Body: "yes", SentAt: base},
		{MatchID: 2, SenderID: 3, Body: "read already", SentAt: base, IsRead: true},
	}
	require.NoError(t, dbase.Create(&msgs).Error)

	got, err := repo.Summaries(ctx, 1, []uint64{1, 2, 3})
	require.NoError(t, err)

	require.NotNil(t, got[1].LastMessage)
	assert.Equal(t, "yes", *got[1].LastMessage)
	assert.Equal(t, int64(2), got[1].UnreadCount, "own messages are never unread")

	assert.Equal(t, int64(0), got[2].UnreadCount)
	require.NotNil(t, got[2].LastMessageAt)

	assert.Nil(t, got[3].LastMessage)
	assert.Zero(t, got[3].UnreadCount)
}
