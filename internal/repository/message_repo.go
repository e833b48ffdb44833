package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/tutormatch/internal/db"
)

// MessageRepository reads the chat collaborator's messages table to decorate
// match listings. It never writes.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// ConversationSummary is the last message and unread count of one match,
// seen from a given viewer.
type ConversationSummary struct {
	LastMessage   *string
	LastMessageAt *time.Time
	UnreadCount   int64
}

// Summaries builds a ConversationSummary for every match id. Matches without
// messages get a zero summary.
//
// Unread counts only messages sent by the other participant.
func (r *MessageRepository) Summaries(ctx context.Context, viewerID uint64, matchIDs []uint64) (map[uint64]ConversationSummary, error) {
	out := make(map[uint64]ConversationSummary, len(matchIDs))
	if len(matchIDs) == 0 {
		return out, nil
	}

	var unread []struct {
		MatchID uint64
		Unread  int64
	}
	err := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Select("match_id, COUNT(*) AS unread").
		Where("match_id IN ? AND sender_id <> ? AND is_read = ?", matchIDs, viewerID, false).
		Group("match_id").
		Scan(&unread).Error
	if err != nil {
		return nil, fmt.Errorf("count unread messages: %w", err)
	}
	counts := make(map[uint64]int64, len(unread))
	for _, u := range unread {
		counts[u.MatchID] = u.Unread
	}

	for _, id := range matchIDs {
		summary := ConversationSummary{UnreadCount: counts[id]}

		var last []db.Message
		err := r.db.WithContext(ctx).
			Where("match_id = ?", id).
			Order("sent_at DESC, id DESC").
			Limit(1).
			Find(&last).Error
		if err != nil {
			return nil, fmt.Errorf("load last message of match %d: %w", id, err)
		}
		if len(last) == 1 {
			body, at := last[0].Body, last[0].SentAt
			summary.LastMessage = &body
			summary.LastMessageAt = &at
		}
		out[id] = summary
	}
	return out, nil
}
