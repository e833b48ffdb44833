package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oggyb/tutormatch/internal/db"
	svcErr "github.com/oggyb/tutormatch/internal/errors"
)

// SwipeRepository provides data access methods for the Swipe model.
// It is append-only: a recorded decision is never updated.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// WithTx returns a copy bound to tx.
func (r *SwipeRepository) WithTx(tx *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: tx}
}

// Exists reports whether from has already swiped on to, whatever the decision.
func (r *SwipeRepository) Exists(ctx context.Context, fromID, toID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("from_user_id = ? AND to_user_id = ?", fromID, toID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check swipe %d->%d: %w", fromID, toID, err)
	}
	return count > 0, nil
}

// Create appends a swipe.
//
// Behavior:
//   - The composite PK rejects a second row for the same ordered pair.
//   - A duplicate-key failure is returned as ErrDuplicateSwipe.
//
// Example:
//
//	repo.Create(ctx, 1, 2, db.DecisionLike) // user 1 liked user 2
func (r *SwipeRepository) Create(ctx context.Context, fromID, toID uint64, decision db.SwipeDecision) (*db.Swipe, error) {
	swipe := db.Swipe{
		FromUserID: fromID,
		ToUserID:   toID,
		Decision:   decision,
	}
	err := r.db.WithContext(ctx).Create(&swipe).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, svcErr.ErrDuplicateSwipe
	}
	if err != nil {
		return nil, fmt.Errorf("insert swipe %d->%d: %w", fromID, toID, err)
	}
	return &swipe, nil
}

// HasLiked checks whether an actor has liked a recipient.
//
// Behavior:
//   - Returns true if there exists a swipe row where from_user_id = X,
//     to_user_id = Y and decision = like.
//   - Used for the reciprocal check when recording a like.
func (r *SwipeRepository) HasLiked(ctx context.Context, fromID, toID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("from_user_id = ? AND to_user_id = ? AND decision = ?", fromID, toID, db.DecisionLike).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check like %d->%d: %w", fromID, toID, err)
	}
	return count > 0, nil
}

// CountOutgoing returns how many swipes userID has made.
func (r *SwipeRepository) CountOutgoing(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("from_user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count swipes of %d: %w", userID, err)
	}
	return count, nil
}

// CountLikesReceived returns how many users liked userID.
// Used in conjunction with the Redis counter (DB is fallback).
func (r *SwipeRepository) CountLikesReceived(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("to_user_id = ? AND decision = ?", userID, db.DecisionLike).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count likes of %d: %w", userID, err)
	}
	return count, nil
}
