package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/oggyb/tutormatch/internal/db"
)

// TagRepository stores teacher skills and student interests in one table.
// There is no partial-update API: a user's tag set is always replaced whole.
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new repository bound to the given DB connection.
func NewTagRepository(database *gorm.DB) *TagRepository {
	return &TagRepository{db: database}
}

// WithTx returns a copy bound to tx.
func (r *TagRepository) WithTx(tx *gorm.DB) *TagRepository {
	return &TagRepository{db: tx}
}

// ReplaceTags deletes every tag of userID and inserts tags in one transaction.
// UserID and Kind of the given rows are overwritten.
//
// Example:
//
//	repo.ReplaceTags(ctx, 1, db.TagKindSkill, []db.Tag{{Name: "Python"}})
func (r *TagRepository) ReplaceTags(ctx context.Context, userID uint64, kind db.TagKind, tags []db.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&db.Tag{}).Error; err != nil {
			return fmt.Errorf("clear tags of user %d: %w", userID, err)
		}
		if len(tags) == 0 {
			return nil
		}

		rows := make([]db.Tag, len(tags))
		for i, t := range tags {
			t.ID = 0
			t.UserID = userID
			t.Kind = kind
			rows[i] = t
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert tags of user %d: %w", userID, err)
		}
		return nil
	})
}

// GetTags returns the tags of userID in insertion order.
func (r *TagRepository) GetTags(ctx context.Context, userID uint64) ([]db.Tag, error) {
	var tags []db.Tag
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("load tags of user %d: %w", userID, err)
	}
	return tags, nil
}

// GetTagsForUsers batch-loads tags keyed by owner.
func (r *TagRepository) GetTagsForUsers(ctx context.Context, userIDs []uint64) (map[uint64][]db.Tag, error) {
	out := make(map[uint64][]db.Tag, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var tags []db.Tag
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Order("user_id, id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	for _, t := range tags {
		out[t.UserID] = append(out[t.UserID], t)
	}
	return out, nil
}
