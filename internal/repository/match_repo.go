package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/tutormatch/internal/db"
	svcErr "github.com/oggyb/tutormatch/internal/errors"
	"github.com/oggyb/tutormatch/internal/utils/pagination"
)

// MatchRepository provides data access methods for the Match model.
// Callers pass pairs already in canonical (a < b) order.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// WithTx returns a copy bound to tx.
func (r *MatchRepository) WithTx(tx *gorm.DB) *MatchRepository {
	return &MatchRepository{db: tx}
}

// CreateIfAbsent inserts an active match for (a, b) unless one exists, then
// returns the stored row. created is false when the row was already there.
//
// Behavior:
//   - INSERT ... ON CONFLICT DO NOTHING against idx_matches_pair, so two
//     concurrent mutual likes converge on one row.
//   - An existing row is returned unchanged (active flag included).
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, a, b uint64) (*db.Match, bool, error) {
	m := db.Match{UserAID: a, UserBID: b, Active: true}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&m)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return nil, false, fmt.Errorf("insert match %d-%d: %w", a, b, res.Error)
	}

	stored, err := r.FindByPair(ctx, a, b)
	if err != nil {
		return nil, false, err
	}
	return stored, res.Error == nil && res.RowsAffected > 0, nil
}

// FindByPair loads the match of a canonical pair.
func (r *MatchRepository) FindByPair(ctx context.Context, a, b uint64) (*db.Match, error) {
	var m db.Match
	err := r.db.WithContext(ctx).Where("user_a_id = ? AND user_b_id = ?", a, b).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound(fmt.Sprintf("no match between %d and %d", a, b))
	}
	if err != nil {
		return nil, fmt.Errorf("load match %d-%d: %w", a, b, err)
	}
	return &m, nil
}

// FindByID loads a match by id.
func (r *MatchRepository) FindByID(ctx context.Context, matchID uint64) (*db.Match, error) {
	var m db.Match
	err := r.db.WithContext(ctx).First(&m, matchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound(fmt.Sprintf("match %d not found", matchID))
	}
	if err != nil {
		return nil, fmt.Errorf("load match %d: %w", matchID, err)
	}
	return &m, nil
}

// ListActive returns the active matches of userID.
//
// Behavior:
//   - Ordered by created_at DESC, id DESC.
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.ListActive(ctx, 42, nil, 20) // newest 20 matches of user 42
func (r *MatchRepository) ListActive(
	ctx context.Context,
	userID uint64,
	paginationToken *string,
	limit int,
) ([]db.Match, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, svcErr.Validation(err.Error())
	}

	query := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if !cursor.IsZero() {
		ts := time.UnixMilli(cursor.CreatedUnix).UTC()
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.ID,
		)
	}

	var matches []db.Match
	if err := query.Find(&matches).Error; err != nil {
		return nil, nil, fmt.Errorf("list matches of %d: %w", userID, err)
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(matches) > limit {
		last := matches[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ID:          last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		matches = matches[:limit]
	}
	return matches, nextToken, nil
}

// CountActive returns how many active matches userID takes part in.
func (r *MatchRepository) CountActive(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("active = ?", true).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count matches of %d: %w", userID, err)
	}
	return count, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
