package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/tutormatch/internal/db"
)

// RatingRepository provides data access methods for the Rating model.
type RatingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new repository bound to the given DB connection.
func NewRatingRepository(database *gorm.DB) *RatingRepository {
	return &RatingRepository{db: database}
}

// RatingAggregate is the raw AVG/COUNT of ratings received by one user.
type RatingAggregate struct {
	RatedID uint64
	Average float64
	Total   int64
}

// Upsert stores a rating.
//
// Behavior:
//   - If (match_id, rater_id) exists → score, comment, rated_id and updated_at
//     are overwritten.
//   - Otherwise a new row is inserted.
func (r *RatingRepository) Upsert(ctx context.Context, rating *db.Rating) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "match_id"}, {Name: "rater_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "comment", "rated_id", "updated_at"}),
		}).
		Create(rating).Error
	if err != nil {
		return fmt.Errorf("upsert rating of match %d by %d: %w", rating.MatchID, rating.RaterID, err)
	}
	return nil
}

// Find returns the rating raterID gave in matchID, or nil when there is none.
func (r *RatingRepository) Find(ctx context.Context, matchID, raterID uint64) (*db.Rating, error) {
	var rows []db.Rating
	err := r.db.WithContext(ctx).
		Where("match_id = ? AND rater_id = ?", matchID, raterID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load rating of match %d by %d: %w", matchID, raterID, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Aggregates returns AVG(score) and COUNT(*) per rated user. Users without
// ratings are absent from the result.
func (r *RatingRepository) Aggregates(ctx context.Context, userIDs []uint64) (map[uint64]RatingAggregate, error) {
	out := make(map[uint64]RatingAggregate, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []RatingAggregate
	err := r.db.WithContext(ctx).
		Model(&db.Rating{}).
		Select("rated_id, AVG(score) AS average, COUNT(*) AS total").
		Where("rated_id IN ?", userIDs).
		Group("rated_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}
	for _, row := range rows {
		out[row.RatedID] = row
	}
	return out, nil
}
