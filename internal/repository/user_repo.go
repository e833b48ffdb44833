package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/tutormatch/internal/db"
	svcErr "github.com/oggyb/tutormatch/internal/errors"
)

// UserRepository reads users owned by the identity provider and applies the
// few writes this service makes to them (role, display fields, deletion).
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// WithTx returns a copy bound to tx.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// ProfileUpdate carries optional display fields; nil means "leave as is".
type ProfileUpdate struct {
	Name     *string
	Bio      *string
	PhotoURL *string
}

// FindByID loads a user. Unknown ids yield an ErrNotFound domain error.
func (r *UserRepository) FindByID(ctx context.Context, userID uint64) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound(fmt.Sprintf("user %d not found", userID))
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	return &u, nil
}

// FindByIDs loads users keyed by id. Missing ids are simply absent.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]db.User, error) {
	out := make(map[uint64]db.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []db.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// LockPair loads both users with a row lock, lowest id first, so two
// transactions touching the same pair queue behind each other. Must run
// inside a transaction; SQLite ignores the lock and relies on its write lock.
func (r *UserRepository) LockPair(ctx context.Context, a, b uint64) error {
	var users []db.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("id IN ?", []uint64{a, b}).
		Order("id").
		Find(&users).Error
	if err != nil {
		return fmt.Errorf("lock users %d, %d: %w", a, b, err)
	}
	for _, id := range []uint64{a, b} {
		if !slices.ContainsFunc(users, func(u db.User) bool { return u.ID == id }) {
			return svcErr.NotFound(fmt.Sprintf("user %d not found", id))
		}
	}
	return nil
}

// GetRole returns the declared role of a user (empty until profile completion).
func (r *UserRepository) GetRole(ctx context.Context, userID uint64) (db.Role, error) {
	u, err := r.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// CandidateIDs returns, ordered by id, every user of role that viewerID has
// not swiped yet, excluding the viewer.
//
// Example:
//
//	repo.CandidateIDs(ctx, 3, db.RoleTeacher) // teachers student 3 can still see
func (r *UserRepository) CandidateIDs(ctx context.Context, viewerID uint64, role db.Role) ([]uint64, error) {
	swiped := r.db.Model(&db.Swipe{}).Select("to_user_id").Where("from_user_id = ?", viewerID)

	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("role = ? AND id <> ?", role, viewerID).
		Where("id NOT IN (?)", swiped).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return ids, nil
}

// UpdateProfile sets role (when non-empty) and any provided display fields.
// Callers check that the user exists.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID uint64, role db.Role, upd ProfileUpdate) error {
	fields := map[string]any{}
	if role != "" {
		fields["role"] = role
	}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Bio != nil {
		fields["bio"] = *upd.Bio
	}
	if upd.PhotoURL != nil {
		fields["photo_url"] = *upd.PhotoURL
	}
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", userID).Updates(fields).Error; err != nil {
		return fmt.Errorf("update user %d: %w", userID, err)
	}
	return nil
}

// Delete removes a user and everything that references it: tags, swipes in
// either direction, matches with their messages and ratings, and ratings the
// user gave or received. Runs as one transaction.
func (r *UserRepository) Delete(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u db.User
		if err := tx.Select("id").First(&u, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return svcErr.NotFound(fmt.Sprintf("user %d not found", userID))
			}
			return fmt.Errorf("load user %d: %w", userID, err)
		}

		var matchIDs []uint64
		if err := tx.Model(&db.Match{}).
			Where("user_a_id = ? OR user_b_id = ?", userID, userID).
			Pluck("id", &matchIDs).Error; err != nil {
			return fmt.Errorf("list matches: %w", err)
		}

		if len(matchIDs) > 0 {
			if err := tx.Where("match_id IN ?", matchIDs).Delete(&db.Message{}).Error; err != nil {
				return fmt.Errorf("delete messages: %w", err)
			}
			if err := tx.Where("match_id IN ?", matchIDs).Delete(&db.Rating{}).Error; err != nil {
				return fmt.Errorf("delete match ratings: %w", err)
			}
			if err := tx.Where("id IN ?", matchIDs).Delete(&db.Match{}).Error; err != nil {
				return fmt.Errorf("delete matches: %w", err)
			}
		}

		byUser := map[string]any{"id": userID}
		steps := []struct {
			what  string
			model any
			where string
		}{
			{"messages", &db.Message{}, "sender_id = @id"},
			{"ratings", &db.Rating{}, "rater_id = @id OR rated_id = @id"},
			{"swipes", &db.Swipe{}, "from_user_id = @id OR to_user_id = @id"},
			{"tags", &db.Tag{}, "user_id = @id"},
		}
		for _, s := range steps {
			if err := tx.Where(s.where, byUser).Delete(s.model).Error; err != nil {
				return fmt.Errorf("delete %s: %w", s.what, err)
			}
		}

		if err := tx.Delete(&db.User{}, userID).Error; err != nil {
			return fmt.Errorf("delete user %d: %w", userID, err)
		}
		return nil
	})
}
