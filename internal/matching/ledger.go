package matching

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/oggyb/tutormatch/internal/cache"
	"github.com/oggyb/tutormatch/internal/db"
	svcErr "github.com/oggyb/tutormatch/internal/errors"
	"github.com/oggyb/tutormatch/internal/logger"
	"github.com/oggyb/tutormatch/internal/repository"
)

// SwipeResult is the outcome of a recorded swipe.
type SwipeResult struct {
	// Created is true once the swipe row is stored.
	Created bool
	// IsMatch is true when the swipe completed a mutual like.
	IsMatch bool
	// Match is set together with IsMatch.
	Match *db.Match
	// NewMatch is true when this swipe inserted the match row.
	NewMatch bool
}

// Ledger records swipes and hands mutual likes to the Engine.
type Ledger struct {
	db     *gorm.DB
	users  *repository.UserRepository
	swipes *repository.SwipeRepository
	engine *Engine
	cache  *cache.RedisCache
}

// NewLedger wires a Ledger. rc may be nil, in which case no counter is
// invalidated.
func NewLedger(database *gorm.DB, rc *cache.RedisCache) *Ledger {
	return &Ledger{
		db:     database,
		users:  repository.NewUserRepository(database),
		swipes: repository.NewSwipeRepository(database),
		engine: NewEngine(database),
		cache:  rc,
	}
}

// RecordSwipe stores actor's decision about target.
//
// Behavior:
//   - actor == target or an unknown decision → ErrValidation.
//   - Unknown actor or target → ErrNotFound.
//   - A second swipe for the same ordered pair → ErrDuplicateSwipe.
//   - On like, a reciprocal like creates (or returns) the match.
//   - Insert, reciprocal check and match creation share one transaction,
//     serialized per pair by a lock on both user rows.
//   - After commit the target's cached like counter is dropped.
//
// Example:
//
//	res, err := ledger.RecordSwipe(ctx, 1, 2, db.DecisionLike)
//	if res.IsMatch { ... }
func (l *Ledger) RecordSwipe(ctx context.Context, actorID, targetID uint64, decision db.SwipeDecision) (*SwipeResult, error) {
	if actorID == targetID {
		return nil, svcErr.Validation("cannot swipe on yourself")
	}
	if _, ok := db.ParseDecision(string(decision)); !ok {
		return nil, svcErr.Validation(fmt.Sprintf("unknown decision %q", decision))
	}

	var result SwipeResult
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := l.users.WithTx(tx)
		swipes := l.swipes.WithTx(tx)

		// first statement: later reads see whatever the opposite swipe committed
		if err := users.LockPair(ctx, actorID, targetID); err != nil {
			return err
		}

		exists, err := swipes.Exists(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if exists {
			return svcErr.ErrDuplicateSwipe
		}

		if _, err := swipes.Create(ctx, actorID, targetID, decision); err != nil {
			return err
		}
		result.Created = true

		if decision != db.DecisionLike {
			return nil
		}
		reciprocal, err := swipes.HasLiked(ctx, targetID, actorID)
		if err != nil || !reciprocal {
			return err
		}

		m, created, err := l.engine.WithTx(tx).EnsureMatch(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		result.IsMatch = true
		result.Match = m
		result.NewMatch = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if decision == db.DecisionLike && l.cache != nil {
		if err := l.cache.Invalidate(ctx, l.cache.KeyForLikeCount(targetID)); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("drop like counter failed", "user_id", targetID, "err", err)
		}
	}
	return &result, nil
}
