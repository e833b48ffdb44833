package matching

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/tutormatch/internal/db"
	svcErr "github.com/oggyb/tutormatch/internal/errors"
	"github.com/oggyb/tutormatch/internal/repository"
)

// Engine creates matches. It is the only writer of the matches table.
type Engine struct {
	matches *repository.MatchRepository
}

// NewEngine creates an Engine bound to the given DB connection.
func NewEngine(database *gorm.DB) *Engine {
	return &Engine{matches: repository.NewMatchRepository(database)}
}

// WithTx returns a copy bound to tx.
func (e *Engine) WithTx(tx *gorm.DB) *Engine {
	return &Engine{matches: e.matches.WithTx(tx)}
}

// CanonicalPair orders two user ids so (a, b) and (b, a) map to the same row.
func CanonicalPair(u1, u2 uint64) (uint64, uint64) {
	if u1 > u2 {
		return u2, u1
	}
	return u1, u2
}

// EnsureMatch returns the match between u1 and u2, creating an active one if
// none exists. created reports whether this call inserted the row.
//
// Behavior:
//   - Argument order does not matter.
//   - Concurrent callers converge on one row through the unique pair index.
//   - An existing match is returned unchanged, inactive or not.
func (e *Engine) EnsureMatch(ctx context.Context, u1, u2 uint64) (*db.Match, bool, error) {
	if u1 == u2 {
		return nil, false, svcErr.Validation("cannot match a user with themselves")
	}
	a, b := CanonicalPair(u1, u2)
	return e.matches.CreateIfAbsent(ctx, a, b)
}
