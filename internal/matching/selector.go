package matching

import (
	"cmp"
	"context"
	"slices"

	"gorm.io/gorm"

	"github.com/oggyb/tutormatch/internal/db"
	svcErr "github.com/oggyb/tutormatch/internal/errors"
	"github.com/oggyb/tutormatch/internal/repository"
)

// DefaultFeedSize caps the number of candidates in one feed.
const DefaultFeedSize = 50

// Candidate is one entry of a discovery feed.
type Candidate struct {
	User       db.User
	Tags       []db.Tag
	MatchScore int
	Rating     Summary
}

// Selector builds discovery feeds.
type Selector struct {
	users   *repository.UserRepository
	tags    *repository.TagRepository
	ratings *Aggregator
	sampler *Sampler
	size    int
}

// NewSelector wires a Selector. A non-positive size falls back to
// DefaultFeedSize.
func NewSelector(database *gorm.DB, ratings *Aggregator, sampler *Sampler, size int) *Selector {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Selector{
		users:   repository.NewUserRepository(database),
		tags:    repository.NewTagRepository(database),
		ratings: ratings,
		sampler: sampler,
		size:    size,
	}
}

// Feed returns up to the configured number of opposite-role users that
// userID has not swiped yet, ranked by shared tag names.
//
// Behavior:
//   - Unknown user → ErrNotFound; user without a role → ErrValidation.
//   - Eligible ids are reservoir-sampled, so the feed is random beyond the cap.
//   - Sorted by MatchScore descending; ties keep the sampled order.
//   - An empty feed is not an error.
//
// Example:
//
//	feed, err := selector.Feed(ctx, 7)
func (s *Selector) Feed(ctx context.Context, userID uint64) ([]Candidate, error) {
	viewer, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if viewer.Role == "" {
		return nil, svcErr.Validation("profile incomplete: role is not set")
	}

	eligible, err := s.users.CandidateIDs(ctx, viewer.ID, viewer.Role.Opposite())
	if err != nil {
		return nil, err
	}
	picked := s.sampler.Sample(eligible, s.size)
	if len(picked) == 0 {
		return []Candidate{}, nil
	}

	users, err := s.users.FindByIDs(ctx, picked)
	if err != nil {
		return nil, err
	}
	tagsByUser, err := s.tags.GetTagsForUsers(ctx, append([]uint64{viewer.ID}, picked...))
	if err != nil {
		return nil, err
	}
	summaries, err := s.ratings.SummarizeMany(ctx, picked)
	if err != nil {
		return nil, err
	}

	own := NewTagSet(tagsByUser[viewer.ID])
	feed := make([]Candidate, 0, len(picked))
	for _, id := range picked {
		u, ok := users[id]
		if !ok {
			// deleted between the id scan and the load
			continue
		}
		tags := tagsByUser[id]
		feed = append(feed, Candidate{
			User:       u,
			Tags:       tags,
			MatchScore: own.Score(tags),
			Rating:     summaries[id],
		})
	}

	slices.SortStableFunc(feed, func(a, b Candidate) int {
		return cmp.Compare(b.MatchScore, a.MatchScore)
	})
	return feed, nil
}
