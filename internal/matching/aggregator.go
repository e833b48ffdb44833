package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/tutormatch/internal/cache"
	"github.com/oggyb/tutormatch/internal/logger"
	"github.com/oggyb/tutormatch/internal/repository"
)

// Summary is a user's reputation: the mean score received and how many
// ratings it is based on. Average is nil when Count is 0.
type Summary struct {
	Average *float64 `json:"average"`
	Count   int64    `json:"count"`
}

// Aggregator computes rating summaries, read-through cached in Redis.
type Aggregator struct {
	ratings *repository.RatingRepository
	cache   *cache.RedisCache
	ttl     time.Duration
}

// NewAggregator creates an Aggregator. rc may be nil to disable caching.
func NewAggregator(database *gorm.DB, rc *cache.RedisCache, ttl time.Duration) *Aggregator {
	return &Aggregator{
		ratings: repository.NewRatingRepository(database),
		cache:   rc,
		ttl:     ttl,
	}
}

// Summarize returns the rating summary of one user.
func (a *Aggregator) Summarize(ctx context.Context, userID uint64) (Summary, error) {
	all, err := a.SummarizeMany(ctx, []uint64{userID})
	if err != nil {
		return Summary{}, err
	}
	return all[userID], nil
}

// SummarizeMany returns a summary for every id, including users nobody rated.
//
// Behavior:
//   - Cached summaries are read in one MGET.
//   - Misses are aggregated with a single GROUP BY and written back, unless
//     invalidated while they were being aggregated.
//   - Cache failures are logged and fall through to the database.
func (a *Aggregator) SummarizeMany(ctx context.Context, userIDs []uint64) (map[uint64]Summary, error) {
	out := make(map[uint64]Summary, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	missing := make([]uint64, 0, len(userIDs))
	var gens map[uint64]string
	if a.cache != nil {
		keys := make([]string, len(userIDs))
		for i, id := range userIDs {
			keys[i] = a.cache.KeyForRatingSummary(id)
		}
		cached, err := cache.MGetJSON[Summary](ctx, a.cache, keys)
		if err != nil {
			logger.Warn("rating summary cache read failed", "err", err)
		}
		for i, id := range userIDs {
			if s, ok := cached[keys[i]]; ok {
				out[id] = s
			} else {
				missing = append(missing, id)
			}
		}
		gens = a.generations(ctx, missing)
	} else {
		missing = append(missing, userIDs...)
	}
	if len(missing) == 0 {
		return out, nil
	}

	aggs, err := a.ratings.Aggregates(ctx, missing)
	if err != nil {
		return nil, err
	}
	entries := make([]cache.Entry, 0, len(gens))
	for _, id := range missing {
		s := Summary{}
		if agg, ok := aggs[id]; ok && agg.Total > 0 {
			avg := round2(agg.Average)
			s = Summary{Average: &avg, Count: agg.Total}
		}
		out[id] = s

		gen, ok := gens[id]
		if !ok {
			continue
		}
		raw, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("encode summary of %d: %w", id, err)
		}
		entries = append(entries, cache.Entry{Key: a.cache.KeyForRatingSummary(id), Gen: gen, Value: raw})
	}
	if len(entries) > 0 {
		if err := a.cache.Fill(ctx, a.ttl, entries...); err != nil {
			logger.Warn("rating summary cache write failed", "err", err)
		}
	}
	return out, nil
}

// generations reads the cache generations of ids before their summaries are
// loaded. Ids without one are not written back.
func (a *Aggregator) generations(ctx context.Context, ids []uint64) map[uint64]string {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = a.cache.KeyForRatingSummary(id)
	}
	gens, err := a.cache.Generations(ctx, keys...)
	if err != nil {
		logger.Warn("rating summary generation read failed", "err", err)
		return nil
	}
	out := make(map[uint64]string, len(ids))
	for i, id := range ids {
		out[id] = gens[i]
	}
	return out
}

// Invalidate drops the cached summary of userID. Call it after any rating
// about that user is written.
func (a *Aggregator) Invalidate(ctx context.Context, userID uint64) error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Invalidate(ctx, a.cache.KeyForRatingSummary(userID))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
