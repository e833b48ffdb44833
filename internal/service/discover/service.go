package discover

import (
	"context"
	"time"

	"github.com/oggyb/tutormatch/internal/app"
	"github.com/oggyb/tutormatch/internal/cache"
	"github.com/oggyb/tutormatch/internal/db"
	svcErr "github.com/oggyb/tutormatch/internal/errors"
	"github.com/oggyb/tutormatch/internal/matching"
	pb "github.com/oggyb/tutormatch/internal/proto/discover"
	"github.com/oggyb/tutormatch/internal/repository"
	"github.com/oggyb/tutormatch/internal/service/convert"
)

const (
	matchesPageSize = 20
	likeCountTTL    = time.Hour
)

// Service implements the Discover gRPC API on top of the matching core,
// the repositories and the Redis cache.
type Service struct {
	appCtx   *app.AppContext
	ledger   *matching.Ledger
	selector *matching.Selector
	users    *repository.UserRepository
	swipes   *repository.SwipeRepository
	matches  *repository.MatchRepository
	messages *repository.MessageRepository

	pb.UnimplementedDiscoverServiceServer
}

// NewDiscoverService creates a new Discover service with dependencies from AppContext.
// Feed size, sampling seed and rating cache TTL come from AppContext.Config.
func NewDiscoverService(appCtx *app.AppContext) *Service {
	cfg := appCtx.Config
	ratings := matching.NewAggregator(appCtx.DB, appCtx.RedisCache, cfg.Ratings.CacheTTL)
	return &Service{
		appCtx:   appCtx,
		ledger:   matching.NewLedger(appCtx.DB, appCtx.RedisCache),
		selector: matching.NewSelector(appCtx.DB, ratings, matching.NewSampler(cfg.Feed.Seed), cfg.Feed.Size),
		users:    repository.NewUserRepository(appCtx.DB),
		swipes:   repository.NewSwipeRepository(appCtx.DB),
		matches:  repository.NewMatchRepository(appCtx.DB),
		messages: repository.NewMessageRepository(appCtx.DB),
	}
}

// Swipe records a like or skip and reports whether it completed a match.
//
// Behavior:
//   - Repeating a swipe on the same target → AlreadyExists.
//   - Unknown actor or target → NotFound.
//
// Example:
//
//	svc.Swipe(ctx, &pb.SwipeRequest{ActorUserId: "1", TargetUserId: "2", Decision: "like"})
func (s *Service) Swipe(ctx context.Context, req *pb.SwipeRequest) (*pb.SwipeResponse, error) {
	s.appCtx.Logger.Debug(
		"Swipe called",
		"actor", req.GetActorUserId(),
		"target", req.GetTargetUserId(),
		"decision", req.GetDecision(),
	)
	actorID, err := convert.ParseID("actor_user_id", req.GetActorUserId())
	if err != nil {
		return nil, err
	}
	targetID, err := convert.ParseID("target_user_id", req.GetTargetUserId())
	if err != nil {
		return nil, err
	}
	decision, ok := db.ParseDecision(req.GetDecision())
	if !ok {
		return nil, svcErr.InvalidArgument("decision must be like or skip")
	}

	res, err := s.ledger.RecordSwipe(ctx, actorID, targetID, decision)
	if err != nil {
		return nil, s.fail("RecordSwipe", err)
	}

	resp := &pb.SwipeResponse{Created: res.Created, IsMatch: res.IsMatch}
	if res.Match != nil {
		resp.MatchId = convert.FormatID(res.Match.ID)
		if res.NewMatch {
			s.appCtx.Logger.Info("match created", "match_id", res.Match.ID, "user_a", res.Match.UserAID, "user_b", res.Match.UserBID)
		}
	}
	return resp, nil
}

// GetFeed returns the actor's discovery feed, best tag overlap first.
func (s *Service) GetFeed(ctx context.Context, req *pb.GetFeedRequest) (*pb.GetFeedResponse, error) {
	s.appCtx.Logger.Debug("GetFeed called", "actor", req.GetActorUserId())

	actorID, err := convert.ParseID("actor_user_id", req.GetActorUserId())
	if err != nil {
		return nil, err
	}

	feed, err := s.selector.Feed(ctx, actorID)
	if err != nil {
		return nil, s.fail("Feed", err)
	}

	resp := &pb.GetFeedResponse{Candidates: make([]*pb.Candidate, 0, len(feed))}
	for _, c := range feed {
		resp.Candidates = append(resp.Candidates, &pb.Candidate{
			UserId:     convert.FormatID(c.User.ID),
			Name:       c.User.Name,
			PhotoUrl:   c.User.PhotoURL,
			Bio:        c.User.Bio,
			Role:       string(c.User.Role),
			Tags:       convert.Tags(c.Tags),
			MatchScore: int32(c.MatchScore),
			Rating:     convert.RatingSummary(c.Rating),
		})
	}

	s.appCtx.Logger.Debug("GetFeed result", "candidate_count", len(resp.Candidates))
	return resp, nil
}

// ListMatches returns the actor's active matches, newest first, with the
// counterpart and a conversation summary for each.
//
// Behavior:
//   - Pages of 20; pass NextPaginationToken back to continue.
//   - A malformed token → InvalidArgument.
func (s *Service) ListMatches(ctx context.Context, req *pb.ListMatchesRequest) (*pb.ListMatchesResponse, error) {
	s.appCtx.Logger.Debug("ListMatches called", "actor", req.GetActorUserId(), "token", req.GetPaginationToken())

	actorID, err := convert.ParseID("actor_user_id", req.GetActorUserId())
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, actorID); err != nil {
		return nil, s.fail("FindByID", err)
	}

	matches, nextToken, err := s.matches.ListActive(ctx, actorID, req.PaginationToken, matchesPageSize)
	if err != nil {
		return nil, s.fail("ListActive", err)
	}

	otherIDs := make([]uint64, 0, len(matches))
	matchIDs := make([]uint64, 0, len(matches))
	for _, m := range matches {
		other, _ := m.Counterpart(actorID)
		otherIDs = append(otherIDs, other)
		matchIDs = append(matchIDs, m.ID)
	}
	others, err := s.users.FindByIDs(ctx, otherIDs)
	if err != nil {
		return nil, s.fail("FindByIDs", err)
	}
	conversations, err := s.messages.Summaries(ctx, actorID, matchIDs)
	if err != nil {
		return nil, s.fail("Summaries", err)
	}

	resp := &pb.ListMatchesResponse{
		Matches:             make([]*pb.MatchSummary, 0, len(matches)),
		NextPaginationToken: nextToken,
	}
	for i, m := range matches {
		other, ok := others[otherIDs[i]]
		if !ok {
			continue
		}
		conv := conversations[m.ID]
		summary := &pb.MatchSummary{
			MatchId:     convert.FormatID(m.ID),
			Other:       convert.UserCard(other),
			CreatedAt:   uint64(m.CreatedAt.UnixMilli()),
			LastMessage: conv.LastMessage,
			UnreadCount: uint64(conv.UnreadCount),
		}
		if conv.LastMessageAt != nil {
			at := uint64(conv.LastMessageAt.UnixMilli())
			summary.LastMessageAt = &at
		}
		resp.Matches = append(resp.Matches, summary)
	}

	s.appCtx.Logger.Debug("ListMatches result", "match_count", len(resp.Matches), "next_token", resp.GetNextPaginationToken())
	return resp, nil
}

// GetStats returns swipe, match and received-like counts of the actor.
// Cache-first strategy for likes received:
//  1. Attempts to read from Redis (likes:count:userID), refreshing its TTL.
//  2. On miss or cache error, counts in the DB and writes the result back.
//
// The ledger drops the key on every incoming like.
func (s *Service) GetStats(ctx context.Context, req *pb.GetStatsRequest) (*pb.GetStatsResponse, error) {
	s.appCtx.Logger.Debug("GetStats called", "actor", req.GetActorUserId())

	actorID, err := convert.ParseID("actor_user_id", req.GetActorUserId())
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, actorID); err != nil {
		return nil, s.fail("FindByID", err)
	}

	swipes, err := s.swipes.CountOutgoing(ctx, actorID)
	if err != nil {
		return nil, s.fail("CountOutgoing", err)
	}
	matches, err := s.matches.CountActive(ctx, actorID)
	if err != nil {
		return nil, s.fail("CountActive", err)
	}
	likes, err := s.likesReceived(ctx, actorID)
	if err != nil {
		return nil, s.fail("CountLikesReceived", err)
	}

	return &pb.GetStatsResponse{
		TotalSwipes:   uint64(swipes),
		TotalMatches:  uint64(matches),
		LikesReceived: uint64(likes),
	}, nil
}

func (s *Service) likesReceived(ctx context.Context, userID uint64) (int64, error) {
	rc := s.appCtx.RedisCache
	var gens []string
	if rc != nil {
		// try cache first
		if n, err := rc.GetLikeCount(ctx, userID, likeCountTTL); err == nil {
			return n, nil
		}
		gens, _ = rc.Generations(ctx, rc.KeyForLikeCount(userID))
	}

	// fallback: DB
	count, err := s.swipes.CountLikesReceived(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(gens) == 1 {
		_ = rc.Fill(ctx, likeCountTTL, cache.Entry{Key: rc.KeyForLikeCount(userID), Gen: gens[0], Value: count})
	}
	return count, nil
}

// fail logs storage failures and maps err to a gRPC status.
func (s *Service) fail(op string, err error) error {
	if svcErr.IsInternal(err) {
		s.appCtx.Logger.Error(op+" failed", "err", err)
	}
	return svcErr.Map(err)
}
