package ratings

import (
	"context"
	"strings"

	"github.com/oggyb/tutormatch/internal/app"
	"github.com/oggyb/tutormatch/internal/db"
	svcErr "github.com/oggyb/tutormatch/internal/errors"
	"github.com/oggyb/tutormatch/internal/matching"
	pb "github.com/oggyb/tutormatch/internal/proto/ratings"
	"github.com/oggyb/tutormatch/internal/repository"
	"github.com/oggyb/tutormatch/internal/service/convert"
)

const (
	minScore = 1
	maxScore = 5
)

// Service implements the Rating gRPC API.
type Service struct {
	appCtx     *app.AppContext
	matches    *repository.MatchRepository
	ratings    *repository.RatingRepository
	users      *repository.UserRepository
	aggregator *matching.Aggregator

	pb.UnimplementedRatingServiceServer
}

// NewRatingService creates a new Rating service with dependencies from AppContext.
func NewRatingService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:     appCtx,
		matches:    repository.NewMatchRepository(appCtx.DB),
		ratings:    repository.NewRatingRepository(appCtx.DB),
		users:      repository.NewUserRepository(appCtx.DB),
		aggregator: matching.NewAggregator(appCtx.DB, appCtx.RedisCache, appCtx.Config.Ratings.CacheTTL),
	}
}

// SubmitRating stores the actor's rating of the other participant of a match.
//
// Behavior:
//   - Score outside 1..5 → InvalidArgument.
//   - Missing or inactive match → NotFound.
//   - Actor not in the match → PermissionDenied.
//   - A second submission overwrites the first.
//   - The rated user's cached summary is dropped.
//
// Example:
//
//	svc.SubmitRating(ctx, &pb.SubmitRatingRequest{ActorUserId: "1", MatchId: "9", Score: 5})
func (s *Service) SubmitRating(ctx context.Context, req *pb.SubmitRatingRequest) (*pb.SubmitRatingResponse, error) {
	s.appCtx.Logger.Debug("SubmitRating called", "actor", req.GetActorUserId(), "match", req.GetMatchId(), "score", req.Score)

	actorID, err := convert.ParseID("actor_user_id", req.GetActorUserId())
	if err != nil {
		return nil, err
	}
	matchID, err := convert.ParseID("match_id", req.GetMatchId())
	if err != nil {
		return nil, err
	}
	if req.Score < minScore || req.Score > maxScore {
		return nil, svcErr.InvalidArgument("score must be between 1 and 5")
	}

	m, err := s.matches.FindByID(ctx, matchID)
	if err != nil {
		return nil, s.fail("FindByID", err)
	}
	if !m.Active {
		return nil, svcErr.Map(svcErr.NotFound("match is not active"))
	}
	ratedID, ok := m.Counterpart(actorID)
	if !ok {
		return nil, svcErr.Map(svcErr.Forbidden("you are not part of this match"))
	}

	rating := &db.Rating{
		MatchID: m.ID,
		RaterID: actorID,
		RatedID: ratedID,
		Score:   int(req.Score),
		Comment: strings.TrimSpace(req.Comment),
	}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return nil, s.fail("Upsert", err)
	}
	if err := s.aggregator.Invalidate(ctx, ratedID); err != nil {
		s.appCtx.Logger.Warn("rating summary invalidation failed", "user_id", ratedID, "err", err)
	}

	stored, err := s.ratings.Find(ctx, m.ID, actorID)
	if err != nil {
		return nil, s.fail("Find", err)
	}
	return &pb.SubmitRatingResponse{Rating: toWire(stored)}, nil
}

// GetMatchRating returns both directions of rating within a match, from the
// actor's point of view.
//
// Behavior:
//   - YourRating and ReceivedRating are independently null.
//   - CanRate mirrors the match's active flag.
func (s *Service) GetMatchRating(ctx context.Context, req *pb.GetMatchRatingRequest) (*pb.GetMatchRatingResponse, error) {
	s.appCtx.Logger.Debug("GetMatchRating called", "actor", req.GetActorUserId(), "match", req.GetMatchId())

	actorID, err := convert.ParseID("actor_user_id", req.GetActorUserId())
	if err != nil {
		return nil, err
	}
	matchID, err := convert.ParseID("match_id", req.GetMatchId())
	if err != nil {
		return nil, err
	}

	m, err := s.matches.FindByID(ctx, matchID)
	if err != nil {
		return nil, s.fail("FindByID", err)
	}
	otherID, ok := m.Counterpart(actorID)
	if !ok {
		return nil, svcErr.Map(svcErr.Forbidden("you are not part of this match"))
	}

	other, err := s.users.FindByID(ctx, otherID)
	if err != nil {
		return nil, s.fail("FindByID", err)
	}
	yours, err := s.ratings.Find(ctx, m.ID, actorID)
	if err != nil {
		return nil, s.fail("Find", err)
	}
	received, err := s.ratings.Find(ctx, m.ID, otherID)
	if err != nil {
		return nil, s.fail("Find", err)
	}

	return &pb.GetMatchRatingResponse{
		MatchId:        convert.FormatID(m.ID),
		Other:          convert.UserCard(*other),
		CanRate:        m.Active,
		YourRating:     toWire(yours),
		ReceivedRating: toWire(received),
	}, nil
}

func toWire(r *db.Rating) *pb.Rating {
	if r == nil {
		return nil
	}
	return &pb.Rating{
		Score:     int32(r.Score),
		Comment:   r.Comment,
		UpdatedAt: uint64(r.UpdatedAt.UnixMilli()),
	}
}

// fail logs storage failures and maps err to a gRPC status.
func (s *Service) fail(op string, err error) error {
	if svcErr.IsInternal(err) {
		s.appCtx.Logger.Error(op+" failed", "err", err)
	}
	return svcErr.Map(err)
}
