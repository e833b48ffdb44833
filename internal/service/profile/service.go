package profile

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/oggyb/tutormatch/internal/app"
	"github.com/oggyb/tutormatch/internal/db"
	svcErr "github.com/oggyb/tutormatch/internal/errors"
	"github.com/oggyb/tutormatch/internal/matching"
	pb "github.com/oggyb/tutormatch/internal/proto/profile"
	"github.com/oggyb/tutormatch/internal/repository"
	"github.com/oggyb/tutormatch/internal/service/convert"
)

// Service implements the Profile gRPC API: role selection, tag sets and
// public profiles.
type Service struct {
	appCtx     *app.AppContext
	users      *repository.UserRepository
	tags       *repository.TagRepository
	aggregator *matching.Aggregator

	pb.UnimplementedProfileServiceServer
}

// NewProfileService creates a new Profile service with dependencies from AppContext.
func NewProfileService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:     appCtx,
		users:      repository.NewUserRepository(appCtx.DB),
		tags:       repository.NewTagRepository(appCtx.DB),
		aggregator: matching.NewAggregator(appCtx.DB, appCtx.RedisCache, appCtx.Config.Ratings.CacheTTL),
	}
}

// CompleteProfile sets the actor's role and display fields, and replaces the
// tag set when tags are sent.
//
// Behavior:
//   - Unknown role → InvalidArgument.
//   - A role different from an already stored one → AlreadyExists.
//   - tags omitted → stored tags kept; tags sent but all blank → InvalidArgument.
//   - Role, fields and tags are written in one transaction.
//
// Example:
//
//	svc.CompleteProfile(ctx, &pb.CompleteProfileRequest{
//		ActorUserId: "1",
//		Role:        "teacher",
//		Tags:        []*common.Tag{{Name: "Python", Level: "advanced"}},
//	})
func (s *Service) CompleteProfile(ctx context.Context, req *pb.CompleteProfileRequest) (*pb.ProfileResponse, error) {
	s.appCtx.Logger.Debug("CompleteProfile called", "actor", req.GetActorUserId(), "role", req.GetRole(), "tags", len(req.Tags))

	actorID, err := convert.ParseID("actor_user_id", req.GetActorUserId())
	if err != nil {
		return nil, err
	}
	role, ok := db.ParseRole(req.GetRole())
	if !ok {
		return nil, svcErr.InvalidArgument("role must be teacher or student")
	}

	user, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, s.fail("FindByID", err)
	}
	if user.Role != "" && user.Role != role {
		return nil, svcErr.Map(svcErr.ErrRoleChange)
	}

	var tags []db.Tag
	if req.Tags != nil {
		if tags, err = tagsForRole(role, req.Tags); err != nil {
			return nil, svcErr.Map(err)
		}
	}

	upd := repository.ProfileUpdate{
		Name:     trimmed(req.Name),
		Bio:      trimmed(req.Bio),
		PhotoURL: trimmed(req.PhotoUrl),
	}
	if upd.Name != nil && *upd.Name == "" {
		return nil, svcErr.InvalidArgument("name must not be empty")
	}

	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).UpdateProfile(ctx, actorID, role, upd); err != nil {
			return err
		}
		if req.Tags == nil {
			return nil
		}
		return s.tags.WithTx(tx).ReplaceTags(ctx, actorID, role.TagKind(), tags)
	})
	if err != nil {
		return nil, s.fail("CompleteProfile", err)
	}

	if user.Role == "" {
		s.appCtx.Logger.Info("profile completed", "user_id", actorID, "role", role)
	}
	return s.profile(ctx, actorID)
}

// ReplaceTags replaces the actor's whole tag set. The tag kind follows the
// stored role, so the profile must be completed first.
func (s *Service) ReplaceTags(ctx context.Context, req *pb.ReplaceTagsRequest) (*pb.ProfileResponse, error) {
	s.appCtx.Logger.Debug("ReplaceTags called", "actor", req.GetActorUserId(), "tags", len(req.Tags))

	actorID, err := convert.ParseID("actor_user_id", req.GetActorUserId())
	if err != nil {
		return nil, err
	}
	role, err := s.users.GetRole(ctx, actorID)
	if err != nil {
		return nil, s.fail("GetRole", err)
	}
	if role == "" {
		return nil, svcErr.InvalidArgument("profile incomplete: role is not set")
	}

	tags, err := tagsForRole(role, req.Tags)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if err := s.tags.ReplaceTags(ctx, actorID, role.TagKind(), tags); err != nil {
		return nil, s.fail("ReplaceTags", err)
	}
	return s.profile(ctx, actorID)
}

// GetProfile returns the public profile of any user.
func (s *Service) GetProfile(ctx context.Context, req *pb.GetProfileRequest) (*pb.ProfileResponse, error) {
	s.appCtx.Logger.Debug("GetProfile called", "user", req.GetUserId())

	userID, err := convert.ParseID("user_id", req.GetUserId())
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, userID)
}

func (s *Service) profile(ctx context.Context, userID uint64) (*pb.ProfileResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, s.fail("FindByID", err)
	}
	tags, err := s.tags.GetTags(ctx, userID)
	if err != nil {
		return nil, s.fail("GetTags", err)
	}
	summary, err := s.aggregator.Summarize(ctx, userID)
	if err != nil {
		return nil, s.fail("Summarize", err)
	}

	return &pb.ProfileResponse{Profile: &pb.Profile{
		UserId:   convert.FormatID(user.ID),
		Name:     user.Name,
		Bio:      user.Bio,
		PhotoUrl: user.PhotoURL,
		Role:     string(user.Role),
		Tags:     convert.Tags(tags),
		Rating:   convert.RatingSummary(summary),
	}}, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// fail logs storage failures and maps err to a gRPC status.
func (s *Service) fail(op string, err error) error {
	if svcErr.IsInternal(err) {
		s.appCtx.Logger.Error(op+" failed", "err", err)
	}
	return svcErr.Map(err)
}
