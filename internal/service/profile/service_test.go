package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oggyb/tutormatch/internal/db"
	"github.com/oggyb/tutormatch/internal/proto/common"
	pb "github.com/oggyb/tutormatch/internal/proto/profile"
	"github.com/oggyb/tutormatch/internal/service/profile"
	"github.com/oggyb/tutormatch/internal/testutil"
)

func ptr(s string) *string { return &s }

// setupService seeds user 1 without a role and teacher 2 with one skill.
func setupService(t *testing.T) *profile.Service {
	t.Helper()
	appCtx, _ := testutil.NewAppContext(t)
	testutil.SeedUsers(t, appCtx.DB,
		testutil.User{Name: "fresh"},
		testutil.User{Role: db.RoleTeacher, Name: "Tom", Tags: []string{"Python"}},
	)
	return profile.NewProfileService(appCtx)
}

func TestCompleteProfileStudent(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	resp, err := svc.CompleteProfile(ctx, &pb.CompleteProfileRequest{
		ActorUserId: "1",
		Role:        " Student ",
		Name:        ptr("  Sam "),
		Bio:         ptr("learning things"),
		Tags: []*common.Tag{
			{Name: "Python"},
			{Name: "  "},
			{Name: "Guitar", Level: "Intermediate", DesiredLevel: "advanced"},
		},
	})
	require.NoError(t, err)

	p := resp.Profile
	assert.Equal(t, "1", p.UserId)
	assert.Equal(t, "student", p.Role)
	assert.Equal(t, "Sam", p.Name)
	assert.Equal(t, "learning things", p.Bio)
	require.Len(t, p.Tags, 2)
	assert.Equal(t, "Python", p.Tags[0].Name)
	assert.Equal(t, "beginner", p.Tags[0].Level)
	assert.Equal(t, "intermediate", p.Tags[1].Level)
	assert.Equal(t, "advanced", p.Tags[1].DesiredLevel)
	require.NotNil(t, p.Rating)
	assert.Nil(t, p.Rating.Average)
	assert.Zero(t, p.Rating.Count)
}

func TestCompleteProfileRoleRules(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.CompleteProfile(ctx, &pb.CompleteProfileRequest{ActorUserId: "1", Role: "admin"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	// same role again is fine and keeps tags when none are sent
	resp, err := svc.CompleteProfile(ctx, &pb.CompleteProfileRequest{ActorUserId: "2", Role: "teacher", Bio: ptr("20 years")})
	require.NoError(t, err)
	assert.Len(t, resp.Profile.Tags, 1)
	assert.Equal(t, "20 years", resp.Profile.Bio)

	_, err = svc.CompleteProfile(ctx, &pb.CompleteProfileRequest{ActorUserId: "2", Role: "student"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = svc.CompleteProfile(ctx, &pb.CompleteProfileRequest{ActorUserId: "9", Role: "student"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestCompleteProfileTagValidation(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	_, err := svc.CompleteProfile(ctx, &pb.CompleteProfileRequest{
		ActorUserId: "1", Role: "teacher", Tags: []*common.Tag{},
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.CompleteProfile(ctx, &pb.CompleteProfileRequest{
		ActorUserId: "1", Role: "student", Tags: []*common.Tag{{Name: "Go", Level: "guru"}},
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.CompleteProfile(ctx, &pb.CompleteProfileRequest{
		ActorUserId: "1", Role: "student", Name: ptr("   "),
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	// nothing was written
	resp, err := svc.GetProfile(ctx, &pb.GetProfileRequest{UserId: "1"})
	require.NoError(t, err)
	assert.Empty(t, resp.Profile.Role)
	assert.Empty(t, resp.Profile.Tags)
}

func TestReplaceTags(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	resp, err := svc.ReplaceTags(ctx, &pb.ReplaceTagsRequest{
		ActorUserId: "2",
		Tags: []*common.Tag{
			{Name: "Go", Level: "expert", DesiredLevel: "ignored", RequiresEvaluation: true},
			{Name: "SQL"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Profile.Tags, 2)
	assert.Equal(t, "Go", resp.Profile.Tags[0].Name)
	assert.Equal(t, "expert", resp.Profile.Tags[0].Level)
	assert.Empty(t, resp.Profile.Tags[0].DesiredLevel)
	assert.True(t, resp.Profile.Tags[0].RequiresEvaluation)

	_, err = svc.ReplaceTags(ctx, &pb.ReplaceTagsRequest{ActorUserId: "2"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.ReplaceTags(ctx, &pb.ReplaceTagsRequest{ActorUserId: "1", Tags: []*common.Tag{{Name: "Go"}}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "role must be set first")
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	svc := setupService(t)

	resp, err := svc.GetProfile(ctx, &pb.GetProfileRequest{UserId: "2"})
	require.NoError(t, err)
	assert.Equal(t, "Tom", resp.Profile.Name)
	assert.Equal(t, "teacher", resp.Profile.Role)
	require.Len(t, resp.Profile.Tags, 1)

	_, err = svc.GetProfile(ctx, &pb.GetProfileRequest{UserId: "0"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.GetProfile(ctx, &pb.GetProfileRequest{UserId: "44"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
