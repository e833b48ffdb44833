package server_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/oggyb/tutormatch/internal/app"
	"github.com/oggyb/tutormatch/internal/auth"
	"github.com/oggyb/tutormatch/internal/db"
	"github.com/oggyb/tutormatch/internal/proto/common"
	discoverpb "github.com/oggyb/tutormatch/internal/proto/discover"
	profilepb "github.com/oggyb/tutormatch/internal/proto/profile"
	ratingspb "github.com/oggyb/tutormatch/internal/proto/ratings"
	"github.com/oggyb/tutormatch/internal/server"
	"github.com/oggyb/tutormatch/internal/service/discover"
	"github.com/oggyb/tutormatch/internal/service/profile"
	"github.com/oggyb/tutormatch/internal/service/ratings"
	"github.com/oggyb/tutormatch/internal/testutil"
)

// startServer serves every registrar over an in-memory listener and returns
// a client connection to it.
func startServer(t *testing.T, appCtx *app.AppContext) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	srv := server.NewGRPCServer(appCtx.Config,
		discover.NewRegistrar(appCtx),
		ratings.NewRegistrar(appCtx),
		profile.NewRegistrar(appCtx),
	)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// TestEndToEndMatchAndRate walks a student and a teacher from profile
// completion through a mutual like to rating each other.
func TestEndToEndMatchAndRate(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	appCtx, _ := testutil.NewAppContext(t)
	testutil.SeedUsers(t, appCtx.DB, testutil.User{Name: "Tom"}, testutil.User{Name: "Sam"})
	conn := startServer(t, appCtx)

	profiles := profilepb.NewProfileServiceClient(conn)
	discovery := discoverpb.NewDiscoverServiceClient(conn)
	rates := ratingspb.NewRatingServiceClient(conn)

	_, err := profiles.CompleteProfile(ctx, &profilepb.CompleteProfileRequest{
		ActorUserId: "1", Role: "teacher", Tags: []*common.Tag{{Name: "Python", Level: "advanced"}},
	})
	require.NoError(t, err)
	_, err = profiles.CompleteProfile(ctx, &profilepb.CompleteProfileRequest{
		ActorUserId: "2", Role: "student", Tags: []*common.Tag{{Name: "python"}, {Name: "Guitar"}},
	})
	require.NoError(t, err)

	feed, err := discovery.GetFeed(ctx, &discoverpb.GetFeedRequest{ActorUserId: "2"})
	require.NoError(t, err)
	require.Len(t, feed.Candidates, 1)
	assert.Equal(t, "1", feed.Candidates[0].UserId)
	assert.Equal(t, int32(1), feed.Candidates[0].MatchScore)
	assert.Equal(t, "advanced", feed.Candidates[0].Tags[0].Level)

	res, err := discovery.Swipe(ctx, &discoverpb.SwipeRequest{ActorUserId: "2", TargetUserId: "1", Decision: "like"})
	require.NoError(t, err)
	assert.False(t, res.IsMatch)

	_, err = discovery.Swipe(ctx, &discoverpb.SwipeRequest{ActorUserId: "2", TargetUserId: "1", Decision: "like"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	res, err = discovery.Swipe(ctx, &discoverpb.SwipeRequest{ActorUserId: "1", TargetUserId: "2", Decision: "like"})
	require.NoError(t, err)
	require.True(t, res.IsMatch)

	matches, err := discovery.ListMatches(ctx, &discoverpb.ListMatchesRequest{ActorUserId: "2"})
	require.NoError(t, err)
	require.Len(t, matches.Matches, 1)
	assert.Equal(t, res.MatchId, matches.Matches[0].MatchId)
	assert.Equal(t, "Tom", matches.Matches[0].Other.Name)
	assert.Nil(t, matches.Matches[0].LastMessage)

	_, err = rates.SubmitRating(ctx, &ratingspb.SubmitRatingRequest{ActorUserId: "2", MatchId: res.MatchId, Score: 5, Comment: "clear explanations"})
	require.NoError(t, err)

	view, err := rates.GetMatchRating(ctx, &ratingspb.GetMatchRatingRequest{ActorUserId: "1", MatchId: res.MatchId})
	require.NoError(t, err)
	assert.Nil(t, view.YourRating)
	require.NotNil(t, view.ReceivedRating)
	assert.Equal(t, "clear explanations", view.ReceivedRating.Comment)

	tom, err := profiles.GetProfile(ctx, &profilepb.GetProfileRequest{UserId: "1"})
	require.NoError(t, err)
	require.NotNil(t, tom.Profile.Rating.Average)
	assert.Equal(t, 5.0, *tom.Profile.Rating.Average)
	assert.Equal(t, int64(1), tom.Profile.Rating.Count)

	stats, err := discovery.GetStats(ctx, &discoverpb.GetStatsRequest{ActorUserId: "1"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.TotalMatches)
	assert.Equal(t, uint64(1), stats.LikesReceived)
}

func TestAuthenticatedServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	appCtx, _ := testutil.NewAppContext(t)
	appCtx.Config.Auth.Secret = "test-secret"
	testutil.SeedUsers(t, appCtx.DB,
		testutil.User{Role: db.RoleTeacher},
		testutil.User{Role: db.RoleStudent},
	)
	conn := startServer(t, appCtx)
	discovery := discoverpb.NewDiscoverServiceClient(conn)

	_, err := discovery.GetStats(ctx, &discoverpb.GetStatsRequest{ActorUserId: "2"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	token, err := auth.NewTokenIssuer("test-secret", time.Hour).Issue(2)
	require.NoError(t, err)
	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)

	// actor filled in from the token
	res, err := discovery.Swipe(authed, &discoverpb.SwipeRequest{TargetUserId: "1", Decision: "skip"})
	require.NoError(t, err)
	assert.True(t, res.Created)

	_, err = discovery.GetStats(authed, &discoverpb.GetStatsRequest{ActorUserId: "1"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	stats, err := discovery.GetStats(authed, &discoverpb.GetStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.TotalSwipes)

	// health stays open, over the protobuf codec and over json
	healthClient := healthpb.NewHealthClient(conn)
	health, err := healthClient.Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.Status)

	health, err = healthClient.Check(ctx, &healthpb.HealthCheckRequest{}, grpc.CallContentSubtype("json"))
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.Status)
}
