// Package discover defines the DiscoverService wire contract: swipes, the
// discovery feed, the match list and swipe statistics.
package discover

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oggyb/tutormatch/internal/proto/common"
	"github.com/oggyb/tutormatch/internal/proto/rpc"
)

const ServiceName = "matchmaking.discover.v1.DiscoverService"

const (
	SwipeMethod       = "/" + ServiceName + "/Swipe"
	GetFeedMethod     = "/" + ServiceName + "/GetFeed"
	ListMatchesMethod = "/" + ServiceName + "/ListMatches"
	GetStatsMethod    = "/" + ServiceName + "/GetStats"
)

type SwipeRequest struct {
	ActorUserId  string `json:"actor_user_id"`
	TargetUserId string `json:"target_user_id"`
	// Decision is "like" or "skip".
	Decision string `json:"decision"`
}

func (x *SwipeRequest) GetActorUserId() string {
	if x == nil {
		return ""
	}
	return x.ActorUserId
}

func (x *SwipeRequest) SetActorUserId(id string) { x.ActorUserId = id }

func (x *SwipeRequest) GetTargetUserId() string {
	if x == nil {
		return ""
	}
	return x.TargetUserId
}

func (x *SwipeRequest) GetDecision() string {
	if x == nil {
		return ""
	}
	return x.Decision
}

type SwipeResponse struct {
	Created bool `json:"created"`
	IsMatch bool `json:"is_match"`
	// MatchId is set when IsMatch is true.
	MatchId string `json:"match_id,omitempty"`
}

type GetFeedRequest struct {
	ActorUserId string `json:"actor_user_id"`
}

func (x *GetFeedRequest) GetActorUserId() string {
	if x == nil {
		return ""
	}
	return x.ActorUserId
}

func (x *GetFeedRequest) SetActorUserId(id string) { x.ActorUserId = id }

type Candidate struct {
	UserId     string                `json:"user_id"`
	Name       string                `json:"name"`
	PhotoUrl   string                `json:"photo_url,omitempty"`
	Bio        string                `json:"bio,omitempty"`
	Role       string                `json:"role"`
	Tags       []*common.Tag         `json:"tags"`
	MatchScore int32                 `json:"match_score"`
	Rating     *common.RatingSummary `json:"rating_summary"`
}

type GetFeedResponse struct {
	Candidates []*Candidate `json:"candidates"`
}

type ListMatchesRequest struct {
	ActorUserId     string  `json:"actor_user_id"`
	PaginationToken *string `json:"pagination_token,omitempty"`
}

func (x *ListMatchesRequest) GetActorUserId() string {
	if x == nil {
		return ""
	}
	return x.ActorUserId
}

func (x *ListMatchesRequest) SetActorUserId(id string) { x.ActorUserId = id }

func (x *ListMatchesRequest) GetPaginationToken() string {
	if x == nil || x.PaginationToken == nil {
		return ""
	}
	return *x.PaginationToken
}

type MatchSummary struct {
	MatchId   string           `json:"match_id"`
	Other     *common.UserCard `json:"other_user"`
	CreatedAt uint64           `json:"created_at"`
	// LastMessage and LastMessageAt stay null for matches without messages.
	LastMessage   *string `json:"last_message"`
	LastMessageAt *uint64 `json:"last_message_at"`
	UnreadCount   uint64  `json:"unread_count"`
}

type ListMatchesResponse struct {
	Matches             []*MatchSummary `json:"matches"`
	NextPaginationToken *string         `json:"next_pagination_token,omitempty"`
}

func (x *ListMatchesResponse) GetNextPaginationToken() string {
	if x == nil || x.NextPaginationToken == nil {
		return ""
	}
	return *x.NextPaginationToken
}

type GetStatsRequest struct {
	ActorUserId string `json:"actor_user_id"`
}

func (x *GetStatsRequest) GetActorUserId() string {
	if x == nil {
		return ""
	}
	return x.ActorUserId
}

func (x *GetStatsRequest) SetActorUserId(id string) { x.ActorUserId = id }

type GetStatsResponse struct {
	TotalSwipes   uint64 `json:"total_swipes"`
	TotalMatches  uint64 `json:"total_matches"`
	LikesReceived uint64 `json:"likes_received"`
}

// DiscoverServiceServer is the server API for DiscoverService.
type DiscoverServiceServer interface {
	Swipe(context.Context, *SwipeRequest) (*SwipeResponse, error)
	GetFeed(context.Context, *GetFeedRequest) (*GetFeedResponse, error)
	ListMatches(context.Context, *ListMatchesRequest) (*ListMatchesResponse, error)
	GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error)
	mustEmbedUnimplementedDiscoverServiceServer()
}

// UnimplementedDiscoverServiceServer must be embedded by implementations.
type UnimplementedDiscoverServiceServer struct{}

func (UnimplementedDiscoverServiceServer) Swipe(context.Context, *SwipeRequest) (*SwipeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Swipe not implemented")
}
func (UnimplementedDiscoverServiceServer) GetFeed(context.Context, *GetFeedRequest) (*GetFeedResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetFeed not implemented")
}
func (UnimplementedDiscoverServiceServer) ListMatches(context.Context, *ListMatchesRequest) (*ListMatchesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMatches not implemented")
}
func (UnimplementedDiscoverServiceServer) GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStats not implemented")
}
func (UnimplementedDiscoverServiceServer) mustEmbedUnimplementedDiscoverServiceServer() {}

var DiscoverService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DiscoverServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Swipe", Handler: rpc.UnaryHandler(SwipeMethod, DiscoverServiceServer.Swipe)},
		{MethodName: "GetFeed", Handler: rpc.UnaryHandler(GetFeedMethod, DiscoverServiceServer.GetFeed)},
		{MethodName: "ListMatches", Handler: rpc.UnaryHandler(ListMatchesMethod, DiscoverServiceServer.ListMatches)},
		{MethodName: "GetStats", Handler: rpc.UnaryHandler(GetStatsMethod, DiscoverServiceServer.GetStats)},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterDiscoverServiceServer(s grpc.ServiceRegistrar, srv DiscoverServiceServer) {
	s.RegisterService(&DiscoverService_ServiceDesc, srv)
}

// DiscoverServiceClient is the client API for DiscoverService.
type DiscoverServiceClient interface {
	Swipe(ctx context.Context, in *SwipeRequest, opts ...grpc.CallOption) (*SwipeResponse, error)
	GetFeed(ctx context.Context, in *GetFeedRequest, opts ...grpc.CallOption) (*GetFeedResponse, error)
	ListMatches(ctx context.Context, in *ListMatchesRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error)
	GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*GetStatsResponse, error)
}

type discoverServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDiscoverServiceClient(cc grpc.ClientConnInterface) DiscoverServiceClient {
	return &discoverServiceClient{cc: cc}
}

func (c *discoverServiceClient) Swipe(ctx context.Context, in *SwipeRequest, opts ...grpc.CallOption) (*SwipeResponse, error) {
	return rpc.Invoke[SwipeResponse](ctx, c.cc, SwipeMethod, in, opts...)
}

func (c *discoverServiceClient) GetFeed(ctx context.Context, in *GetFeedRequest, opts ...grpc.CallOption) (*GetFeedResponse, error) {
	return rpc.Invoke[GetFeedResponse](ctx, c.cc, GetFeedMethod, in, opts...)
}

func (c *discoverServiceClient) ListMatches(ctx context.Context, in *ListMatchesRequest, opts ...grpc.CallOption) (*ListMatchesResponse, error) {
	return rpc.Invoke[ListMatchesResponse](ctx, c.cc, ListMatchesMethod, in, opts...)
}

func (c *discoverServiceClient) GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*GetStatsResponse, error) {
	return rpc.Invoke[GetStatsResponse](ctx, c.cc, GetStatsMethod, in, opts...)
}
