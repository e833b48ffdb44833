// Package ratings defines the RatingService wire contract.
package ratings

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oggyb/tutormatch/internal/proto/common"
	"github.com/oggyb/tutormatch/internal/proto/rpc"
)

const ServiceName = "matchmaking.ratings.v1.RatingService"

const (
	SubmitRatingMethod   = "/" + ServiceName + "/SubmitRating"
	GetMatchRatingMethod = "/" + ServiceName + "/GetMatchRating"
)

type SubmitRatingRequest struct {
	ActorUserId string `json:"actor_user_id"`
	MatchId     string `json:"match_id"`
	Score       int32  `json:"score"`
	Comment     string `json:"comment,omitempty"`
}

func (x *SubmitRatingRequest) GetActorUserId() string {
	if x == nil {
		return ""
	}
	return x.ActorUserId
}

func (x *SubmitRatingRequest) SetActorUserId(id string) { x.ActorUserId = id }

func (x *SubmitRatingRequest) GetMatchId() string {
	if x == nil {
		return ""
	}
	return x.MatchId
}

type Rating struct {
	Score     int32  `json:"score"`
	Comment   string `json:"comment"`
	UpdatedAt uint64 `json:"updated_at"`
}

type SubmitRatingResponse struct {
	Rating *Rating `json:"rating"`
}

type GetMatchRatingRequest struct {
	ActorUserId string `json:"actor_user_id"`
	MatchId     string `json:"match_id"`
}

func (x *GetMatchRatingRequest) GetActorUserId() string {
	if x == nil {
		return ""
	}
	return x.ActorUserId
}

func (x *GetMatchRatingRequest) SetActorUserId(id string) { x.ActorUserId = id }

func (x *GetMatchRatingRequest) GetMatchId() string {
	if x == nil {
		return ""
	}
	return x.MatchId
}

type GetMatchRatingResponse struct {
	MatchId string           `json:"match_id"`
	Other   *common.UserCard `json:"other_user"`
	CanRate bool             `json:"can_rate"`
	// YourRating is what the caller gave; ReceivedRating is what the
	// counterpart gave the caller. Either may be null.
	YourRating     *Rating `json:"your_rating"`
	ReceivedRating *Rating `json:"received_rating"`
}

// RatingServiceServer is the server API for RatingService.
type RatingServiceServer interface {
	SubmitRating(context.Context, *SubmitRatingRequest) (*SubmitRatingResponse, error)
	GetMatchRating(context.Context, *GetMatchRatingRequest) (*GetMatchRatingResponse, error)
	mustEmbedUnimplementedRatingServiceServer()
}

// UnimplementedRatingServiceServer must be embedded by implementations.
type UnimplementedRatingServiceServer struct{}

func (UnimplementedRatingServiceServer) SubmitRating(context.Context, *SubmitRatingRequest) (*SubmitRatingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitRating not implemented")
}
func (UnimplementedRatingServiceServer) GetMatchRating(context.Context, *GetMatchRatingRequest) (*GetMatchRatingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMatchRating not implemented")
}
func (UnimplementedRatingServiceServer) mustEmbedUnimplementedRatingServiceServer() {}

var RatingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RatingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitRating", Handler: rpc.UnaryHandler(SubmitRatingMethod, RatingServiceServer.SubmitRating)},
		{MethodName: "GetMatchRating", Handler: rpc.UnaryHandler(GetMatchRatingMethod, RatingServiceServer.GetMatchRating)},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterRatingServiceServer(s grpc.ServiceRegistrar, srv RatingServiceServer) {
	s.RegisterService(&RatingService_ServiceDesc, srv)
}

// RatingServiceClient is the client API for RatingService.
type RatingServiceClient interface {
	SubmitRating(ctx context.Context, in *SubmitRatingRequest, opts ...grpc.CallOption) (*SubmitRatingResponse, error)
	GetMatchRating(ctx context.Context, in *GetMatchRatingRequest, opts ...grpc.CallOption) (*GetMatchRatingResponse, error)
}

type ratingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRatingServiceClient(cc grpc.ClientConnInterface) RatingServiceClient {
	return &ratingServiceClient{cc: cc}
}

func (c *ratingServiceClient) SubmitRating(ctx context.Context, in *SubmitRatingRequest, opts ...grpc.CallOption) (*SubmitRatingResponse, error) {
	return rpc.Invoke[SubmitRatingResponse](ctx, c.cc, SubmitRatingMethod, in, opts...)
}

func (c *ratingServiceClient) GetMatchRating(ctx context.Context, in *GetMatchRatingRequest, opts ...grpc.CallOption) (*GetMatchRatingResponse, error) {
	return rpc.Invoke[GetMatchRatingResponse](ctx, c.cc, GetMatchRatingMethod, in, opts...)
}
