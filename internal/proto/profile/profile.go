// Package profile defines the ProfileService wire contract: profile
// completion, tag replacement and public profiles.
package profile

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oggyb/tutormatch/internal/proto/common"
	"github.com/oggyb/tutormatch/internal/proto/rpc"
)

const ServiceName = "matchmaking.profile.v1.ProfileService"

const (
	CompleteProfileMethod = "/" + ServiceName + "/CompleteProfile"
	ReplaceTagsMethod     = "/" + ServiceName + "/ReplaceTags"
	GetProfileMethod      = "/" + ServiceName + "/GetProfile"
)

type CompleteProfileRequest struct {
	ActorUserId string `json:"actor_user_id"`
	Role        string `json:"role"`
	// Optional display fields; null leaves the stored value untouched.
	Name     *string       `json:"name,omitempty"`
	Bio      *string       `json:"bio,omitempty"`
	PhotoUrl *string       `json:"photo_url,omitempty"`
	Tags     []*common.Tag `json:"tags"`
}

func (x *CompleteProfileRequest) GetActorUserId() string {
	if x == nil {
		return ""
	}
	return x.ActorUserId
}

func (x *CompleteProfileRequest) SetActorUserId(id string) { x.ActorUserId = id }

func (x *CompleteProfileRequest) GetRole() string {
	if x == nil {
		return ""
	}
	return x.Role
}

type ReplaceTagsRequest struct {
	ActorUserId string        `json:"actor_user_id"`
	Tags        []*common.Tag `json:"tags"`
}

func (x *ReplaceTagsRequest) GetActorUserId() string {
	if x == nil {
		return ""
	}
	return x.ActorUserId
}

func (x *ReplaceTagsRequest) SetActorUserId(id string) { x.ActorUserId = id }

type GetProfileRequest struct {
	UserId string `json:"user_id"`
}

func (x *GetProfileRequest) GetUserId() string {
	if x == nil {
		return ""
	}
	return x.UserId
}

type Profile struct {
	UserId   string                `json:"user_id"`
	Name     string                `json:"name"`
	Bio      string                `json:"bio,omitempty"`
	PhotoUrl string                `json:"photo_url,omitempty"`
	Role     string                `json:"role"`
	Tags     []*common.Tag         `json:"tags"`
	Rating   *common.RatingSummary `json:"rating_summary"`
}

type ProfileResponse struct {
	Profile *Profile `json:"profile"`
}

// ProfileServiceServer is the server API for ProfileService.
type ProfileServiceServer interface {
	CompleteProfile(context.Context, *CompleteProfileRequest) (*ProfileResponse, error)
	ReplaceTags(context.Context, *ReplaceTagsRequest) (*ProfileResponse, error)
	GetProfile(context.Context, *GetProfileRequest) (*ProfileResponse, error)
	mustEmbedUnimplementedProfileServiceServer()
}

// UnimplementedProfileServiceServer must be embedded by implementations.
type UnimplementedProfileServiceServer struct{}

func (UnimplementedProfileServiceServer) CompleteProfile(context.Context, *CompleteProfileRequest) (*ProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CompleteProfile not implemented")
}
func (UnimplementedProfileServiceServer) ReplaceTags(context.Context, *ReplaceTagsRequest) (*ProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReplaceTags not implemented")
}
func (UnimplementedProfileServiceServer) GetProfile(context.Context, *GetProfileRequest) (*ProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProfile not implemented")
}
func (UnimplementedProfileServiceServer) mustEmbedUnimplementedProfileServiceServer() {}

var ProfileService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProfileServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CompleteProfile", Handler: rpc.UnaryHandler(CompleteProfileMethod, ProfileServiceServer.CompleteProfile)},
		{MethodName: "ReplaceTags", Handler: rpc.UnaryHandler(ReplaceTagsMethod, ProfileServiceServer.ReplaceTags)},
		{MethodName: "GetProfile", Handler: rpc.UnaryHandler(GetProfileMethod, ProfileServiceServer.GetProfile)},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterProfileServiceServer(s grpc.ServiceRegistrar, srv ProfileServiceServer) {
	s.RegisterService(&ProfileService_ServiceDesc, srv)
}

// ProfileServiceClient is the client API for ProfileService.
type ProfileServiceClient interface {
	CompleteProfile(ctx context.Context, in *CompleteProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	ReplaceTags(ctx context.Context, in *ReplaceTagsRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
	GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error)
}

type profileServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewProfileServiceClient(cc grpc.ClientConnInterface) ProfileServiceClient {
	return &profileServiceClient{cc: cc}
}

func (c *profileServiceClient) CompleteProfile(ctx context.Context, in *CompleteProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return rpc.Invoke[ProfileResponse](ctx, c.cc, CompleteProfileMethod, in, opts...)
}

func (c *profileServiceClient) ReplaceTags(ctx context.Context, in *ReplaceTagsRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return rpc.Invoke[ProfileResponse](ctx, c.cc, ReplaceTagsMethod, in, opts...)
}

func (c *profileServiceClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return rpc.Invoke[ProfileResponse](ctx, c.cc, GetProfileMethod, in, opts...)
}
