package auth

import (
	"context"
	"strconv"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	svcErr "github.com/oggyb/tutormatch/internal/errors"
)

type ctxKey struct{}

// WithUserID stores the authenticated user id in ctx.
func WithUserID(ctx context.Context, userID uint64) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(ctxKey{}).(uint64)
	return id, ok
}

// actorRequest is implemented by every request that acts on behalf of a user.
type actorRequest interface {
	GetActorUserId() string
	SetActorUserId(string)
}

// ResolveActor reconciles the actor id of req with the authenticated identity
// in ctx.
//
// Behavior:
//   - No identity in ctx → req is left as is.
//   - Empty actor id → filled from the identity.
//   - Actor id differing from the identity → PermissionDenied.
func ResolveActor(ctx context.Context, req any) error {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil
	}
	r, ok := req.(actorRequest)
	if !ok {
		return nil
	}
	self := strconv.FormatUint(userID, 10)
	switch r.GetActorUserId() {
	case "":
		r.SetActorUserId(self)
	case self:
	default:
		return svcErr.PermissionDenied("actor_user_id does not match the authenticated user")
	}
	return nil
}

// UnaryServerInterceptor authenticates every call except the health service.
// A missing or invalid bearer token yields Unauthenticated.
func UnaryServerInterceptor(issuer *TokenIssuer) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if strings.HasPrefix(info.FullMethod, "/grpc.health.v1.") {
			return handler(ctx, req)
		}

		token := bearerToken(ctx)
		if token == "" {
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}
		userID, err := issuer.Resolve(token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid bearer token")
		}

		ctx = WithUserID(ctx, userID)
		if err := ResolveActor(ctx, req); err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, v := range md.Get("authorization") {
		if scheme, token, found := strings.Cut(v, " "); found && strings.EqualFold(scheme, "bearer") {
			return strings.TrimSpace(token)
		}
	}
	return ""
}
