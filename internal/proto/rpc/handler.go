package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// UnaryHandler adapts a typed server method into a grpc.MethodDesc handler.
//
// Example:
//
//	rpc.UnaryHandler(SwipeMethod, DiscoverServiceServer.Swipe)
func UnaryHandler[S any, Req any, Resp any](
	fullMethod string,
	call func(S, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		invoke := func(ctx context.Context, req any) (any, error) {
			resp, err := call(srv.(S), ctx, req.(*Req))
			if err != nil {
				return nil, err
			}
			return resp, nil
		}
		if interceptor == nil {
			return invoke(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, invoke)
	}
}

// Invoke performs a unary call using the JSON codec.
func Invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, fullMethod string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
