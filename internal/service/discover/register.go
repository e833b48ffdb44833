package discover

import (
	"google.golang.org/grpc"

	"github.com/oggyb/tutormatch/internal/app"
	pb "github.com/oggyb/tutormatch/internal/proto/discover"
)

// Registrar ties the Discover service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Discover service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Discover service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	service := NewDiscoverService(r.appCtx)
	pb.RegisterDiscoverServiceServer(s, service)
}
