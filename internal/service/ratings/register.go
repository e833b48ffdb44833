package ratings

import (
	"google.golang.org/grpc"

	"github.com/oggyb/tutormatch/internal/app"
	pb "github.com/oggyb/tutormatch/internal/proto/ratings"
)

// Registrar ties the Rating service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Rating service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Rating service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	pb.RegisterRatingServiceServer(s, NewRatingService(r.appCtx))
}
