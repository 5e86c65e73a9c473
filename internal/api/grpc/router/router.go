package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/quidalert-auth/internal/api/grpc/handler"
	"github.com/dtroode/quidalert-auth/internal/api/grpc/middleware"
	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/model"
)

// Router builds the gRPC server with its services and interceptors.
type Router struct {
	tokens         middleware.Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
	health         *health.Server
}

// New creates new gRPC Router instance.
func New(
	tokens middleware.Authenticator,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
		health:         health.NewServer(),
	}
}

// authRequired selects the methods that need a bearer token. Health and
// reflection stay open.
func authRequired(_ context.Context, c interceptors.CallMeta) bool {
	return strings.HasPrefix(c.FullMethod(), "/"+handler.IntrospectionServiceName+"/")
}

// Register registers all gRPC services and interceptors and returns the
// configured server.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)
	recoveryOpt := middleware.RecoveryOption(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recoveryOpt),
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recoveryOpt),
			selector.StreamServerInterceptor(
				auth.StreamServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
		),
	)

	handler.RegisterIntrospectionServer(s, handler.NewIntrospection(r.contextManager, r.logger))
	healthpb.RegisterHealthServer(s, r.health)
	reflection.Register(s)

	r.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	r.health.SetServingStatus(handler.IntrospectionServiceName, healthpb.HealthCheckResponse_SERVING)

	return s
}

// Shutdown marks every service as not serving so health checks fail while
// in-flight calls drain.
func (r *Router) Shutdown() {
	r.health.Shutdown()
}
