package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/model"
)

const (
	IntrospectionServiceName = "quidalert.auth.v1.TokenIntrospection"
	IntrospectMethod         = "/" + IntrospectionServiceName + "/Introspect"
)

// IntrospectionServer answers who an access token belongs to.
type IntrospectionServer interface {
	Introspect(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// IntrospectionServiceDesc describes the TokenIntrospection service. The
// messages are well-known types, so no generated code is needed.
var IntrospectionServiceDesc = grpc.ServiceDesc{
	ServiceName: IntrospectionServiceName,
	HandlerType: (*IntrospectionServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Introspect",
			Handler:    introspectHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "quidalert/auth/v1/introspection.proto",
}

func introspectHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IntrospectionServer).Introspect(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: IntrospectMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(IntrospectionServer).Introspect(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterIntrospectionServer registers srv on s.
func RegisterIntrospectionServer(s grpc.ServiceRegistrar, srv IntrospectionServer) {
	s.RegisterService(&IntrospectionServiceDesc, srv)
}

// IntrospectionClient calls TokenIntrospection on a remote server.
type IntrospectionClient struct {
	cc grpc.ClientConnInterface
}

func NewIntrospectionClient(cc grpc.ClientConnInterface) *IntrospectionClient {
	return &IntrospectionClient{cc: cc}
}

func (c *IntrospectionClient) Introspect(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, IntrospectMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Introspection serves the principal placed in context by the
// authentication interceptor.
type Introspection struct {
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewIntrospection(contextManager model.ContextManager, logger *logger.Logger) *Introspection {
	return &Introspection{contextManager: contextManager, logger: logger}
}

func (h *Introspection) Introspect(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	principal, ok := h.contextManager.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, handleError(apperrors.TokenInvalid(nil))
	}

	out, err := structpb.NewStruct(map[string]any{
		"account_id": principal.AccountID.String(),
		"is_admin":   principal.IsAdmin,
		"language":   string(principal.Language),
	})
	if err != nil {
		h.logger.WithContext(ctx).Error("gRPC introspect: failed to build response", "error", err)
		return nil, handleError(apperrors.Internal(err))
	}
	return out, nil
}
