package middleware

import (
	"context"
	"net"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/dtroode/quidalert-auth/internal/logger"
)

const (
	requestIDKey       = "x-request-id"
	userAgentKey       = "user-agent"
	maxRequestIDLength = 128
	maxUserAgentLength = 256
)

// Logging is a unary interceptor that logs gRPC requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleGRPC stores request attributes in ctx, echoes the request id in the
// response header and logs method, duration and status.
func (l *Logging) HandleGRPC(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()

	ctx = withRequestInfo(ctx)
	reqInfo, _ := logger.RequestFromContext(ctx)
	_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDKey, reqInfo.ID))

	log := l.logger.WithContext(ctx)
	log.Debug("gRPC request started", "method", info.FullMethod)

	resp, err := handler(ctx, req)

	statusCode := codes.OK
	if err != nil {
		if st, ok := status.FromError(err); ok {
			statusCode = st.Code()
		} else {
			statusCode = codes.Internal
		}
	}

	log.Info("gRPC request completed",
		"method", info.FullMethod,
		"duration_ms", time.Since(start).Milliseconds(),
		"status", statusCode.String())

	if statusCode == codes.Internal || statusCode == codes.Unknown {
		log.Error("gRPC request failed",
			"method", info.FullMethod,
			"error", err.Error(),
			"status", statusCode.String())
	}

	return resp, err
}

func withRequestInfo(ctx context.Context) context.Context {
	var info logger.RequestInfo
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(requestIDKey); len(ids) > 0 && len(ids[0]) <= maxRequestIDLength {
			info.ID = ids[0]
		}
		if uas := md.Get(userAgentKey); len(uas) > 0 {
			info.UserAgent = uas[0]
			if len(info.UserAgent) > maxUserAgentLength {
				info.UserAgent = info.UserAgent[:maxUserAgentLength]
			}
		}
	}
	if info.ID == "" {
		info.ID = uuid.NewString()
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		host, _, err := net.SplitHostPort(p.Addr.String())
		if err != nil {
			host = p.Addr.String()
		}
		info.IP = host
	}
	return logger.ContextWithRequest(ctx, info)
}
