package middleware

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/testutil"
)

func TestLogging_HandleGRPC(t *testing.T) {
	t.Parallel()

	lg := NewLogging(testutil.MakeNoopLogger())

	tests := []struct {
		name     string
		handler  grpc.UnaryHandler
		wantCode codes.Code
	}{
		{
			name: "success path",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				time.Sleep(10 * time.Millisecond)
				return "ok", nil
			},
			wantCode: codes.OK,
		},
		{
			name: "grpc error propagates",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				return nil, status.Error(codes.Unauthenticated, "Token not valid")
			},
			wantCode: codes.Unauthenticated,
		},
		{
			name: "non-grpc error becomes Internal",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				return nil, errors.New("boom")
			},
			wantCode: codes.Internal,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := &grpc.UnaryServerInfo{FullMethod: "/quidalert.auth.v1.TokenIntrospection/Introspect"}
			resp, err := lg.HandleGRPC(context.Background(), struct{}{}, info, tt.handler)

			if tt.wantCode == codes.OK {
				assert.NoError(t, err)
				assert.Equal(t, "ok", resp)
				return
			}

			st, ok := status.FromError(err)
			gotCode := codes.Internal
			if ok {
				gotCode = st.Code()
			}
			assert.Equal(t, tt.wantCode, gotCode)
		})
	}
}

func TestLogging_HandleGRPC_RequestInfo(t *testing.T) {
	t.Parallel()

	lg := NewLogging(testutil.MakeNoopLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		"x-request-id", "req-42",
		"user-agent", strings.Repeat("u", 300),
	))
	ctx = peer.NewContext(ctx, &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("203.0.113.7"), Port: 51000}})

	var got logger.RequestInfo
	_, err := lg.HandleGRPC(ctx, struct{}{}, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		var ok bool
		got, ok = logger.RequestFromContext(ctx)
		require.True(t, ok)
		return nil, nil
	})
	require.NoError(t, err)

	assert.Equal(t, "req-42", got.ID)
	assert.Equal(t, "203.0.113.7", got.IP)
	assert.Len(t, got.UserAgent, 256)
}

func TestLogging_HandleGRPC_GeneratesRequestID(t *testing.T) {
	t.Parallel()

	lg := NewLogging(testutil.MakeNoopLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}

	var got logger.RequestInfo
	_, err := lg.HandleGRPC(context.Background(), struct{}{}, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		got, _ = logger.RequestFromContext(ctx)
		return nil, nil
	})
	require.NoError(t, err)
	assert.Len(t, got.ID, 36)
	assert.Empty(t, got.IP)
}
