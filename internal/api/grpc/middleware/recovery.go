package middleware

import (
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
	"github.com/dtroode/quidalert-auth/internal/logger"
)

// RecoveryOption turns handler panics into Internal status errors.
func RecoveryOption(log *logger.Logger) recovery.Option {
	return recovery.WithRecoveryHandler(func(p any) error {
		log.Error("gRPC handler: panic recovered", "panic", p, "stack", string(debug.Stack()))
		return status.Error(codes.Internal, apperrors.MsgInternal)
	})
}
