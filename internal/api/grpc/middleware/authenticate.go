package middleware

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/status"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/model"
)

// Authenticator resolves the principal behind an access token.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (model.Principal, error)
}

// Authenticate validates bearer tokens and injects the principal into context.
type Authenticate struct {
	tokens         Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens Authenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// AuthFunc reads the bearer token from the authorization metadata and
// returns a context carrying the principal.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	token, err := auth.AuthFromMD(ctx, "bearer")
	if err != nil {
		return nil, statusError(apperrors.TokenInvalid(err))
	}

	principal, err := m.tokens.Authenticate(ctx, token)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindInternal {
			m.logger.WithContext(ctx).Error("gRPC authenticate: failed", "error", err)
		}
		return nil, statusError(err)
	}

	return m.contextManager.SetPrincipalToContext(ctx, principal), nil
}

func statusError(err error) error {
	return status.Error(apperrors.GRPCCode(err), apperrors.Resolve(apperrors.FlowSession, err).Message)
}
