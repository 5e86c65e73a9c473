package context

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"

	"github.com/dtroode/quidalert-auth/internal/model"
)

// Metadata keys holding the authenticated principal.
const (
	accountIDKey string = "x-account-id"
	isAdminKey   string = "x-account-admin"
	languageKey  string = "x-account-language"
)

var _ model.ContextManager = (*Manager)(nil)

// Manager keeps the principal in incoming gRPC metadata.
type Manager struct{}

// NewManager creates a new gRPC context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetPrincipalToContext writes principal into the incoming metadata of ctx,
// replacing any values the client sent under the same keys.
func (m *Manager) SetPrincipalToContext(ctx context.Context, principal model.Principal) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		md = metadata.MD{}
	} else {
		md = md.Copy()
	}
	md.Set(accountIDKey, principal.AccountID.String())
	md.Set(isAdminKey, strconv.FormatBool(principal.IsAdmin))
	md.Set(languageKey, string(principal.Language))

	return metadata.NewIncomingContext(ctx, md)
}

// GetPrincipalFromContext reads the principal stored by SetPrincipalToContext.
func (m *Manager) GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return model.Principal{}, false
	}

	accountID, err := uuid.Parse(first(md, accountIDKey))
	if err != nil || accountID == uuid.Nil {
		return model.Principal{}, false
	}
	isAdmin, _ := strconv.ParseBool(first(md, isAdminKey))

	return model.Principal{
		AccountID: accountID,
		IsAdmin:   isAdmin,
		Language:  model.ParseLanguage(first(md, languageKey)),
	}, true
}

func first(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
