package model

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the authenticated caller behind an access token.
type Principal struct {
	AccountID uuid.UUID
	IsAdmin   bool
	Language  Language
}

// ContextManager stores and retrieves the principal in a request context.
type ContextManager interface {
	SetPrincipalToContext(ctx context.Context, principal Principal) context.Context
	GetPrincipalFromContext(ctx context.Context) (Principal, bool)
}
