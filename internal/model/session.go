package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session backs one outstanding refresh token.
type Session struct {
	ID            uuid.UUID
	AccountID     uuid.UUID
	SecretHash    string
	IP            string
	Device        string
	Revoked       bool
	RevokedAt     *time.Time
	LastRotatedAt time.Time
	CreatedAt     time.Time
}

// SessionStore persists refresh sessions.
type SessionStore interface {
	// Create inserts the session, evicting the least recently rotated active
	// sessions of the same account so that at most limit remain.
	Create(ctx context.Context, session Session, limit int) error
	Get(ctx context.Context, id uuid.UUID) (Session, error)
	// Rotate swaps the secret hash only if it still equals prevHash.
	Rotate(ctx context.Context, id uuid.UUID, prevHash, nextHash string, at time.Time) error
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAll(ctx context.Context, accountID uuid.UUID) (int64, error)
}
