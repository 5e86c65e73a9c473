package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Security event types published after a committed credential change.
const (
	EventAccountRegistered   = "account.registered"
	EventAccountActivated    = "account.activated"
	EventLoginSucceeded      = "login.succeeded"
	EventPasswordResetDone   = "password_reset.confirmed"
	EventPasswordResetLocked = "password_reset.locked"
	EventSessionRevoked      = "session.revoked"
	EventAllSessionsRevoked  = "session.revoked_all"
)

// SecurityEvent describes a credential change for downstream consumers.
// It never carries plaintext email or secrets.
type SecurityEvent struct {
	Type       string
	AccountID  uuid.UUID
	EmailHash  string
	IP         string
	RequestID  string
	OccurredAt time.Time
}

// EventPublisher forwards security events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, event SecurityEvent) error
}
