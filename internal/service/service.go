package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/model"
)

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
	CompareDummy(password string)
}

// KeyedHasher produces peppered digests for emails, codes and session secrets.
type KeyedHasher interface {
	EmailHash(email string) string
	CodeHash(code string) string
	VerifyCode(code, stored string) bool
	SecretHash(secret string) string
	VerifySecret(secret, stored string) bool
}

// Client describes where a request came from.
type Client struct {
	IP        string
	Device    string
	RequestID string
}

// ClientFromContext reads the request attributes set by the transport.
func ClientFromContext(ctx context.Context) Client {
	info, _ := logger.RequestFromContext(ctx)
	return Client{IP: info.IP, Device: info.UserAgent, RequestID: info.ID}
}

// notifier hands mail and security events to the dispatcher. Callers use it
// only after the unit of work has committed.
type notifier struct {
	mailer     model.Mailer
	events     model.EventPublisher
	dispatcher model.Dispatcher
}

func (n notifier) mail(m model.Mail) {
	if n.mailer == nil || n.dispatcher == nil {
		return
	}
	n.dispatcher.Dispatch("mail", func(ctx context.Context) error {
		return n.mailer.Send(ctx, m)
	})
}

func (n notifier) publish(eventType string, accountID uuid.UUID, emailHash string, client Client, at time.Time) {
	if n.events == nil || n.dispatcher == nil {
		return
	}
	event := model.SecurityEvent{
		Type:       eventType,
		AccountID:  accountID,
		EmailHash:  emailHash,
		IP:         client.IP,
		RequestID:  client.RequestID,
		OccurredAt: at,
	}
	n.dispatcher.Dispatch("event", func(ctx context.Context) error {
		return n.events.Publish(ctx, event)
	})
}

// txError keeps classified errors and marks everything else internal.
func txError(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Internal(err)
}

func tokenError(err error) error {
	if errors.Is(err, model.ErrTokenExpired) {
		return apperrors.TokenExpired(err)
	}
	return apperrors.TokenInvalid(err)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
