package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/metrics"
	"github.com/dtroode/quidalert-auth/internal/model"
	"github.com/dtroode/quidalert-auth/internal/otp"
)

const maxDeviceLength = 256

var (
	errSessionMismatch  = errors.New("refresh token does not match session")
	errStaleCredentials = errors.New("token issued before credentials change")
	errAccountDisabled  = errors.New("account cannot sign in")
)

// TokenConfig holds token lifetimes and the per-account session cap.
type TokenConfig struct {
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	LoginTTL     time.Duration
	SessionLimit int
}

// TokenDeps are the collaborators of TokenService.
type TokenDeps struct {
	Tx         model.Transactor
	Manager    model.TokenManager
	Keys       KeyedHasher
	Events     model.EventPublisher
	Dispatcher model.Dispatcher
	Logger     *logger.Logger
	Now        func() time.Time
}

// TokenService issues, rotates and revokes refresh sessions and
// authenticates access tokens.
type TokenService struct {
	cfg     TokenConfig
	tx      model.Transactor
	manager model.TokenManager
	keys    KeyedHasher
	notify  notifier
	logger  *logger.Logger
	now     func() time.Time
}

func NewTokenService(cfg TokenConfig, deps TokenDeps) *TokenService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		cfg:     cfg,
		tx:      deps.Tx,
		manager: deps.Manager,
		keys:    deps.Keys,
		notify:  notifier{events: deps.Events, dispatcher: deps.Dispatcher},
		logger:  deps.Logger,
		now:     now,
	}
}

// issue creates a session inside the caller's unit of work and mints its
// token pair.
func (s *TokenService) issue(ctx context.Context, store model.Store, accountID uuid.UUID, client Client, now time.Time) (model.TokenPair, error) {
	secret, err := otp.NewSecret()
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to generate session secret: %w", err)
	}

	session := model.Session{
		ID:            uuid.New(),
		AccountID:     accountID,
		SecretHash:    s.keys.SecretHash(secret),
		IP:            truncate(client.IP, 64),
		Device:        truncate(client.Device, maxDeviceLength),
		LastRotatedAt: now,
		CreatedAt:     now,
	}
	if err := store.Sessions().Create(ctx, session, s.cfg.SessionLimit); err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to create session: %w", err)
	}

	return s.mintPair(accountID, session.ID, secret)
}

func (s *TokenService) mintPair(accountID, sessionID uuid.UUID, secret string) (model.TokenPair, error) {
	access, err := s.manager.Mint(model.TokenAccess, accountID, model.TokenExtra{}, s.cfg.AccessTTL)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to mint access token: %w", err)
	}

	refresh, err := s.manager.Mint(model.TokenRefresh, accountID, model.TokenExtra{SessionID: sessionID, Secret: secret}, s.cfg.RefreshTTL)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to mint refresh token: %w", err)
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// mintLoginToken returns a short-lived token that skips 2FA on the next login.
func (s *TokenService) mintLoginToken(accountID uuid.UUID) (string, error) {
	tok, err := s.manager.Mint(model.TokenLogin, accountID, model.TokenExtra{}, s.cfg.LoginTTL)
	if err != nil {
		return "", fmt.Errorf("failed to mint login token: %w", err)
	}
	return tok, nil
}

// loginTokenValid reports whether tok is an unexpired login token for acct
// minted after its last credentials change.
func (s *TokenService) loginTokenValid(tok string, acct model.Account) bool {
	claims, err := s.manager.Parse(tok, model.TokenLogin)
	if err != nil {
		return false
	}
	return claims.Subject == acct.ID && !claims.IssuedBefore(acct.CredentialsEpoch)
}

// Refresh rotates the session behind refreshToken and returns a new pair.
// Of two concurrent calls with the same token exactly one succeeds.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string, client Client) (model.TokenPair, error) {
	log := s.logger.WithContext(ctx)

	claims, err := s.manager.Parse(refreshToken, model.TokenRefresh)
	if err != nil {
		metrics.Outcome("refresh", "rejected")
		return model.TokenPair{}, tokenError(err)
	}

	now := s.now()
	var pair model.TokenPair
	err = s.tx.WithinTx(ctx, func(ctx context.Context, store model.Store) error {
		session, err := store.Sessions().Get(ctx, claims.SessionID)
		if errors.Is(err, model.ErrNotFound) {
			return apperrors.TokenInvalid(err)
		}
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		if session.Revoked || session.AccountID != claims.Subject || !s.keys.VerifySecret(claims.Secret, session.SecretHash) {
			return apperrors.TokenInvalid(errSessionMismatch)
		}

		acct, err := store.Accounts().GetByID(ctx, claims.Subject)
		if errors.Is(err, model.ErrNotFound) {
			return apperrors.TokenInvalid(err)
		}
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		if !acct.CanSignIn() {
			return apperrors.TokenInvalid(errAccountDisabled)
		}
		if claims.IssuedBefore(acct.CredentialsEpoch) {
			return apperrors.TokenInvalid(errStaleCredentials)
		}

		secret, err := otp.NewSecret()
		if err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		err = store.Sessions().Rotate(ctx, session.ID, session.SecretHash, s.keys.SecretHash(secret), now)
		if errors.Is(err, model.ErrSessionConflict) {
			return apperrors.TokenInvalid(err)
		}
		if err != nil {
			return fmt.Errorf("failed to rotate session: %w", err)
		}

		pair, err = s.mintPair(acct.ID, session.ID, secret)
		return err
	})
	if err != nil {
		err = txError(err)
		if apperrors.Is(err, apperrors.KindInternal) {
			log.Error("Token service: failed to refresh session", "error", err.Error())
		} else {
			log.Info("Token service: refresh rejected",
				"session_id", claims.SessionID,
				"reason", err.Error())
		}
		metrics.Outcome("refresh", "rejected")
		return model.TokenPair{}, err
	}

	metrics.Outcome("refresh", "success")
	log.Debug("Token service: session rotated", "session_id", claims.SessionID)
	return pair, nil
}

// Revoke marks the session behind refreshToken revoked. Expired tokens are
// accepted as long as the signature is valid. Revoking twice is not an error.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string, client Client) error {
	claims, err := s.manager.ParseIgnoringExpiry(refreshToken, model.TokenRefresh)
	if err != nil {
		return apperrors.TokenInvalid(err)
	}

	var revoked bool
	err = s.tx.WithinTx(ctx, func(ctx context.Context, store model.Store) error {
		session, err := store.Sessions().Get(ctx, claims.SessionID)
		if errors.Is(err, model.ErrNotFound) {
			return apperrors.TokenInvalid(err)
		}
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		if session.AccountID != claims.Subject {
			return apperrors.TokenInvalid(errSessionMismatch)
		}
		if session.Revoked {
			return nil
		}
		if !s.keys.VerifySecret(claims.Secret, session.SecretHash) {
			return apperrors.TokenInvalid(errSessionMismatch)
		}
		if err := store.Sessions().Revoke(ctx, session.ID); err != nil {
			return fmt.Errorf("failed to revoke session: %w", err)
		}
		revoked = true
		return nil
	})
	if err != nil {
		return txError(err)
	}

	if revoked {
		s.logger.WithContext(ctx).Info("Token service: session revoked", "session_id", claims.SessionID)
		s.notify.publish(model.EventSessionRevoked, claims.Subject, "", client, s.now())
	}
	return nil
}

// RevokeAll revokes every active session of the account.
func (s *TokenService) RevokeAll(ctx context.Context, accountID uuid.UUID, client Client) (int64, error) {
	var n int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context, store model.Store) error {
		var err error
		n, err = store.Sessions().RevokeAll(ctx, accountID)
		return err
	})
	if err != nil {
		return 0, apperrors.Internal(err)
	}

	s.logger.WithContext(ctx).Info("Token service: all sessions revoked",
		"account_id", accountID,
		"count", n)
	s.notify.publish(model.EventAllSessionsRevoked, accountID, "", client, s.now())
	return n, nil
}

// Authenticate resolves an access token to its principal.
func (s *TokenService) Authenticate(ctx context.Context, accessToken string) (model.Principal, error) {
	claims, err := s.manager.Parse(accessToken, model.TokenAccess)
	if err != nil {
		return model.Principal{}, tokenError(err)
	}

	var acct model.Account
	err = s.tx.WithinTx(ctx, func(ctx context.Context, store model.Store) error {
		var err error
		acct, err = store.Accounts().GetByID(ctx, claims.Subject)
		if errors.Is(err, model.ErrNotFound) {
			return apperrors.TokenInvalid(err)
		}
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Principal{}, txError(err)
	}

	if claims.IssuedBefore(acct.CredentialsEpoch) {
		return model.Principal{}, apperrors.TokenInvalid(errStaleCredentials)
	}
	if acct.Status == model.AccountStatusBlocked {
		return model.Principal{}, apperrors.Locked(errAccountDisabled)
	}
	if !acct.IsActive {
		return model.Principal{}, apperrors.TokenInvalid(errAccountDisabled)
	}

	return model.Principal{
		AccountID: acct.ID,
		IsAdmin:   acct.IsAdmin,
		Language:  acct.Language,
	}, nil
}
