package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/model"
)

// Profile is the public view of an account.
type Profile struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstname"`
	Surname     string     `json:"surname"`
	Language    string     `json:"language"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	IsAdmin     bool       `json:"is_admin"`
	IsOfficial  bool       `json:"is_official"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func newProfile(a model.Account) Profile {
	return Profile{
		ID:          a.ID,
		Email:       a.Email,
		FirstName:   a.FirstName,
		Surname:     a.Surname,
		Language:    string(a.Language),
		Type:        string(a.Type),
		Status:      string(a.Status),
		IsAdmin:     a.IsAdmin,
		IsOfficial:  a.IsOfficial,
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}

// Users serves profile lookups for authenticated principals.
type Users struct {
	tx     model.Transactor
	logger *logger.Logger
}

func NewUsers(tx model.Transactor, logger *logger.Logger) *Users {
	return &Users{tx: tx, logger: logger}
}

// Me returns the caller's own profile.
func (u *Users) Me(ctx context.Context, principal model.Principal) (Profile, error) {
	acct, err := u.load(ctx, principal.AccountID)
	if err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return Profile{}, apperrors.TokenInvalid(err)
		}
		return Profile{}, err
	}
	return newProfile(acct), nil
}

// Get returns any profile. Only administrators may call it.
func (u *Users) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (Profile, error) {
	if !principal.IsAdmin {
		u.logger.WithContext(ctx).Warn("Users service: non-admin profile lookup",
			"account_id", principal.AccountID)
		return Profile{}, apperrors.PermissionDenied()
	}

	acct, err := u.load(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	return newProfile(acct), nil
}

func (u *Users) load(ctx context.Context, id uuid.UUID) (model.Account, error) {
	var acct model.Account
	err := u.tx.WithinTx(ctx, func(ctx context.Context, store model.Store) error {
		var err error
		acct, err = store.Accounts().GetByID(ctx, id)
		if errors.Is(err, model.ErrNotFound) {
			return apperrors.NotFound(err)
		}
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		return nil
	})
	if err != nil {
		err = txError(err)
		if apperrors.Is(err, apperrors.KindInternal) {
			u.logger.WithContext(ctx).Error("Users service: failed to load account", "error", err.Error())
		}
		return model.Account{}, err
	}
	return acct, nil
}
