package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Language is a supported interface and mail language.
type Language string

const (
	LanguageEN Language = "en"
	LanguageIT Language = "it"
)

// ParseLanguage returns a supported language, falling back to English.
func ParseLanguage(s string) Language {
	if Language(s) == LanguageIT {
		return LanguageIT
	}
	return LanguageEN
}

// AccountType is the operator category an account belongs to.
type AccountType string

const (
	AccountTypeFireman       AccountType = "fireman"
	AccountTypeWaterOperator AccountType = "wateroperator"
	AccountTypeUSAR          AccountType = "usar"
	AccountTypeAlpineRescuer AccountType = "alpinerescuer"
	AccountTypeMedic         AccountType = "medic"
	AccountTypeMilitary      AccountType = "military"
	AccountTypePoliceman     AccountType = "policeman"
	AccountTypeVolunteer     AccountType = "volunteer"
	AccountTypeCitizen       AccountType = "citizen"
)

// AccountStatus is the reliability status assigned by administrators.
type AccountStatus string

const (
	AccountStatusOK         AccountStatus = "ok"
	AccountStatusUnreliable AccountStatus = "unreliable"
	AccountStatusBlocked    AccountStatus = "blocked"
)

// CodeState tracks a one-time code flow (password reset or login 2FA).
type CodeState struct {
	Hash        *string
	ExpiresAt   *time.Time
	Attempts    int
	LockedUntil *time.Time
	SentAt      *time.Time
}

// Live reports whether an unexpired code is stored.
func (s CodeState) Live(now time.Time) bool {
	return s.Hash != nil && s.ExpiresAt != nil && now.Before(*s.ExpiresAt)
}

// Locked reports whether the flow is inside its lockout window.
func (s CodeState) Locked(now time.Time) bool {
	return s.LockedUntil != nil && now.Before(*s.LockedUntil)
}

// Clear drops the stored code and its attempt counter.
func (s *CodeState) Clear() {
	s.Hash = nil
	s.ExpiresAt = nil
	s.Attempts = 0
}

// Account is an identity record with its credential lifecycle state.
type Account struct {
	ID           uuid.UUID
	Email        string
	EmailHash    string
	PasswordHash string

	FirstName  string
	Surname    string
	Language   Language
	Type       AccountType
	Status     AccountStatus
	IsAdmin    bool
	IsOfficial bool

	IsActive            bool
	ActivationHash      *string
	ActivationExpiresAt *time.Time

	Reset           CodeState
	ResetDoneAt     *time.Time
	ResetNotifiedAt *time.Time

	Login       CodeState
	LastLoginAt *time.Time

	// CredentialsEpoch invalidates every token issued before it.
	CredentialsEpoch time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanSignIn reports whether the account may obtain or use sessions.
func (a Account) CanSignIn() bool {
	return a.IsActive && a.Status != AccountStatusBlocked
}

// AccountStore defines persistence operations for accounts.
type AccountStore interface {
	Create(ctx context.Context, account Account) error
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	// GetByEmailForUpdate loads the account and locks it until the unit of work ends.
	GetByEmailForUpdate(ctx context.Context, email string) (Account, error)
	Update(ctx context.Context, account Account) error
	Delete(ctx context.Context, id uuid.UUID) error
	Any(ctx context.Context) (bool, error)
}
