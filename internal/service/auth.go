package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
	"github.com/dtroode/quidalert-auth/internal/logger"
	"github.com/dtroode/quidalert-auth/internal/mail"
	"github.com/dtroode/quidalert-auth/internal/metrics"
	"github.com/dtroode/quidalert-auth/internal/model"
	"github.com/dtroode/quidalert-auth/internal/otp"
	"github.com/dtroode/quidalert-auth/internal/security"
	"github.com/dtroode/quidalert-auth/internal/validator"
)

var errAccountNotActive = errors.New("account not active")

// AuthConfig holds registration and recovery settings.
type AuthConfig struct {
	ActivationTTL time.Duration
	// NoticeCooldown spaces out "password changed" notices.
	NoticeCooldown time.Duration
	AdminPass      string
}

// AuthDeps are the collaborators of Auth.
type AuthDeps struct {
	Tx         model.Transactor
	Tokens     *TokenService
	Passwords  PasswordHasher
	Keys       KeyedHasher
	ResetCodes *otp.Manager
	LoginCodes *otp.Manager
	Composer   *mail.Composer
	Mailer     model.Mailer
	Events     model.EventPublisher
	Dispatcher model.Dispatcher
	Policy     *Policy
	Logger     *logger.Logger
	Now        func() time.Time
}

// Auth drives registration, activation, login and password recovery.
type Auth struct {
	cfg        AuthConfig
	tx         model.Transactor
	tokens     *TokenService
	passwords  PasswordHasher
	keys       KeyedHasher
	resetCodes *otp.Manager
	loginCodes *otp.Manager
	composer   *mail.Composer
	notify     notifier
	policy     *Policy
	logger     *logger.Logger
	now        func() time.Time
}

func NewAuth(cfg AuthConfig, deps AuthDeps) *Auth {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Auth{
		cfg:        cfg,
		tx:         deps.Tx,
		tokens:     deps.Tokens,
		passwords:  deps.Passwords,
		keys:       deps.Keys,
		resetCodes: deps.ResetCodes,
		loginCodes: deps.LoginCodes,
		composer:   deps.Composer,
		notify:     notifier{mailer: deps.Mailer, events: deps.Events, dispatcher: deps.Dispatcher},
		policy:     deps.Policy,
		logger:     deps.Logger,
		now:        now,
	}
}

// RegisterInput is a registration request.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=128"`
	Password  string `json:"password" validate:"required,password"`
	FirstName string `json:"firstname" validate:"required,min=2,max=64"`
	Surname   string `json:"surname" validate:"required,min=2,max=64"`
	Language  string `json:"language" validate:"omitempty,oneof=en it"`
	Type      string `json:"type" validate:"omitempty,oneof=fireman wateroperator usar alpinerescuer medic military policeman volunteer citizen"`
}

// Register creates a pending account and mails its activation link.
// Duplicate registrations are acknowledged without side effects unless the
// previous one is still pending with an expired link, in which case it is
// replaced.
func (a *Auth) Register(ctx context.Context, in RegisterInput, client Client) error {
	log := a.logger.WithContext(ctx)

	in.Email = security.NormalizeEmail(in.Email)
	if err := validator.Validate(in); err != nil {
		return apperrors.InvalidInputFrom(err)
	}

	email := in.Email
	emailHash := a.keys.EmailHash(email)

	passwordHash, err := a.passwords.Hash(in.Password)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}
	secret, err := otp.NewSecret()
	if err != nil {
		return apperrors.Internal(err)
	}

	now := a.now()
	var created *model.Account
	err = a.tx.WithinTx(ctx, func(ctx context.Context, store model.Store) error {
		existing, err := store.Accounts().GetByEmailForUpdate(ctx, email)
		switch {
		case err == nil:
			if existing.IsActive || !activationExpired(existing, now) {
				return nil
			}
			if err := store.Accounts().Delete(ctx, existing.ID); err != nil {
				return fmt.Errorf("failed to delete stale registration: %w", err)
			}
			log.Info("delete_user_to_refresh_registration", "email_hash", emailHash)
		case errors.Is(err, model.ErrNotFound):
		default:
			return fmt.Errorf("failed to get account by email: %w", err)
		}

		anyAccount, err := store.Accounts().Any(ctx)
		if err != nil {
			return err
		}

		activationHash := a.keys.CodeHash(secret)
		expires := now.Add(a.cfg.ActivationTTL)
		acct := model.Account{
			ID:                  uuid.New(),
			Email:               email,
			EmailHash:           emailHash,
			PasswordHash:        passwordHash,
			FirstName:           strings.TrimSpace(in.FirstName),
			Surname:             strings.TrimSpace(in.Surname),
			Language:            model.ParseLanguage(in.Language),
			Type:                accountType(in.Type),
			Status:              model.AccountStatusOK,
			IsAdmin:             !anyAccount && a.cfg.AdminPass != "" && security.Equal(in.Password, a.cfg.AdminPass),
			ActivationHash:      &activationHash,
			ActivationExpiresAt: &expires,
			CredentialsEpoch:    now.Truncate(time.Second),
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := store.Accounts().Create(ctx, acct); err != nil {
			if errors.Is(err, model.ErrAlreadyExists) {
				return nil
			}
			return err
		}
		created = &acct
		return nil
	})
	if err != nil {
		log.Error("Auth service: failed to register account",
			"email_hash", emailHash,
			"error", err.Error())
		return apperrors.Internal(err)
	}

	if created == nil {
		metrics.Outcome("register", "duplicate")
		log.Info("Auth service: duplicate registration acknowledged", "email_hash", emailHash)
		return nil
	}

	metrics.Outcome("register", "created")
	log.Info("Auth service: account registered",
		"email_hash", emailHash,
		"is_admin", created.IsAdmin)

	a.notify.mail(a.composer.Activation(created.Language, created.Email, secret))
	a.notify.publish(model.EventAccountRegistered, created.ID, emailHash, client, now)
	return nil
}

func activationExpired(acct model.Account, now time.Time) bool {
	return acct.ActivationExpiresAt == nil || !now.Before(*acct.ActivationExpiresAt)
}

func accountType(s string) model.AccountType {
	if s == "" {
		return model.AccountTypeCitizen
	}
	return model.AccountType(s)
}

// ActivationResult is the outcome shown on the activation page.
type ActivationResult int

const (
	ActivationNotValid ActivationResult = iota
	ActivationDone
	ActivationAlreadyActive
	ActivationExpired
)

// Activation is what the activation page renders.
type Activation struct {
	Result   ActivationResult
	Language model.Language
}

// Activate consumes an activation link. Unknown emails and wrong tokens
// render the same result in the default language.
func (a *Auth) Activate(ctx context.Context, email, token string, client Client) (Activation, error) {
	log := a.logger.WithContext(ctx)
	email = security.NormalizeEmail(email)
	notValid := Activation{Result: ActivationNotValid, Language: model.LanguageEN}

	if email == "" || token == "" {
		return notValid, nil
	}

	now := a.now()
	var (
		result Activation
		acct   model.Account
	)
	err := a.tx.WithinTx(ctx, func(ctx context.Context, store model.Store) error {
		var err error
		acct, err = store.Accounts().GetByEmailForUpdate(ctx, email)
		if errors.Is(err, model.ErrNotFound) {
			result = notValid
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get account by email: %w", err)
		}

		switch {
		case acct.ActivationHash == nil || !a.keys.VerifyCode(token, *acct.ActivationHash):
			result = notValid
		case acct.IsActive:
			result = Activation{Result: ActivationAlreadyActive, Language: acct.Language}
		case activationExpired(acct, now):
			result = Activation{Result: ActivationExpired, Language: acct.Language}
		default:
			acct.IsActive = true
			acct.ActivationExpiresAt = nil
			acct.UpdatedAt = now
			if err := store.Accounts().Update(ctx, acct); err != nil {
				return fmt.Errorf("failed to activate account: %w", err)
			}
			result = Activation{Result: ActivationDone, Language: acct.Language}
		}
		return nil
	})
	if err != nil {
		log.Error("Auth service: failed to activate account", "error", err.Error())
		return notValid, apperrors.Internal(err)
	}

	if result.Result == ActivationDone {
		metrics.Outcome("activate", "success")
		log.Info("Auth service: account activated", "email_hash", acct.EmailHash)
		a.notify.publish(model.EventAccountActivated, acct.ID, acct.EmailHash, client, now)
	} else {
		metrics.Outcome("activate", "rejected")
	}
	return result, nil
}

// LoginInput is a login attempt. Code and LoginToken are optional.
type LoginInput struct {
	Email      string `json:"email" validate:"required,max=128"`
	Password   string `json:"password" validate:"required,max=256"`
	Code       string `json:"code,omitempty" validate:"omitempty,max=32"`
	LoginToken string `json:"login_token,omitempty" validate:"omitempty,max=2048"`
}

// LoginResult carries the session tokens and, after a 2FA code, a login
// token that skips the next 2FA prompt.
type LoginResult struct {
	Tokens     model.TokenPair
	LoginToken string
}

// Login checks the password, then either a valid login token, a 2FA code,
// or issues a 2FA code and reports TwoFactorRequired.
func (a *Auth) Login(ctx context.Context, in LoginInput, client Client) (LoginResult, error) {
	log := a.logger.WithContext(ctx)

	if err := a.policy.Allow(ctx, model.ScopeLogin, client.IP); err != nil {
		metrics.Outcome("login", "throttled")
		return LoginResult{}, err
	}
	if err := validator.Validate(in); err != nil {
		return LoginResult{}, apperrors.InvalidInputFrom(err)
	}

	email := security.NormalizeEmail(in.Email)
	now := a.now()

	var (
		result    LoginResult
		failure   error
		acct      model.Account
		loginCode string
	)
	err := a.tx.WithinTx(ctx, func(ctx context.Context, store model.Store) error {
		var err error
		acct, err = store.Accounts().GetByEmailForUpdate(ctx, email)
		if errors.Is(err, model.ErrNotFound) {
			a.passwords.CompareDummy(in.Password)
			failure = apperrors.InvalidCredentials(err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get account by email: %w", err)
		}

		if err := a.passwords.Compare(acct.PasswordHash, in.Password); err != nil {
			failure = apperrors.InvalidCredentials(err)
			return nil
		}
		if !acct.CanSignIn() {
			failure = apperrors.InvalidCredentials(errAccountDisabled)
			return nil
		}

		switch {
		case in.LoginToken != "" && a.tokens.loginTokenValid(in.LoginToken, acct):
		case in.Code != "":
			if err := a.loginCodes.Verify(&acct.Login, in.Code, now); err != nil {
				acct.UpdatedAt = now
				if err := store.Accounts().Update(ctx, acct); err != nil {
					return fmt.Errorf("failed to record login attempt: %w", err)
				}
				log.Warn("login_2fa_fail",
					"email_hash", acct.EmailHash,
					"reason", err.Error(),
					"attempts", acct.Login.Attempts)
				failure = codeError(err)
				return nil
			}
			result.LoginToken, err = a.tokens.mintLoginToken(acct.ID)
			if err != nil {
				return err
			}
		default:
			issued, err := a.loginCodes.Issue(&acct.Login, now)
			switch {
			case err == nil && !issued.Reused:
				acct.UpdatedAt = now
				if err := store.Accounts().Update(ctx, acct); err != nil {
					return fmt.Errorf("failed to store login code: %w", err)
				}
				loginCode = issued.Code
			case err == nil, errors.Is(err, otp.ErrLocked), errors.Is(err, otp.ErrCooldown):
			default:
				return fmt.Errorf("failed to issue login code: %w", err)
			}
			failure = apperrors.TwoFactorRequired()
			return nil
		}

		acct.LastLoginAt = &now
		acct.UpdatedAt = now
		if err := store.Accounts().Update(ctx, acct); err != nil {
			return fmt.Errorf("failed to record login: %w", err)
		}
		result.Tokens, err = a.tokens.issue(ctx, store, acct.ID, client, now)
		return err
	})
	if err != nil {
		log.Error("Auth service: login failed", "error", err.Error())
		return LoginResult{}, apperrors.Internal(err)
	}

	if loginCode != "" {
		a.notify.mail(a.composer.LoginCode(acct.Language, acct.Email, loginCode, a.loginCodes.Policy().TTL))
	}
	if failure != nil {
		metrics.Outcome("login", apperrors.KindOf(failure).String())
		return LoginResult{}, failure
	}

	metrics.Outcome("login", "success")
	log.Info("login_success", "email_hash", acct.EmailHash)
	a.notify.mail(a.composer.LoginSucceeded(acct.Language, acct.Email))
	a.notify.publish(model.EventLoginSucceeded, acct.ID, acct.EmailHash, client, now)
	return result, nil
}

func codeError(err error) error {
	switch {
	case errors.Is(err, otp.ErrLocked):
		return apperrors.Locked(err)
	case errors.Is(err, otp.ErrNoCode):
		return apperrors.Expired(err)
	default:
		return apperrors.InvalidCode(err)
	}
}

// RequestReset mails a reset code when the account exists and is active.
// The caller always sees the same acknowledgement.
func (a *Auth) RequestReset(ctx context.Context, email string, client Client) error {
	log := a.logger.WithContext(ctx)

	if err := a.policy.Allow(ctx, model.ScopeReset, client.IP); err != nil {
		metrics.Outcome("reset_request", "throttled")
		return err
	}

	email = security.NormalizeEmail(email)
	if email == "" {
		return nil
	}

	now := a.now()
	var (
		acct model.Account
		code string
	)
	err := a.tx.WithinTx(ctx, func(ctx context.Context, store model.Store) error {
		var err error
		acct, err = store.Accounts().GetByEmailForUpdate(ctx, email)
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get account by email: %w", err)
		}
		if !acct.CanSignIn() {
			return nil
		}

		issued, err := a.resetCodes.Issue(&acct.Reset, now)
		switch {
		case err == nil && !issued.Reused:
		case err == nil, errors.Is(err, otp.ErrLocked), errors.Is(err, otp.ErrCooldown):
			return nil
		default:
			return fmt.Errorf("failed to issue reset code: %w", err)
		}

		acct.UpdatedAt = now
		if err := store.Accounts().Update(ctx, acct); err != nil {
			return fmt.Errorf("failed to store reset code: %w", err)
		}
		code = issued.Code
		return nil
	})
	if err != nil {
		log.Error("Auth service: failed to request password reset", "error", err.Error())
		return apperrors.Internal(err)
	}

	if code != "" {
		metrics.Outcome("reset_request", "code_sent")
		log.Info("Auth service: reset code issued", "email_hash", acct.EmailHash)
		a.notify.mail(a.composer.ResetCode(acct.Language, acct.Email, code, a.resetCodes.Policy().TTL))
	} else {
		metrics.Outcome("reset_request", "acknowledged")
	}
	return nil
}

// ConfirmResetInput sets a new password with a reset code.
type ConfirmResetInput struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

// ConfirmReset verifies the reset code and replaces the password. On
// success every token issued before now stops being accepted.
func (a *Auth) ConfirmReset(ctx context.Context, in ConfirmResetInput, client Client) error {
	log := a.logger.WithContext(ctx)

	if err := a.policy.Allow(ctx, model.ScopeReset, client.IP); err != nil {
		metrics.Outcome("reset_confirm", "throttled")
		return err
	}

	email := security.NormalizeEmail(in.Email)
	if email == "" || in.Code == "" {
		return apperrors.InvalidCode(otp.ErrNoCode)
	}
	if err := validator.PasswordPolicy(in.Password); err != nil {
		return apperrors.InvalidInput("field 'password' " + err.Error())
	}

	passwordHash, err := a.passwords.Hash(in.Password)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	now := a.now()
	var (
		acct      model.Account
		failure   error
		notify    bool
		newlyLock bool
	)
	err = a.tx.WithinTx(ctx, func(ctx context.Context, store model.Store) error {
		var err error
		acct, err = store.Accounts().GetByEmailForUpdate(ctx, email)
		if errors.Is(err, model.ErrNotFound) {
			failure = apperrors.InvalidCode(err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get account by email: %w", err)
		}
		if !acct.CanSignIn() {
			failure = apperrors.InvalidCode(errAccountNotActive)
			return nil
		}

		wasLocked := acct.Reset.Locked(now)
		if err := a.resetCodes.Verify(&acct.Reset, in.Code, now); err != nil {
			acct.UpdatedAt = now
			if err := store.Accounts().Update(ctx, acct); err != nil {
				return fmt.Errorf("failed to record reset attempt: %w", err)
			}
			newlyLock = errors.Is(err, otp.ErrLocked) && !wasLocked
			log.Warn("password_reset_confirm_fail",
				"email_hash", acct.EmailHash,
				"reason", err.Error(),
				"attempts", acct.Reset.Attempts)
			failure = codeError(err)
			return nil
		}

		acct.PasswordHash = passwordHash
		acct.ResetDoneAt = &now
		acct.CredentialsEpoch = model.NextCredentialsEpoch(now)
		if acct.ResetNotifiedAt == nil || !now.Before(acct.ResetNotifiedAt.Add(a.cfg.NoticeCooldown)) {
			acct.ResetNotifiedAt = &now
			notify = true
		}
		acct.UpdatedAt = now
		if err := store.Accounts().Update(ctx, acct); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if _, err := store.Sessions().RevokeAll(ctx, acct.ID); err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("Auth service: failed to confirm password reset", "error", err.Error())
		return apperrors.Internal(err)
	}

	if newlyLock {
		log.Warn("password_reset_locked",
			"email_hash", acct.EmailHash,
			"locked_until", acct.Reset.LockedUntil)
		a.notify.publish(model.EventPasswordResetLocked, acct.ID, acct.EmailHash, client, now)
	}
	if failure != nil {
		metrics.Outcome("reset_confirm", apperrors.KindOf(failure).String())
		return failure
	}

	metrics.Outcome("reset_confirm", "success")
	log.Info("password_reset_confirm_success", "email_hash", acct.EmailHash)
	if notify {
		a.notify.mail(a.composer.ResetDone(acct.Language, acct.Email))
	}
	a.notify.publish(model.EventPasswordResetDone, acct.ID, acct.EmailHash, client, now)
	return nil
}
