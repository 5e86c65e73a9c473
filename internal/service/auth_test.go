package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/quidalert-auth/internal/apperrors"
	"github.com/dtroode/quidalert-auth/internal/mocks"
	"github.com/dtroode/quidalert-auth/internal/model"
	"github.com/dtroode/quidalert-auth/internal/service"
)

func TestAuth_Register_CreatesPendingAccount(t *testing.T) {
	h := newHarness(t)

	err := h.auth.Register(context.Background(), service.RegisterInput{
		Email: "  A@B.com ", Password: testPassword, FirstName: "Ada", Surname: "Lovelace",
	}, client)
	require.NoError(t, err)
	tok := tokenRe.FindStringSubmatch(h.mailer.Last().Body)[1]

	acct, ok := h.store.Account(testEmail)
	require.True(t, ok, "email is normalized before storage")
	assert.False(t, acct.IsActive)
	assert.False(t, acct.IsAdmin)
	require.NotNil(t, acct.ActivationHash)
	assert.NotEqual(t, tok, *acct.ActivationHash, "only the digest is stored")
	assert.Equal(t, h.clock.Now().Add(24*time.Hour), *acct.ActivationExpiresAt)
	assert.Equal(t, model.AccountTypeCitizen, acct.Type)
	assert.Equal(t, []string{model.EventAccountRegistered}, h.events.Types())
	assert.Len(t, h.mailsTo(testEmail, "Activate"), 1)
}

func TestAuth_Register_InvalidInput(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   service.RegisterInput
	}{
		{"bad email", service.RegisterInput{Email: "nope", Password: testPassword, FirstName: "Ada", Surname: "Lovelace"}},
		{"weak password", service.RegisterInput{Email: testEmail, Password: "abcdefgh", FirstName: "Ada", Surname: "Lovelace"}},
		{"password longer than bcrypt accepts", service.RegisterInput{Email: testEmail, Password: testPassword + strings.Repeat("x", 80), FirstName: "Ada", Surname: "Lovelace"}},
		{"multibyte password over 72 bytes", service.RegisterInput{Email: testEmail, Password: "Aa1!" + strings.Repeat("è", 35), FirstName: "Ada", Surname: "Lovelace"}},
		{"short name", service.RegisterInput{Email: testEmail, Password: testPassword, FirstName: "A", Surname: "Lovelace"}},
		{"unknown language", service.RegisterInput{Email: testEmail, Password: testPassword, FirstName: "Ada", Surname: "Lovelace", Language: "fr"}},
		{"unknown type", service.RegisterInput{Email: testEmail, Password: testPassword, FirstName: "Ada", Surname: "Lovelace", Type: "pilot"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.auth.Register(ctx, tt.in, client)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.KindInvalidInput))
		})
	}
	assert.Empty(t, h.mailer.Sent())
}

func TestAuth_Register_DuplicateIsAcknowledgedSilently(t *testing.T) {
	h := newHarness(t)
	h.register(t, testEmail, testPassword)
	first, _ := h.store.Account(testEmail)

	err := h.auth.Register(context.Background(), service.RegisterInput{
		Email: testEmail, Password: "Other123!x", FirstName: "Eve", Surname: "Mallory",
	}, client)
	require.NoError(t, err)

	second, _ := h.store.Account(testEmail)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.PasswordHash, second.PasswordHash)
	assert.Len(t, h.mailsTo(testEmail, "Activate"), 1)
}

func TestAuth_Register_ReplacesExpiredPendingAccount(t *testing.T) {
	h := newHarness(t)
	h.register(t, testEmail, testPassword)
	first, _ := h.store.Account(testEmail)

	h.clock.Advance(25 * time.Hour)
	h.register(t, testEmail, testPassword)

	second, _ := h.store.Account(testEmail)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, h.mailsTo(testEmail, "Activate"), 2)
}

func TestAuth_Register_AdminBootstrap(t *testing.T) {
	h := newHarness(t)
	h.register(t, "root@quidalert.test", adminPass)
	h.register(t, "second@quidalert.test", adminPass)

	root, _ := h.store.Account("root@quidalert.test")
	second, _ := h.store.Account("second@quidalert.test")
	assert.True(t, root.IsAdmin, "first account with the bootstrap password is admin")
	assert.False(t, second.IsAdmin, "bootstrap only applies to an empty store")
}

func TestAuth_Register_StorageFailure(t *testing.T) {
	h := newHarness(t)
	h.store.Err = assert.AnError

	err := h.auth.Register(context.Background(), service.RegisterInput{
		Email: testEmail, Password: testPassword, FirstName: "Ada", Surname: "Lovelace",
	}, client)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindInternal))
	assert.Empty(t, h.mailer.Sent())
}

func TestAuth_Activate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	tok := h.register(t, testEmail, testPassword)

	res, err := h.auth.Activate(ctx, testEmail, "wrong-token", client)
	require.NoError(t, err)
	assert.Equal(t, service.ActivationNotValid, res.Result)

	res, err = h.auth.Activate(ctx, "nobody@b.com", tok, client)
	require.NoError(t, err)
	assert.Equal(t, service.ActivationNotValid, res.Result)

	res, err = h.auth.Activate(ctx, testEmail, tok, client)
	require.NoError(t, err)
	assert.Equal(t, service.ActivationDone, res.Result)

	res, err = h.auth.Activate(ctx, testEmail, tok, client)
	require.NoError(t, err)
	assert.Equal(t, service.ActivationAlreadyActive, res.Result)

	acct, _ := h.store.Account(testEmail)
	assert.True(t, acct.IsActive)
	assert.Nil(t, acct.ActivationExpiresAt)
	assert.Contains(t, h.events.Types(), model.EventAccountActivated)
}

func TestAuth_Activate_Expired(t *testing.T) {
	h := newHarness(t)
	tok := h.register(t, testEmail, testPassword)

	h.clock.Advance(24 * time.Hour)
	res, err := h.auth.Activate(context.Background(), testEmail, tok, client)
	require.NoError(t, err)
	assert.Equal(t, service.ActivationExpired, res.Result)

	acct, _ := h.store.Account(testEmail)
	assert.False(t, acct.IsActive)
}

func TestAuth_Activate_UsesAccountLanguage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.auth.Register(ctx, service.RegisterInput{
		Email: testEmail, Password: testPassword, FirstName: "Ada", Surname: "Lovelace", Language: "it",
	}, client))
	tok := tokenRe.FindStringSubmatch(h.mailer.Last().Body)[1]

	res, err := h.auth.Activate(ctx, testEmail, tok, client)
	require.NoError(t, err)
	assert.Equal(t, model.LanguageIT, res.Language)

	res, err = h.auth.Activate(ctx, testEmail, "bad", client)
	require.NoError(t, err)
	assert.Equal(t, model.LanguageEN, res.Language, "a wrong token does not reveal the account language")
}

func TestAuth_Login_UnknownAndWrongPasswordLookAlike(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registerActive(t, testEmail, testPassword)

	_, errUnknown := h.auth.Login(ctx, service.LoginInput{Email: "ghost@b.com", Password: testPassword}, client)
	_, errWrong := h.auth.Login(ctx, service.LoginInput{Email: testEmail, Password: "Wrong1234!"}, client)

	assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(errUnknown))
	assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(errWrong))
	assert.Equal(t, apperrors.Resolve(apperrors.FlowLogin, errUnknown), apperrors.Resolve(apperrors.FlowLogin, errWrong))
}

func TestAuth_Login_InactiveOrBlocked(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.register(t, testEmail, testPassword)
	_, err := h.auth.Login(ctx, service.LoginInput{Email: testEmail, Password: testPassword}, client)
	assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(err), "inactive")

	h.registerActive(t, "blocked@b.com", testPassword)
	acct, _ := h.store.Account("blocked@b.com")
	acct.Status = model.AccountStatusBlocked
	h.store.PutAccount(acct)

	_, err = h.auth.Login(ctx, service.LoginInput{Email: "blocked@b.com", Password: testPassword}, client)
	assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(err), "blocked")
	assert.Empty(t, h.mailsTo("blocked@b.com", "Login verification"))
}

func TestAuth_Login_TwoFactorCodeIsReusedWhileLive(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registerActive(t, testEmail, testPassword)

	for i := 0; i < 3; i++ {
		_, err := h.auth.Login(ctx, service.LoginInput{Email: testEmail, Password: testPassword}, client)
		assert.Equal(t, apperrors.KindTwoFactorRequired, apperrors.KindOf(err))
		h.clock.Advance(30 * time.Second)
	}
	assert.Len(t, h.mailsTo(testEmail, "Login verification"), 1)
}

func TestAuth_Login_WrongCodeLocksOnFourthFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registerActive(t, testEmail, testPassword)

	_, err := h.auth.Login(ctx, service.LoginInput{Email: testEmail, Password: testPassword}, client)
	require.Equal(t, apperrors.KindTwoFactorRequired, apperrors.KindOf(err))
	code := lastCode(t, h.mailsTo(testEmail, "Login verification"), loginCodeRe)
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	for i := 1; i <= 3; i++ {
		_, err = h.auth.Login(ctx, service.LoginInput{Email: testEmail, Password: testPassword, Code: wrong}, client)
		assert.Equal(t, apperrors.KindInvalidCode, apperrors.KindOf(err), "attempt %d", i)
		acct, _ := h.store.Account(testEmail)
		assert.Equal(t, i, acct.Login.Attempts, "failed attempts are persisted")
	}

	_, err = h.auth.Login(ctx, service.LoginInput{Email: testEmail, Password: testPassword, Code: wrong}, client)
	assert.Equal(t, apperrors.KindLocked, apperrors.KindOf(err))

	_, err = h.auth.Login(ctx, service.LoginInput{Email: testEmail, Password: testPassword, Code: code}, client)
	assert.Equal(t, apperrors.KindLocked, apperrors.KindOf(err))
	assert.Equal(t, apperrors.Resolve(apperrors.FlowLogin, err).Message, apperrors.MsgInvalidCredentials)
}

func TestAuth_Login_BypassTokenSkipsTwoFactor(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registerActive(t, testEmail, testPassword)

	first := h.login(t, testEmail, testPassword)
	require.NotEmpty(t, first.LoginToken)
	require.NotEmpty(t, first.Tokens.AccessToken)
	codes := len(h.mailsTo(testEmail, "Login verification"))

	res, err := h.auth.Login(ctx, service.LoginInput{Email: testEmail, Password: testPassword, LoginToken: first.LoginToken}, client)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Tokens.RefreshToken)
	assert.Empty(t, res.LoginToken)
	assert.Len(t, h.mailsTo(testEmail, "Login verification"), codes)

	h.clock.Advance(6 * time.Minute)
	_, err = h.auth.Login(ctx, service.LoginInput{Email: testEmail, Password: testPassword, LoginToken: first.LoginToken}, client)
	assert.Equal(t, apperrors.KindTwoFactorRequired, apperrors.KindOf(err), "expired bypass token falls back to 2FA")
}

func TestAuth_Login_BypassTokenRequiresPassword(t *testing.T) {
	h := newHarness(t)
	h.registerActive(t, testEmail, testPassword)
	first := h.login(t, testEmail, testPassword)

	_, err := h.auth.Login(context.Background(), service.LoginInput{Email: testEmail, Password: "Wrong1234!", LoginToken: first.LoginToken}, client)
	assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(err))
}

func TestAuth_Login_Success(t *testing.T) {
	h := newHarness(t)
	h.registerActive(t, testEmail, testPassword)

	h.login(t, testEmail, testPassword)

	acct, _ := h.store.Account(testEmail)
	require.NotNil(t, acct.LastLoginAt)
	assert.Equal(t, h.clock.Now(), *acct.LastLoginAt)
	assert.Len(t, h.store.Sessions(acct.ID), 1)
	assert.Len(t, h.mailsTo(testEmail, "Successful login"), 1)
	assert.Contains(t, h.events.Types(), model.EventLoginSucceeded)
}

func TestAuth_Login_Throttled(t *testing.T) {
	throttle := mocks.NewThrottle(t)
	throttle.On("Allow", mock.Anything, model.ScopeLogin, client.IP).Return(false, nil).Once()
	h := newHarness(t, withThrottle(throttle))

	_, err := h.auth.Login(context.Background(), service.LoginInput{Email: testEmail, Password: testPassword}, client)
	assert.Equal(t, apperrors.KindTooManyRequests, apperrors.KindOf(err))
}

func TestAuth_RequestReset_IsIdempotentWhileCodeLive(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registerActive(t, testEmail, testPassword)

	require.NoError(t, h.auth.RequestReset(ctx, testEmail, client))
	first, _ := h.store.Account(testEmail)
	require.NotNil(t, first.Reset.Hash)

	h.clock.Advance(time.Minute)
	require.NoError(t, h.auth.RequestReset(ctx, testEmail, client))
	second, _ := h.store.Account(testEmail)

	assert.Equal(t, *first.Reset.Hash, *second.Reset.Hash)
	assert.Len(t, h.mailsTo(testEmail, "Password reset"), 1)
}

func TestAuth_RequestReset_UnknownAndInactiveAreSilent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "pending@b.com", testPassword)
	sent := len(h.mailer.Sent())

	require.NoError(t, h.auth.RequestReset(ctx, "ghost@b.com", client))
	require.NoError(t, h.auth.RequestReset(ctx, "pending@b.com", client))
	require.NoError(t, h.auth.RequestReset(ctx, "", client))
	assert.Len(t, h.mailer.Sent(), sent)
}

func TestAuth_RequestReset_Throttle(t *testing.T) {
	throttle := mocks.NewThrottle(t)
	throttle.On("Allow", mock.Anything, model.ScopeReset, client.IP).Return(false, nil).Once()
	throttle.On("Allow", mock.Anything, model.ScopeReset, client.IP).Return(false, assert.AnError).Once()
	h := newHarness(t, withThrottle(throttle))
	ctx := context.Background()

	err := h.auth.RequestReset(ctx, testEmail, client)
	assert.Equal(t, apperrors.KindTooManyRequests, apperrors.KindOf(err))
	assert.Equal(t, apperrors.Resolve(apperrors.FlowResetRequest, err).Message, apperrors.MsgAccepted)

	assert.NoError(t, h.auth.RequestReset(ctx, testEmail, client), "a failing throttle lets requests through")
}

func TestAuth_ConfirmReset_LockoutAfterFourWrongCodes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registerActive(t, testEmail, testPassword)
	require.NoError(t, h.auth.RequestReset(ctx, testEmail, client))
	code := lastCode(t, h.mailsTo(testEmail, "Password reset"), resetCodeRe)
	wrong := "0000000000"
	if code == wrong {
		wrong = "1111111111"
	}

	for i := 1; i <= 3; i++ {
		err := h.auth.ConfirmReset(ctx, service.ConfirmResetInput{Email: testEmail, Code: wrong, Password: "N3w-Secret!"}, client)
		assert.Equal(t, apperrors.KindInvalidCode, apperrors.KindOf(err), "attempt %d", i)
	}

	err := h.auth.ConfirmReset(ctx, service.ConfirmResetInput{Email: testEmail, Code: wrong, Password: "N3w-Secret!"}, client)
	assert.Equal(t, apperrors.KindLocked, apperrors.KindOf(err))

	acct, _ := h.store.Account(testEmail)
	assert.Nil(t, acct.Reset.Hash, "the code is cleared on lockout")
	require.NotNil(t, acct.Reset.LockedUntil)
	assert.True(t, acct.Reset.LockedUntil.After(h.clock.Now()))
	assert.Contains(t, h.events.Types(), model.EventPasswordResetLocked)

	err = h.auth.ConfirmReset(ctx, service.ConfirmResetInput{Email: testEmail, Code: code, Password: "N3w-Secret!"}, client)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindLocked, apperrors.KindOf(err))
	assert.Equal(t, apperrors.MsgResetCodeNotValid, apperrors.Resolve(apperrors.FlowReset, err).Message)

	require.NoError(t, h.auth.RequestReset(ctx, testEmail, client))
	assert.Len(t, h.mailsTo(testEmail, "Password reset"), 1, "no new code while locked")
}

func TestAuth_ConfirmReset_LockoutPublishesEvent(t *testing.T) {
	publisher := mocks.NewEventPublisher(t)
	h := newHarness(t, withPublisher(publisher))
	ctx := context.Background()

	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e model.SecurityEvent) bool {
		return e.Type == model.EventPasswordResetLocked &&
			e.EmailHash != "" &&
			e.IP == client.IP &&
			e.RequestID == client.RequestID &&
			e.OccurredAt.Equal(h.clock.Now())
	})).Return(nil).Once()
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	h.registerActive(t, testEmail, testPassword)
	require.NoError(t, h.auth.RequestReset(ctx, testEmail, client))
	code := lastCode(t, h.mailsTo(testEmail, "Password reset"), resetCodeRe)
	wrong := "0000000000"
	if code == wrong {
		wrong = "1111111111"
	}

	for range 4 {
		_ = h.auth.ConfirmReset(ctx, service.ConfirmResetInput{Email: testEmail, Code: wrong, Password: "N3w-Secret!"}, client)
	}

	acct, _ := h.store.Account(testEmail)
	publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e model.SecurityEvent) bool {
		return e.Type == model.EventPasswordResetLocked && e.AccountID == acct.ID
	}))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e model.SecurityEvent) bool {
		return e.Type == model.EventPasswordResetDone
	}))
}

func TestAuth_ConfirmReset_Success(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registerActive(t, testEmail, testPassword)
	session := h.login(t, testEmail, testPassword)

	h.clock.Advance(time.Second)
	require.NoError(t, h.auth.RequestReset(ctx, testEmail, client))
	code := lastCode(t, h.mailsTo(testEmail, "Password reset"), resetCodeRe)

	err := h.auth.ConfirmReset(ctx, service.ConfirmResetInput{Email: testEmail, Code: code, Password: "N3w-Secret!"}, client)
	require.NoError(t, err)

	acct, _ := h.store.Account(testEmail)
	assert.Equal(t, h.clock.Now().Truncate(time.Second).Add(time.Second), acct.CredentialsEpoch)
	require.NotNil(t, acct.ResetDoneAt)
	assert.Nil(t, acct.Reset.Hash)
	for _, s := range h.store.Sessions(acct.ID) {
		assert.True(t, s.Revoked, "reset revokes every session")
	}
	assert.Len(t, h.mailsTo(testEmail, "Password change done"), 1)
	assert.Contains(t, h.events.Types(), model.EventPasswordResetDone)

	_, err = h.tokens.Refresh(ctx, session.Tokens.RefreshToken, client)
	assert.Equal(t, apperrors.KindTokenInvalid, apperrors.KindOf(err))

	_, err = h.auth.Login(ctx, service.LoginInput{Email: testEmail, Password: testPassword}, client)
	assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(err), "old password")

	h.clock.Advance(4 * time.Minute)
	h.login(t, testEmail, "N3w-Secret!")
}

func TestAuth_ConfirmReset_NoticeCooldown(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.registerActive(t, testEmail, testPassword)

	reset := func(password string) {
		require.NoError(t, h.auth.RequestReset(ctx, testEmail, client))
		code := lastCode(t, h.mailsTo(testEmail, "Password reset"), resetCodeRe)
		require.NoError(t, h.auth.ConfirmReset(ctx, service.ConfirmResetInput{Email: testEmail, Code: code, Password: password}, client))
	}

	reset("N3w-Secret!")
	h.clock.Advance(time.Minute)
	reset("N3w-Secret!2")
	assert.Len(t, h.mailsTo(testEmail, "Password change done"), 1)

	h.clock.Advance(3 * time.Minute)
	reset("N3w-Secret!3")
	assert.Len(t, h.mailsTo(testEmail, "Password change done"), 2)
}

func TestAuth_ConfirmReset_RejectsUnknownAndWeak(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	err := h.auth.ConfirmReset(ctx, service.ConfirmResetInput{Email: "ghost@b.com", Code: "1234567890", Password: "N3w-Secret!"}, client)
	assert.Equal(t, apperrors.MsgResetCodeNotValid, apperrors.Resolve(apperrors.FlowReset, err).Message)

	err = h.auth.ConfirmReset(ctx, service.ConfirmResetInput{Email: testEmail, Code: "", Password: "N3w-Secret!"}, client)
	assert.Equal(t, apperrors.MsgResetCodeNotValid, apperrors.Resolve(apperrors.FlowReset, err).Message)

	err = h.auth.ConfirmReset(ctx, service.ConfirmResetInput{Email: testEmail, Code: "1234567890", Password: "short"}, client)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	err = h.auth.ConfirmReset(ctx, service.ConfirmResetInput{Email: testEmail, Code: "1234567890", Password: testPassword + strings.Repeat("x", 80)}, client)
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestAuth_EndToEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tok := h.register(t, testEmail, testPassword)

	res, err := h.auth.Activate(ctx, testEmail, tok, client)
	require.NoError(t, err)
	assert.Equal(t, service.ActivationDone, res.Result)
	res, err = h.auth.Activate(ctx, testEmail, tok, client)
	require.NoError(t, err)
	assert.Equal(t, service.ActivationAlreadyActive, res.Result)

	_, err = h.auth.Login(ctx, service.LoginInput{Email: testEmail, Password: testPassword}, client)
	require.Error(t, err)
	assert.Equal(t, apperrors.MsgTwoFactorRequired, apperrors.Resolve(apperrors.FlowLogin, err).Message)
	code := lastCode(t, h.mailsTo(testEmail, "Login verification"), loginCodeRe)
	assert.Len(t, code, 6)

	login, err := h.auth.Login(ctx, service.LoginInput{Email: testEmail, Password: testPassword, Code: code}, client)
	require.NoError(t, err)
	assert.NotEmpty(t, login.Tokens.AccessToken)
	assert.NotEmpty(t, login.Tokens.RefreshToken)
	assert.NotEmpty(t, login.LoginToken)

	pair, err := h.tokens.Refresh(ctx, login.Tokens.RefreshToken, client)
	require.NoError(t, err)
	assert.NotEqual(t, login.Tokens.RefreshToken, pair.RefreshToken)

	_, err = h.tokens.Refresh(ctx, login.Tokens.RefreshToken, client)
	assert.Equal(t, apperrors.KindTokenInvalid, apperrors.KindOf(err))

	_, err = h.tokens.Refresh(ctx, pair.RefreshToken, client)
	assert.NoError(t, err)
}
