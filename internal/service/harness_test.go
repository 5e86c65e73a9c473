package service_test

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/quidalert-auth/internal/mail"
	"github.com/dtroode/quidalert-auth/internal/model"
	"github.com/dtroode/quidalert-auth/internal/otp"
	"github.com/dtroode/quidalert-auth/internal/security"
	"github.com/dtroode/quidalert-auth/internal/service"
	"github.com/dtroode/quidalert-auth/internal/testutil"
	"github.com/dtroode/quidalert-auth/internal/token"
)

const (
	testEmail    = "a@b.com"
	testPassword = "Abc12345!"
	adminPass    = "Adm1n-Bootstrap!"
)

var (
	tokenRe     = regexp.MustCompile(`token=([A-Za-z0-9_\-]+)`)
	loginCodeRe = regexp.MustCompile(`\b(\d{6})\b`)
	resetCodeRe = regexp.MustCompile(`\b(\d{10})\b`)
	client      = service.Client{IP: "203.0.113.7", Device: "quidalert-test/1.0", RequestID: "req-1"}
)

type harness struct {
	store      *testutil.MemStore
	clock      *testutil.Clock
	mailer     *testutil.Mailer
	events     *testutil.Events
	dispatcher *testutil.SyncDispatcher
	jwt        *token.JWT
	auth       *service.Auth
	tokens     *service.TokenService
	users      *service.Users
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	throttle  model.Throttle
	publisher model.EventPublisher
}

func withThrottle(t model.Throttle) harnessOption {
	return func(c *harnessConfig) { c.throttle = t }
}

// withPublisher replaces the recording event sink.
func withPublisher(p model.EventPublisher) harnessOption {
	return func(c *harnessConfig) { c.publisher = p }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	var cfg harnessConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &harness{
		store:      testutil.NewMemStore(),
		clock:      testutil.NewClock(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)),
		mailer:     &testutil.Mailer{},
		events:     &testutil.Events{},
		dispatcher: &testutil.SyncDispatcher{},
	}

	var events model.EventPublisher = h.events
	if cfg.publisher != nil {
		events = cfg.publisher
	}

	log := testutil.MakeNoopLogger()
	keys := security.Peppers{Email: "email-pepper", Code: "code-pepper", Refresh: "refresh-pepper"}
	h.jwt = token.NewJWT("test-signing-key", token.WithClock(h.clock.Now))

	h.tokens = service.NewTokenService(service.TokenConfig{
		AccessTTL:    time.Hour,
		RefreshTTL:   180 * 24 * time.Hour,
		LoginTTL:     5 * time.Minute,
		SessionLimit: 6,
	}, service.TokenDeps{
		Tx:         h.store,
		Manager:    h.jwt,
		Keys:       keys,
		Events:     events,
		Dispatcher: h.dispatcher,
		Logger:     log,
		Now:        h.clock.Now,
	})

	h.auth = service.NewAuth(service.AuthConfig{
		ActivationTTL:  24 * time.Hour,
		NoticeCooldown: 180 * time.Second,
		AdminPass:      adminPass,
	}, service.AuthDeps{
		Tx:        h.store,
		Tokens:    h.tokens,
		Passwords: security.NewHasher(bcrypt.MinCost),
		Keys:      keys,
		ResetCodes: otp.NewManager(otp.Policy{
			Digits: 10, TTL: 10 * time.Minute, MaxAttempts: 3, LockFor: 24 * time.Hour, Cooldown: 180 * time.Second,
		}, keys),
		LoginCodes: otp.NewManager(otp.Policy{
			Digits: 6, TTL: 5 * time.Minute, MaxAttempts: 3, LockFor: 15 * time.Minute, Cooldown: 180 * time.Second,
		}, keys),
		Composer:   mail.NewComposer("https://quidalert.test"),
		Mailer:     h.mailer,
		Events:     events,
		Dispatcher: h.dispatcher,
		Policy:     service.NewPolicy(cfg.throttle, log),
		Logger:     log,
		Now:        h.clock.Now,
	})

	h.users = service.NewUsers(h.store, log)
	return h
}

// mailsTo returns the messages sent to addr with a subject containing subject.
func (h *harness) mailsTo(addr, subject string) []model.Mail {
	var out []model.Mail
	for _, m := range h.mailer.Sent() {
		if m.To == addr && strings.Contains(m.Subject, subject) {
			out = append(out, m)
		}
	}
	return out
}

func (h *harness) register(t *testing.T, email, password string) string {
	t.Helper()
	err := h.auth.Register(context.Background(), service.RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: "Ada",
		Surname:   "Lovelace",
		Language:  "en",
	}, client)
	require.NoError(t, err)

	m := h.mailer.Last()
	require.Equal(t, email, m.To)
	match := tokenRe.FindStringSubmatch(m.Body)
	require.Len(t, match, 2, "activation mail has no token: %q", m.Body)
	return match[1]
}

func (h *harness) registerActive(t *testing.T, email, password string) {
	t.Helper()
	tok := h.register(t, email, password)
	res, err := h.auth.Activate(context.Background(), email, tok, client)
	require.NoError(t, err)
	require.Equal(t, service.ActivationDone, res.Result)
}

// login runs the two-step 2FA login and returns its result.
func (h *harness) login(t *testing.T, email, password string) service.LoginResult {
	t.Helper()
	ctx := context.Background()

	_, err := h.auth.Login(ctx, service.LoginInput{Email: email, Password: password}, client)
	require.Error(t, err)

	code := lastCode(t, h.mailsTo(email, "Login verification"), loginCodeRe)
	res, err := h.auth.Login(ctx, service.LoginInput{Email: email, Password: password, Code: code}, client)
	require.NoError(t, err)
	return res
}

func lastCode(t *testing.T, mails []model.Mail, re *regexp.Regexp) string {
	t.Helper()
	require.NotEmpty(t, mails)
	match := re.FindStringSubmatch(mails[len(mails)-1].Body)
	require.Len(t, match, 2)
	return match[1]
}
