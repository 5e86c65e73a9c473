package otp

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/dtroode/quidalert-auth/internal/model"
)

const secretBytes = 32

var (
	ErrLocked   = errors.New("code flow locked")
	ErrCooldown = errors.New("code mail cooldown running")
	ErrNoCode   = errors.New("no live code")
	ErrMismatch = errors.New("code mismatch")
)

// Hasher is the keyed hash used for stored codes.
type Hasher interface {
	CodeHash(code string) string
	VerifyCode(code, stored string) bool
}

// Policy describes one code flow.
type Policy struct {
	Digits      int
	TTL         time.Duration
	MaxAttempts int
	LockFor     time.Duration
	Cooldown    time.Duration
}

// Issued is the outcome of Manager.Issue. Code is empty when a live code
// was reused.
type Issued struct {
	Code   string
	Reused bool
}

// Manager issues and verifies numeric one-time codes held in a CodeState.
type Manager struct {
	policy Policy
	hasher Hasher
}

// NewManager creates a Manager for one flow.
func NewManager(policy Policy, hasher Hasher) *Manager {
	return &Manager{policy: policy, hasher: hasher}
}

// Policy returns the flow settings.
func (m *Manager) Policy() Policy {
	return m.policy
}

// Issue stores a fresh code in state unless the flow is locked, a live code
// already exists, or the previous mail is still inside the cooldown.
func (m *Manager) Issue(state *model.CodeState, now time.Time) (Issued, error) {
	if state.Locked(now) {
		return Issued{}, ErrLocked
	}
	if state.Live(now) {
		return Issued{Reused: true}, nil
	}
	if state.SentAt != nil && now.Before(state.SentAt.Add(m.policy.Cooldown)) {
		return Issued{}, ErrCooldown
	}

	code, err := NewNumericCode(m.policy.Digits)
	if err != nil {
		return Issued{}, err
	}

	hash := m.hasher.CodeHash(code)
	expires := now.Add(m.policy.TTL)
	sent := now
	state.Hash = &hash
	state.ExpiresAt = &expires
	state.Attempts = 0
	state.LockedUntil = nil
	state.SentAt = &sent

	return Issued{Code: code}, nil
}

// Verify checks code against state and updates attempt bookkeeping. The
// caller must persist state whatever the result.
func (m *Manager) Verify(state *model.CodeState, code string, now time.Time) error {
	if state.Locked(now) {
		return ErrLocked
	}
	if !state.Live(now) {
		state.Clear()
		return ErrNoCode
	}

	if !m.hasher.VerifyCode(code, *state.Hash) {
		state.Attempts++
		if state.Attempts > m.policy.MaxAttempts {
			until := now.Add(m.policy.LockFor)
			state.Clear()
			state.LockedUntil = &until
			return ErrLocked
		}
		return ErrMismatch
	}

	state.Clear()
	state.LockedUntil = nil
	state.SentAt = nil
	return nil
}

// NewNumericCode returns a zero-padded random decimal string of the given length.
func NewNumericCode(digits int) (string, error) {
	if digits <= 0 || digits > 18 {
		return "", fmt.Errorf("unsupported code length %d", digits)
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

// NewSecret returns a high-entropy url-safe token used for activation links
// and refresh sessions.
func NewSecret() (string, error) {
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
