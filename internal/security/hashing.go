package security

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords using bcrypt.
type Hasher struct {
	Cost int

	// dummy is compared against when no account exists, so that unknown
	// emails cost the same as wrong passwords.
	dummy []byte
}

// NewHasher returns a Hasher with the given bcrypt cost clamped to the
// range bcrypt accepts.
func NewHasher(cost int) *Hasher {
	cost = clampCost(cost)
	dummy, _ := bcrypt.GenerateFromPassword([]byte("quidalert-dummy-password"), cost)
	return &Hasher{Cost: cost, dummy: dummy}
}

// Hash produces a salted bcrypt hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare returns nil when password matches hash.
func (h *Hasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// CompareDummy spends one comparison without a real hash.
func (h *Hasher) CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}

func clampCost(cost int) int {
	if cost <= 0 {
		return bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		return bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return cost
}
