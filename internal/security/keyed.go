package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Peppers are the server-held secrets mixed into keyed hashes. Each secret
// class has its own pepper.
type Peppers struct {
	Email   string
	Code    string
	Refresh string
}

// KeyedHash returns the hex HMAC-SHA256 of value under pepper.
func KeyedHash(value, pepper string) string {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// Equal compares two digests in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailHash is used to correlate log lines without plaintext addresses.
func (p Peppers) EmailHash(email string) string {
	return KeyedHash(NormalizeEmail(email), p.Email)
}

// CodeHash hashes one-time codes and activation secrets.
func (p Peppers) CodeHash(code string) string {
	return KeyedHash(code, p.Code)
}

// VerifyCode reports whether code matches the stored digest.
func (p Peppers) VerifyCode(code, stored string) bool {
	return Equal(p.CodeHash(code), stored)
}

// SecretHash hashes raw refresh-session secrets.
func (p Peppers) SecretHash(secret string) string {
	return KeyedHash(secret, p.Refresh)
}

// VerifySecret reports whether secret matches the stored digest.
func (p Peppers) VerifySecret(secret, stored string) bool {
	return Equal(p.SecretHash(secret), stored)
}
