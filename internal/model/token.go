package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenType is the purpose a bearer token was minted for.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
	TokenLogin   TokenType = "login"
)

// TokenExtra holds the claims only refresh tokens carry.
type TokenExtra struct {
	SessionID uuid.UUID
	Secret    string
}

// Claims is the decoded content of a bearer token.
type Claims struct {
	Type      TokenType
	Subject   uuid.UUID
	SessionID uuid.UUID
	Secret    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssuedBefore reports whether the token predates epoch.
func (c Claims) IssuedBefore(epoch time.Time) bool {
	return c.IssuedAt.Before(epoch)
}

// NextCredentialsEpoch returns the epoch that rejects every token minted up
// to and including now. Token issue times have whole-second precision.
func NextCredentialsEpoch(now time.Time) time.Time {
	return now.Truncate(time.Second).Add(time.Second)
}

// TokenManager mints and parses signed bearer tokens.
type TokenManager interface {
	Mint(kind TokenType, subject uuid.UUID, extra TokenExtra, ttl time.Duration) (string, error)
	Parse(token string, kind TokenType) (Claims, error)
	ParseIgnoringExpiry(token string, kind TokenType) (Claims, error)
}

// TokenPair is the access and refresh token handed to a client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
