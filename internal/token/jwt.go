package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/quidalert-auth/internal/model"
)

var _ model.TokenManager = (*JWT)(nil)

// Claims is the JWT payload. Refresh tokens additionally carry the session
// id in jti and the current raw session secret.
type Claims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
	Raw  string `json:"raw,omitempty"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	now       func() time.Time
}

// Option configures JWT.
type Option func(*JWT)

// WithClock overrides the time source used for iat, exp and validation.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string, opts ...Option) *JWT {
	j := &JWT{secretKey: []byte(secretKey), now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Mint signs a token of the given kind valid for ttl.
func (j *JWT) Mint(kind model.TokenType, subject uuid.UUID, extra model.TokenExtra, ttl time.Duration) (string, error) {
	now := j.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type: string(kind),
	}
	if kind == model.TokenRefresh {
		if extra.SessionID == uuid.Nil || extra.Secret == "" {
			return "", fmt.Errorf("refresh token requires session id and secret")
		}
		claims.ID = extra.SessionID.String()
		claims.Raw = extra.Secret
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return tokenString, nil
}

// Parse validates signature, expiry and type. It fails with
// model.ErrTokenExpired or model.ErrTokenMalformed.
func (j *JWT) Parse(tokenString string, kind model.TokenType) (model.Claims, error) {
	return j.parse(tokenString, kind)
}

// ParseIgnoringExpiry validates signature and type only.
func (j *JWT) ParseIgnoringExpiry(tokenString string, kind model.TokenType) (model.Claims, error) {
	return j.parse(tokenString, kind, jwt.WithoutClaimsValidation())
}

func (j *JWT) parse(tokenString string, kind model.TokenType, opts ...jwt.ParserOption) (model.Claims, error) {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Claims{}, fmt.Errorf("%w: %v", model.ErrTokenExpired, err)
		}
		return model.Claims{}, fmt.Errorf("%w: %v", model.ErrTokenMalformed, err)
	}

	if claims.Type != string(kind) {
		return model.Claims{}, fmt.Errorf("%w: token type mismatch: %s", model.ErrTokenMalformed, claims.Type)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return model.Claims{}, fmt.Errorf("%w: missing iat or exp", model.ErrTokenMalformed)
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Claims{}, fmt.Errorf("%w: bad subject: %v", model.ErrTokenMalformed, err)
	}

	out := model.Claims{
		Type:      kind,
		Subject:   subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}

	if kind == model.TokenRefresh {
		sessionID, err := uuid.Parse(claims.ID)
		if err != nil {
			return model.Claims{}, fmt.Errorf("%w: bad jti: %v", model.ErrTokenMalformed, err)
		}
		if claims.Raw == "" {
			return model.Claims{}, fmt.Errorf("%w: missing session secret", model.ErrTokenMalformed)
		}
		out.SessionID = sessionID
		out.Secret = claims.Raw
	}

	return out, nil
}
