// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CharacterForge Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// DefaultTokenTTL is the session token lifetime when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// Token verification failure taxonomy. Callers match with errors.Is.
var (
	// ErrTokenExpired is returned when the token's expiry is in the past.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenMalformed is returned when the token is structurally invalid.
	ErrTokenMalformed = errors.New("token malformed")

	// ErrTokenInvalid is returned when the signature does not verify or
	// the token was signed with an unexpected algorithm.
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenConfig holds the immutable signing configuration for a TokenService.
// The secret is injected at construction, never read from ambient state, so
// tests can issue tokens under distinct secrets per case.
type TokenConfig struct {
	// Secret is the HMAC signing key. Must be non-empty.
	Secret []byte

	// TTL is the token lifetime. Zero means DefaultTokenTTL.
	TTL time.Duration
}

// TokenService issues and verifies signed, time-bound session tokens.
//
// Tokens are stateless HS256 JWTs carrying only the subject (username) and
// expiry. There is no server-side session store and no revocation list:
// validity is determined purely by signature and expiry at verification
// time, and rotating the secret invalidates every outstanding token.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService using the wall clock.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	return NewTokenServiceWithClock(cfg, time.Now)
}

// NewTokenServiceWithClock creates a TokenService with an injected clock,
// keeping verification deterministic for tests.
func NewTokenServiceWithClock(cfg TokenConfig, now func() time.Time) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("signing secret is required")
	}
	if now == nil {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("clock is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: cfg.Secret,
		ttl:    ttl,
		now:    now,
	}, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for the subject, expiring after the
// configured TTL. The token is opaque to callers.
func (s *TokenService) Issue(subject string) (string, error) {
	if subject == "" {
		return "", oops.Code("TOKEN_ISSUE_FAILED").Errorf("subject cannot be empty")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").
			With("subject", subject).
			Wrap(err)
	}
	return signed, nil
}

// Verify validates the signature and expiry of a token and returns the
// embedded subject. Failures are classified as ErrTokenExpired,
// ErrTokenMalformed, or ErrTokenInvalid.
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", oops.Code("TOKEN_EXPIRED").Wrap(errors.Join(ErrTokenExpired, err))
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", oops.Code("TOKEN_MALFORMED").Wrap(errors.Join(ErrTokenMalformed, err))
		default:
			return "", oops.Code("TOKEN_INVALID").Wrap(errors.Join(ErrTokenInvalid, err))
		}
	}

	if claims.Subject == "" {
		return "", oops.Code("TOKEN_MALFORMED").
			Wrap(errors.Join(ErrTokenMalformed, errors.New("missing subject claim")))
	}
	return claims.Subject, nil
}
