package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rosvit/journal-backend/internal/common"
)

// TokenAuthority issues and verifies HS256-signed access tokens. The clock is
// injected so expiry behaviour can be tested deterministically; production
// callers use NewTokenAuthority, which wires time.Now.
type TokenAuthority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenAuthority(secret []byte, ttl time.Duration) *TokenAuthority {
	return NewTokenAuthorityWithClock(secret, ttl, time.Now)
}

func NewTokenAuthorityWithClock(secret []byte, ttl time.Duration, now func() time.Time) *TokenAuthority {
	return &TokenAuthority{secret: secret, ttl: ttl, now: now}
}

// TTL reports the configured token lifetime.
func (a *TokenAuthority) TTL() time.Duration {
	return a.ttl
}

// Issue creates a signed token for userID, valid from now until now+TTL.
func (a *TokenAuthority) Issue(userID string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates tokenString and returns the subject user ID and
// the token's expiry. The failure modes are kept distinct: a token that does
// not parse maps to common.ErrMalformedToken, a bad signature to
// common.ErrInvalidToken and a valid-but-stale token to common.ErrTokenExpired.
// Expiry is a strict cutoff: a token presented exactly at its expiry instant
// is already expired.
func (a *TokenAuthority) Verify(tokenString string) (string, time.Time, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)

	claims := &jwt.RegisteredClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", time.Time{}, common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", time.Time{}, common.ErrInvalidToken
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", time.Time{}, common.ErrMalformedToken
		default:
			return "", time.Time{}, common.ErrInvalidToken
		}
	}

	if claims.Subject == "" {
		return "", time.Time{}, common.ErrInvalidToken
	}
	// WithExpirationRequired guarantees ExpiresAt is set, but jwt/v5 treats
	// exp == now as still valid while we want a strict cutoff.
	if !claims.ExpiresAt.Time.After(a.now()) {
		return "", time.Time{}, common.ErrTokenExpired
	}

	return claims.Subject, claims.ExpiresAt.Time, nil
}
