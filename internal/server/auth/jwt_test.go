package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosvit/journal-backend/internal/common"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenAuthority_RoundTrip(t *testing.T) {
	issuedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a := NewTokenAuthorityWithClock(testSecret, time.Hour, fixedClock(issuedAt))

	token, err := a.Issue("user-123")
	require.NoError(t, err)

	userID, expiresAt, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	// compare instants, not time.Time internals: jwt returns local-zone times
	assert.WithinDuration(t, issuedAt.Add(time.Hour), expiresAt, 0)
}

func TestTokenAuthority_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenAuthorityWithClock(testSecret, time.Hour, fixedClock(issuedAt))

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{name: "just before expiry", at: issuedAt.Add(time.Hour - time.Second)},
		{name: "exactly at expiry", at: issuedAt.Add(time.Hour), wantErr: common.ErrTokenExpired},
		{name: "after expiry", at: issuedAt.Add(2 * time.Hour), wantErr: common.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := NewTokenAuthorityWithClock(testSecret, time.Hour, fixedClock(tt.at))
			_, _, err := verifier.Verify(token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTokenAuthority_TamperedToken(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a := NewTokenAuthorityWithClock(testSecret, time.Hour, fixedClock(now))

	token, err := a.Issue("user-123")
	require.NoError(t, err)

	// flip one byte of the signature
	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, _, err = a.Verify(string(tampered))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestTokenAuthority_WrongSecret(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a := NewTokenAuthorityWithClock(testSecret, time.Hour, fixedClock(now))
	other := NewTokenAuthorityWithClock([]byte("another-secret-another-secret-32"), time.Hour, fixedClock(now))

	token, err := a.Issue("user-123")
	require.NoError(t, err)

	_, _, err = other.Verify(token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestTokenAuthority_Malformed(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	a := NewTokenAuthorityWithClock(testSecret, time.Hour, fixedClock(now))

	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, _, err := a.Verify(token)
		assert.ErrorIs(t, err, common.ErrMalformedToken, "token %q", token)
	}
}

func TestTokenAuthority_TTL(t *testing.T) {
	a := NewTokenAuthority(testSecret, 15*time.Minute)
	assert.Equal(t, 15*time.Minute, a.TTL())
}
