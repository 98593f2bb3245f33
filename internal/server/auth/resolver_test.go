package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosvit/journal-backend/internal/common"
)

func TestResolver_Resolve(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	authority := NewTokenAuthorityWithClock(testSecret, time.Hour, fixedClock(now))
	resolver := NewResolver(authority)

	token, err := authority.Issue("user-123")
	require.NoError(t, err)

	identity, err := resolver.Resolve("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.UserID)
	assert.WithinDuration(t, now.Add(time.Hour), identity.ExpiresAt, 0)

	// the scheme comparison is case-insensitive
	identity, err = resolver.Resolve("bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", identity.UserID)
}

func TestResolver_MissingVsMalformed(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	authority := NewTokenAuthorityWithClock(testSecret, time.Hour, fixedClock(now))
	resolver := NewResolver(authority)

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{name: "absent header", header: "", wantErr: common.ErrMissingToken},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: common.ErrMalformedToken},
		{name: "scheme only", header: "Bearer", wantErr: common.ErrMalformedToken},
		{name: "scheme with empty token", header: "Bearer   ", wantErr: common.ErrMalformedToken},
		{name: "garbage token", header: "Bearer not-a-jwt", wantErr: common.ErrMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(tt.header)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestResolver_ExpiredToken(t *testing.T) {
	issuedAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenAuthorityWithClock(testSecret, time.Hour, fixedClock(issuedAt))
	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	verifier := NewTokenAuthorityWithClock(testSecret, time.Hour, fixedClock(issuedAt.Add(2*time.Hour)))
	resolver := NewResolver(verifier)

	_, err = resolver.Resolve("Bearer " + token)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}
