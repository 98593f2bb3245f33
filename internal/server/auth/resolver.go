package auth

import (
	"strings"
	"time"

	"github.com/rosvit/journal-backend/internal/common"
)

// Identity is the authenticated caller established for a request.
type Identity struct {
	UserID    string
	ExpiresAt time.Time
}

// Resolver turns an Authorization header value into an Identity.
type Resolver struct {
	authority *TokenAuthority
}

func NewResolver(authority *TokenAuthority) *Resolver {
	return &Resolver{authority: authority}
}

// Resolve validates the Bearer credential in authorization. An absent header
// yields common.ErrMissingToken; a header that is present but not a Bearer
// credential yields common.ErrMalformedToken. The scheme comparison is
// case-insensitive per RFC 9110.
func (r *Resolver) Resolve(authorization string) (*Identity, error) {
	if authorization == "" {
		return nil, common.ErrMissingToken
	}

	scheme, token, found := strings.Cut(authorization, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return nil, common.ErrMalformedToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, common.ErrMalformedToken
	}

	userID, expiresAt, err := r.authority.Verify(token)
	if err != nil {
		return nil, err
	}

	return &Identity{UserID: userID, ExpiresAt: expiresAt}, nil
}
