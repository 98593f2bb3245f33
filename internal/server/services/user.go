// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, and password updates.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rosvit/journal-backend/internal/common"
	"github.com/rosvit/journal-backend/internal/dbx"
	"github.com/rosvit/journal-backend/internal/server/auth"
	"github.com/rosvit/journal-backend/internal/server/models"
	"github.com/rosvit/journal-backend/internal/server/repositories/repomanager"
)

// LoginResult is the successful outcome of a credential check: a bearer access
// token and its lifetime in seconds.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// UserService provides account operations:
// - Register: create users with hashed credentials
// - Login: verify credentials and mint an access token
// - UpdatePassword: replace the stored credential
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	authority   *auth.TokenAuthority

	// dummyHash is a credential for a password nobody knows. Login verifies
	// against it when the username is unknown, so the unknown-user and
	// wrong-password paths cost the same and both return ErrorUnauthorized.
	dummyHash string
}

// NewUserService constructs a UserService. It pre-computes the dummy credential
// once so the hashing cost is not paid per failed login twice.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher, authority *auth.TokenAuthority) (*UserService, error) {
	seed, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("preparing dummy credential: %w", err)
	}
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		authority:   authority,
		dummyHash:   hasher.Hash(seed),
	}, nil
}

// Register creates a new account with the hashed password. A username or email
// already in use yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	user := &models.User{Username: username, Email: email, Password: s.hasher.Hash(password)}
	repo := s.repomanager.Users(s.db)

	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, common.ErrorInternal
	}
	return u, nil
}

// Login verifies the password and mints an access token. An unknown username
// and a wrong password are indistinguishable to the caller: both verify a
// credential (the dummy one when the user is absent) and both return
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.Password) {
		return nil, common.ErrorUnauthorized
	}

	token, err := s.authority.Issue(user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.authority.TTL() / time.Second),
	}, nil
}

// UpdatePassword replaces the user's stored credential with a hash of password.
func (s *UserService) UpdatePassword(ctx context.Context, userID, password string) error {
	hashed := s.hasher.Hash(password)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Users(tx).UpdatePassword(ctx, userID, hashed)
	})
}
