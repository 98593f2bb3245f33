package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rosvit/journal-backend/internal/common"
	"github.com/rosvit/journal-backend/internal/server/auth"
	"github.com/rosvit/journal-backend/internal/server/models"
)

func testHasher() *auth.PasswordHasher {
	return auth.NewPasswordHasher(auth.PasswordParams{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
}

func testAuthority() *auth.TokenAuthority {
	return auth.NewTokenAuthority([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
}

func newUserService(t *testing.T, rm *fakeRepoManager) *UserService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })

	s, err := NewUserService(db, rm, testHasher(), testAuthority())
	if err != nil {
		t.Fatalf("NewUserService error: %v", err)
	}
	return s
}

func TestNewUserService_PreparesDummyCredential(t *testing.T) {
	s := newUserService(t, &fakeRepoManager{users: &fakeUsersRepo{}})

	if !strings.HasPrefix(s.dummyHash, "$argon2id$") {
		t.Fatalf("dummy credential is not an argon2id hash: %q", s.dummyHash)
	}
	if testHasher().Verify("", s.dummyHash) {
		t.Fatal("empty password must not verify against the dummy credential")
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := &fakeUsersRepo{}
	s := newUserService(t, &fakeRepoManager{users: repo})

	u, err := s.Register(context.Background(), "alice", "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if u.Password == "s3cret" || u.Password == "" {
		t.Fatalf("password stored without hashing: %q", u.Password)
	}
	if !testHasher().Verify("s3cret", u.Password) {
		t.Fatal("stored credential does not verify against the original password")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	repo := &fakeUsersRepo{createErr: common.ErrorAlreadyExists}
	s := newUserService(t, &fakeRepoManager{users: repo})

	_, err := s.Register(context.Background(), "alice", "alice@example.com", "s3cret")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	hashed := testHasher().Hash("s3cret")
	repo := &fakeUsersRepo{getOut: &models.User{ID: "u-1", Username: "alice", Password: hashed}}
	s := newUserService(t, &fakeRepoManager{users: repo})

	res, err := s.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if res.AccessToken == "" || res.TokenType != "Bearer" || res.ExpiresIn != 3600 {
		t.Fatalf("unexpected login result: %+v", res)
	}

	// the minted token must carry the user's id
	userID, _, err := testAuthority().Verify(res.AccessToken)
	if err != nil || userID != "u-1" {
		t.Fatalf("token verification: userID=%q err=%v", userID, err)
	}
}

func TestLogin_IndistinguishableFailures(t *testing.T) {
	hashed := testHasher().Hash("s3cret")

	tests := []struct {
		name string
		repo *fakeUsersRepo
	}{
		{name: "unknown user", repo: &fakeUsersRepo{getErr: common.ErrorNotFound}},
		{name: "wrong password", repo: &fakeUsersRepo{getOut: &models.User{ID: "u-1", Password: hashed}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newUserService(t, &fakeRepoManager{users: tt.repo})
			_, err := s.Login(context.Background(), "alice", "wrong")
			if !errors.Is(err, common.ErrorUnauthorized) {
				t.Fatalf("want common.ErrorUnauthorized, got %v", err)
			}
		})
	}
}

func TestLogin_StorageFailure(t *testing.T) {
	repo := &fakeUsersRepo{getErr: errors.New("db down")}
	s := newUserService(t, &fakeRepoManager{users: repo})

	_, err := s.Login(context.Background(), "alice", "s3cret")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want common.ErrorInternal, got %v", err)
	}
}

func TestUpdatePassword_StoresNewHash(t *testing.T) {
	repo := &fakeUsersRepo{}
	rm := &fakeRepoManager{users: repo}

	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	s, err := NewUserService(db, rm, testHasher(), testAuthority())
	if err != nil {
		t.Fatalf("NewUserService error: %v", err)
	}

	if err := s.UpdatePassword(context.Background(), "u-1", "newpass"); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}
	if !repo.updateCalled {
		t.Fatal("repository UpdatePassword not called")
	}
	if !testHasher().Verify("newpass", repo.updatedWith) {
		t.Fatal("stored credential does not verify against the new password")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestUpdatePassword_UnknownUser(t *testing.T) {
	repo := &fakeUsersRepo{updateErr: common.ErrorNotFound}
	rm := &fakeRepoManager{users: repo}

	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	s, err := NewUserService(db, rm, testHasher(), testAuthority())
	if err != nil {
		t.Fatalf("NewUserService error: %v", err)
	}

	if err := s.UpdatePassword(context.Background(), "ghost", "newpass"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
