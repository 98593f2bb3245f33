package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/rosvit/journal-backend/internal/dbx"
	"github.com/rosvit/journal-backend/internal/server/models"
	entriesrepo "github.com/rosvit/journal-backend/internal/server/repositories/entries"
	eventtypesrepo "github.com/rosvit/journal-backend/internal/server/repositories/eventtypes"
	usersrepo "github.com/rosvit/journal-backend/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	updateErr    error
	updatedWith  string
	updateCalled bool
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, userID string, password string) error {
	f.updateCalled = true
	f.updatedWith = password
	return f.updateErr
}

type fakeEventTypesRepo struct {
	createErr error
	getOut    *models.EventType
	getErr    error
	listOut   []*models.EventType
	listErr   error
	updateErr error
	deleteErr error

	getCalls int
}

func (f *fakeEventTypesRepo) Create(ctx context.Context, et *models.EventType) (*models.EventType, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	et.ID = "et-1"
	return et, nil
}

func (f *fakeEventTypesRepo) GetByID(ctx context.Context, userID, id string) (*models.EventType, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeEventTypesRepo) ListByUser(ctx context.Context, userID string) ([]*models.EventType, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeEventTypesRepo) Update(ctx context.Context, et *models.EventType) error {
	return f.updateErr
}

func (f *fakeEventTypesRepo) Delete(ctx context.Context, userID, id string) error {
	return f.deleteErr
}

type fakeEntriesRepo struct {
	createErr error
	getOut    *models.JournalEntry
	getErr    error
	updateErr error
	deleteErr error

	countOut int64
	countErr error
	findOut  []*models.JournalEntry
	findErr  error

	lastFilter *models.SearchFilter
}

func (f *fakeEntriesRepo) Create(ctx context.Context, e *models.JournalEntry) (*models.JournalEntry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	e.ID = "e-1"
	return e, nil
}

func (f *fakeEntriesRepo) GetByID(ctx context.Context, userID, id string) (*models.JournalEntry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeEntriesRepo) Update(ctx context.Context, e *models.JournalEntry) error {
	return f.updateErr
}

func (f *fakeEntriesRepo) Delete(ctx context.Context, userID, id string) error {
	return f.deleteErr
}

func (f *fakeEntriesRepo) Count(ctx context.Context, userID string, filter *models.SearchFilter) (int64, error) {
	f.lastFilter = filter
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.countOut, nil
}

func (f *fakeEntriesRepo) Find(ctx context.Context, userID string, filter *models.SearchFilter) ([]*models.JournalEntry, error) {
	f.lastFilter = filter
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

// fakeRepoManager dispenses the fake repositories regardless of the DBTX.
type fakeRepoManager struct {
	users      *fakeUsersRepo
	eventTypes *fakeEventTypesRepo
	entries    *fakeEntriesRepo
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (f *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return f.users }

func (f *fakeRepoManager) EventTypes(db dbx.DBTX) eventtypesrepo.Repository { return f.eventTypes }

func (f *fakeRepoManager) Entries(db dbx.DBTX) entriesrepo.Repository { return f.entries }
