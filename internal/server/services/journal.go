// This file implements JournalService: event type management, journal entry
// management, and the entry search.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rosvit/journal-backend/internal/common"
	"github.com/rosvit/journal-backend/internal/dbx"
	"github.com/rosvit/journal-backend/internal/server/models"
	"github.com/rosvit/journal-backend/internal/server/repositories/repomanager"
)

// SearchResult is one page of matching entries plus the total match count
// ignoring paging, so clients can render page controls.
type SearchResult struct {
	Entries []*models.JournalEntry `json:"entries"`
	Total   int64                  `json:"total"`
	Offset  int                    `json:"offset"`
	Limit   int                    `json:"limit"`
}

// JournalService provides event type and journal entry operations scoped to
// the calling user. Read operations are retried on transient storage errors;
// mutations are never retried, since a timed-out write may still have applied.
type JournalService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	defaultLimit int
	maxLimit     int
}

func NewJournalService(db *sql.DB, m repomanager.RepositoryManager, defaultLimit, maxLimit int) *JournalService {
	return &JournalService{db: db, repomanager: m, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// mapStorageError passes through the domain sentinels and hides everything
// else behind ErrorInternal.
func mapStorageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorAlreadyExists),
		errors.Is(err, common.ErrorValidation):
		return err
	default:
		return common.ErrorInternal
	}
}

func (s *JournalService) CreateEventType(ctx context.Context, userID, name string, tags []string) (*models.EventType, error) {
	if tags == nil {
		tags = []string{}
	}
	eventType := &models.EventType{UserID: userID, Name: name, Tags: tags}

	created, err := s.repomanager.EventTypes(s.db).Create(ctx, eventType)
	if err != nil {
		return nil, mapStorageError(err)
	}
	return created, nil
}

func (s *JournalService) GetEventType(ctx context.Context, userID, id string) (*models.EventType, error) {
	var eventType *models.EventType
	err := dbx.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		eventType, err = s.repomanager.EventTypes(s.db).GetByID(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, mapStorageError(err)
	}
	return eventType, nil
}

func (s *JournalService) ListEventTypes(ctx context.Context, userID string) ([]*models.EventType, error) {
	var eventTypes []*models.EventType
	err := dbx.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		eventTypes, err = s.repomanager.EventTypes(s.db).ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, mapStorageError(err)
	}
	return eventTypes, nil
}

func (s *JournalService) UpdateEventType(ctx context.Context, userID, id, name string, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	eventType := &models.EventType{ID: id, UserID: userID, Name: name, Tags: tags}
	return mapStorageError(s.repomanager.EventTypes(s.db).Update(ctx, eventType))
}

// DeleteEventType removes the event type; the schema cascades the delete to
// every entry referencing it.
func (s *JournalService) DeleteEventType(ctx context.Context, userID, id string) error {
	return mapStorageError(s.repomanager.EventTypes(s.db).Delete(ctx, userID, id))
}

func (s *JournalService) CreateEntry(ctx context.Context, entry *models.JournalEntry) (*models.JournalEntry, error) {
	if entry.Tags == nil {
		entry.Tags = []string{}
	}

	created, err := s.repomanager.Entries(s.db).Create(ctx, entry)
	if err != nil {
		return nil, mapStorageError(err)
	}
	return created, nil
}

func (s *JournalService) GetEntry(ctx context.Context, userID, id string) (*models.JournalEntry, error) {
	var entry *models.JournalEntry
	err := dbx.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.repomanager.Entries(s.db).GetByID(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, mapStorageError(err)
	}
	return entry, nil
}

func (s *JournalService) UpdateEntry(ctx context.Context, entry *models.JournalEntry) error {
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
	return mapStorageError(s.repomanager.Entries(s.db).Update(ctx, entry))
}

func (s *JournalService) DeleteEntry(ctx context.Context, userID, id string) error {
	return mapStorageError(s.repomanager.Entries(s.db).Delete(ctx, userID, id))
}

// Search validates the filter and returns one page of matches plus the total
// count. Page and count run in a single read-only transaction so they observe
// the same snapshot of the journal.
func (s *JournalService) Search(ctx context.Context, userID string, filter *models.SearchFilter) (*SearchResult, error) {
	if err := filter.Normalize(s.defaultLimit, s.maxLimit); err != nil {
		return nil, err
	}

	var result *SearchResult
	err := dbx.WithRetry(ctx, func(ctx context.Context) error {
		return dbx.WithTx(ctx, s.db, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx dbx.DBTX) error {
			repo := s.repomanager.Entries(tx)

			total, err := repo.Count(ctx, userID, filter)
			if err != nil {
				return err
			}

			entries, err := repo.Find(ctx, userID, filter)
			if err != nil {
				return err
			}

			result = &SearchResult{Entries: entries, Total: total, Offset: filter.Offset, Limit: filter.Limit}
			return nil
		})
	})
	if err != nil {
		return nil, mapStorageError(err)
	}

	return result, nil
}
