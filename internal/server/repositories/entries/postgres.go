// Package entries persists journal entries and implements the entry search.
// As with event types, the owner's user_id appears in every predicate.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rosvit/journal-backend/internal/common"
	"github.com/rosvit/journal-backend/internal/dbx"
	"github.com/rosvit/journal-backend/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts an entry for the given event type. The insert selects the
// event type row in the same statement, keyed on both id and owner, so a
// missing or foreign event type yields zero rows and there is no window for a
// concurrent event type delete between a check and the insert. CreatedAt left
// at its zero value lets the database assign now().
func (r *PostgresRepository) Create(ctx context.Context, entry *models.JournalEntry) (*models.JournalEntry, error) {

	var err error
	if entry.CreatedAt.IsZero() {
		query :=
			`INSERT INTO journal_entries (user_id, event_type_id, description, tags)
			 SELECT et.user_id, et.id, $3, $4
			 FROM event_types et
			 WHERE et.id = $2 AND et.user_id = $1
			 RETURNING id, created_at
			 `
		err = r.db.QueryRowContext(ctx, query,
			entry.UserID, entry.EventTypeID, entry.Description, entry.Tags).
			Scan(&entry.ID, &entry.CreatedAt)
	} else {
		query :=
			`INSERT INTO journal_entries (user_id, event_type_id, description, tags, created_at)
			 SELECT et.user_id, et.id, $3, $4, $5
			 FROM event_types et
			 WHERE et.id = $2 AND et.user_id = $1
			 RETURNING id, created_at
			 `
		err = r.db.QueryRowContext(ctx, query,
			entry.UserID, entry.EventTypeID, entry.Description, entry.Tags, entry.CreatedAt).
			Scan(&entry.ID, &entry.CreatedAt)
	}

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// event type absent or owned by someone else
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string, id string) (*models.JournalEntry, error) {
	query :=
		`SELECT id, user_id, event_type_id, description, tags, created_at FROM journal_entries
		 WHERE id = $2 AND user_id = $1
		 `

	entry := &models.JournalEntry{}
	err := r.db.QueryRowContext(ctx, query, userID, id).
		Scan(&entry.ID, &entry.UserID, &entry.EventTypeID, &entry.Description,
			dbx.TextArray(&entry.Tags), &entry.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) Update(ctx context.Context, entry *models.JournalEntry) error {
	query :=
		`UPDATE journal_entries SET description = $3, tags = $4
		 WHERE id = $2 AND user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		entry.UserID, entry.ID, entry.Description, entry.Tags)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string, id string) error {
	query :=
		`DELETE FROM journal_entries
		 WHERE id = $2 AND user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// Count returns the number of entries matching the filter, ignoring paging.
func (r *PostgresRepository) Count(ctx context.Context, userID string, filter *models.SearchFilter) (int64, error) {
	where, args := buildConditions(userID, filter)
	query := "SELECT count(*) FROM journal_entries WHERE " + where

	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return total, nil
}

// Find returns one page of entries matching the filter, ordered by created_at
// in the requested direction with id as a deterministic tie-break.
func (r *PostgresRepository) Find(ctx context.Context, userID string, filter *models.SearchFilter) ([]*models.JournalEntry, error) {
	where, args := buildConditions(userID, filter)

	var b strings.Builder
	b.WriteString("SELECT id, user_id, event_type_id, description, tags, created_at FROM journal_entries WHERE ")
	b.WriteString(where)
	fmt.Fprintf(&b, " ORDER BY created_at %s, id ASC", filter.Sort)
	fmt.Fprintf(&b, " LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.JournalEntry{}
	for rows.Next() {
		entry := &models.JournalEntry{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.EventTypeID, &entry.Description,
			dbx.TextArray(&entry.Tags), &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// buildConditions assembles the shared WHERE clause for Count and Find so the
// two stay consistent. Every present filter field adds one AND condition; tags
// use the array overlap operator, so one shared tag is enough to match.
func buildConditions(userID string, filter *models.SearchFilter) (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	next := func() int { return len(args) + 1 }

	if filter.EventTypeID != "" {
		conditions = append(conditions, fmt.Sprintf("event_type_id = $%d", next()))
		args = append(args, filter.EventTypeID)
	}
	if len(filter.Tags) > 0 {
		conditions = append(conditions, fmt.Sprintf("tags && $%d", next()))
		args = append(args, filter.Tags)
	}
	if filter.Description != "" {
		conditions = append(conditions, fmt.Sprintf("description ILIKE $%d", next()))
		args = append(args, "%"+escapeLike(filter.Description)+"%")
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", next()))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", next()))
		args = append(args, *filter.To)
	}

	return strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
