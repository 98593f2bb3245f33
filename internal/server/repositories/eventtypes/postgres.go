// Package eventtypes persists user-defined event type definitions. Every
// query carries the owner's user_id in its predicate, so rows belonging to
// other users are invisible rather than forbidden.
package eventtypes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

// Create inserts a new event type. The per-user name uniqueness is enforced by
// the (user_id, name) constraint, so a duplicate surfaces as
// common.ErrorAlreadyExists even under concurrent inserts.
func (r *PostgresRepository) Create(ctx context.Context, eventType *models.EventType) (*models.EventType, error) {

	query :=
		`INSERT INTO event_types (user_id, name, tags)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		eventType.UserID, eventType.Name, eventType.Tags).Scan(&eventType.ID)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return eventType, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string, id string) (*models.EventType, error) {
	query :=
		`SELECT id, user_id, name, tags FROM event_types
		 WHERE id = $2 AND user_id = $1
		 `

	eventType := &models.EventType{}
	err := r.db.QueryRowContext(ctx, query, userID, id).
		Scan(&eventType.ID, &eventType.UserID, &eventType.Name, dbx.TextArray(&eventType.Tags))

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return eventType, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.EventType, error) {
	query :=
		`SELECT id, user_id, name, tags FROM event_types
		 WHERE user_id = $1
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.EventType{}
	for rows.Next() {
		eventType := &models.EventType{}
		if err := rows.Scan(&eventType.ID, &eventType.UserID, &eventType.Name, dbx.TextArray(&eventType.Tags)); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, eventType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, eventType *models.EventType) error {
	query :=
		`UPDATE event_types SET name = $3, tags = $4
		 WHERE id = $2 AND user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		eventType.UserID, eventType.ID, eventType.Name, eventType.Tags)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
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

// Delete removes the event type and, via the foreign key cascade, every
// journal entry that references it.
func (r *PostgresRepository) Delete(ctx context.Context, userID string, id string) error {
	query :=
		`DELETE FROM event_types
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
