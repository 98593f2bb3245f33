package eventtypes

import (
	"context"

	"github.com/rosvit/journal-backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, eventType *models.EventType) (*models.EventType, error)
	GetByID(ctx context.Context, userID string, id string) (*models.EventType, error)
	ListByUser(ctx context.Context, userID string) ([]*models.EventType, error)
	Update(ctx context.Context, eventType *models.EventType) error
	Delete(ctx context.Context, userID string, id string) error
}
