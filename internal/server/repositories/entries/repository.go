package entries

import (
	"context"

	"github.com/rosvit/journal-backend/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, entry *models.JournalEntry) (*models.JournalEntry, error)
	GetByID(ctx context.Context, userID string, id string) (*models.JournalEntry, error)
	Update(ctx context.Context, entry *models.JournalEntry) error
	Delete(ctx context.Context, userID string, id string) error
	Count(ctx context.Context, userID string, filter *models.SearchFilter) (int64, error)
	Find(ctx context.Context, userID string, filter *models.SearchFilter) ([]*models.JournalEntry, error)
}
