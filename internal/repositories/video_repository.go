package repositories

import (
	"context"

	"github.com/golfcloud/backend/internal/models"
)

// VideoRepository exposes data access for video metadata rows.
type VideoRepository interface {
	Upsert(ctx context.Context, video models.Video) error
	FindByKey(ctx context.Context, key string) (models.Video, error)
	FindByKeys(ctx context.Context, keys []string) ([]models.Video, error)
	UpdateRating(ctx context.Context, key string, rating int) error
	UpdateClub(ctx context.Context, key, club string) error
	DeleteByKey(ctx context.Context, key string) error
	ListVisibleTo(ctx context.Context, userID, email string) ([]models.Video, error)
}
