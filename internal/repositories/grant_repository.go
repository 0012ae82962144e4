package repositories

import (
	"context"

	"github.com/golfcloud/backend/internal/models"
)

// GrantRepository defines data access for coach access grants.
type GrantRepository interface {
	Grant(ctx context.Context, grant models.AccessGrant) error
	Revoke(ctx context.Context, playerID, coachEmail string) error
	ListForPlayer(ctx context.Context, playerID string) ([]models.AccessGrant, error)
}
