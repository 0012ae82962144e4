package app

import (
	"context"
	"fmt"

	"github.com/golfcloud/backend/internal/authgate"
	"github.com/golfcloud/backend/internal/config"
	"github.com/golfcloud/backend/internal/db"
	"github.com/golfcloud/backend/internal/handlers"
	"github.com/golfcloud/backend/internal/middleware"
	"github.com/golfcloud/backend/internal/repositories"
	"github.com/golfcloud/backend/internal/storage"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. Every client is constructed here and injected; nothing hides in
// package-level state.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	gateway, err := storage.NewS3Gateway(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, fmt.Errorf("configure object storage: %w", err)
	}

	sessions, err := authgate.NewReader(cfg.Auth)
	if err != nil {
		return handlers.Dependencies{}, fmt.Errorf("configure auth gate: %w", err)
	}

	limiter := middleware.NewIPRateLimiter(cfg.PresignRateLimit, cfg.PresignRateWindow, cfg.PresignRateBurst, 0)

	return handlers.Dependencies{
		Uploads:  gateway,
		Objects:  gateway,
		Signer:   storage.NewCachingSigner(gateway),
		Videos:   repositories.NewPostgresVideoRepository(pool),
		Grants:   repositories.NewPostgresGrantRepository(pool),
		Sessions: sessions,
		Limiter:  limiter,

		VideoPrefix:    cfg.ObjectStore.VideoPrefix,
		MaxUploadSize:  cfg.ObjectStore.MaxUploadSize,
		UploadPutTTL:   cfg.UploadPutTTL,
		UploadFormTTL:  cfg.UploadFormTTL,
		VideoReadTTL:   cfg.VideoReadTTL,
		SidecarReadTTL: cfg.SidecarReadTTL,
	}, nil
}
