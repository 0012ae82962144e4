package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/golfcloud/backend/internal/models"
)

// UploadCredentialIssuer presigns direct client uploads.
type UploadCredentialIssuer interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (models.UploadCredential, error)
	PresignFormUpload(ctx context.Context, key, contentType string, maxSize int64, ttl time.Duration) (models.UploadCredential, error)
}

// ObjectStore captures the bucket operations handlers perform server-side.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]models.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

// ReadURLSigner issues short-lived playback and sidecar URLs.
type ReadURLSigner interface {
	SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// VideoStore captures persistence for video metadata rows.
type VideoStore interface {
	Upsert(ctx context.Context, video models.Video) error
	FindByKey(ctx context.Context, key string) (models.Video, error)
	FindByKeys(ctx context.Context, keys []string) ([]models.Video, error)
	UpdateRating(ctx context.Context, key string, rating int) error
	UpdateClub(ctx context.Context, key, club string) error
	DeleteByKey(ctx context.Context, key string) error
	ListVisibleTo(ctx context.Context, userID, email string) ([]models.Video, error)
}

// GrantStore captures persistence for coach access grants.
type GrantStore interface {
	Grant(ctx context.Context, grant models.AccessGrant) error
	Revoke(ctx context.Context, playerID, coachEmail string) error
	ListForPlayer(ctx context.Context, playerID string) ([]models.AccessGrant, error)
}

// SessionReader resolves the caller's identity from the provider session.
type SessionReader interface {
	SessionFromRequest(r *http.Request) (models.Session, error)
}
