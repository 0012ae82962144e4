package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golfcloud/backend/internal/logging"
	"github.com/golfcloud/backend/internal/storage"
)

// UploadHandler issues presigned upload credentials.
type UploadHandler struct {
	Storage UploadCredentialIssuer
	Limiter RateLimiter

	VideoPrefix   string
	MaxUploadSize int64
	PutTTL        time.Duration
	FormTTL       time.Duration
	NowFunc       func() time.Time
}

type presignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	UserID      string `json:"userId"`

	// Flat-variant aliases accepted for backwards compatibility.
	Name string `json:"name"`
	Type string `json:"type"`
}

func (req *presignRequest) normalize() {
	if req.Filename == "" {
		req.Filename = req.Name
	}
	if req.ContentType == "" {
		req.ContentType = req.Type
	}
	req.Filename = strings.TrimSpace(req.Filename)
	req.ContentType = strings.TrimSpace(req.ContentType)
	req.UserID = strings.TrimSpace(req.UserID)
}

type presignResponse struct {
	UploadURL string            `json:"uploadUrl"`
	Key       string            `json:"key"`
	PublicURL string            `json:"publicUrl,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// Presign handles POST /api/v1/uploads/presign. It derives a collision-free
// storage key and returns a direct-PUT credential valid for ten minutes.
func (h UploadHandler) Presign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "presign") {
		respondJSON(ctx, w, http.StatusTooManyRequests, errorBody("too many upload requests"))
		return
	}

	var req presignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid presign payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	req.normalize()

	if req.Filename == "" || req.ContentType == "" {
		logger.Warn("presign missing fields", "filename", req.Filename, "contentType", req.ContentType)
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("filename and contentType are required"))
		return
	}

	now := nowOr(h.NowFunc)
	var key string
	if req.UserID != "" {
		key = storage.DeriveUserKey(req.UserID, req.Filename, now)
	} else {
		key = storage.DeriveFlatKey(h.VideoPrefix, req.Filename, now)
	}

	cred, err := h.Storage.PresignUpload(ctx, key, req.ContentType, h.PutTTL)
	if err != nil {
		logger.Error("presign upload failed", "key", key, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("failed to create upload URL"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, presignResponse{
		UploadURL: cred.URL,
		Key:       cred.Key,
		PublicURL: cred.PublicURL,
		ExpiresAt: cred.ExpiresAt,
	})
}

// PresignForm handles POST /api/v1/uploads/form. The returned credential is
// a browser form POST valid for sixty seconds, constrained to the declared
// content type and the configured maximum size.
func (h UploadHandler) PresignForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "presign-form") {
		respondJSON(ctx, w, http.StatusTooManyRequests, errorBody("too many upload requests"))
		return
	}

	var req presignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid form presign payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	req.normalize()

	if req.Filename == "" || req.ContentType == "" || req.UserID == "" {
		logger.Warn("form presign missing fields", "filename", req.Filename, "contentType", req.ContentType, "userId", req.UserID)
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("Missing filename, contentType, or userId"))
		return
	}

	key := storage.DeriveUserKey(req.UserID, req.Filename, nowOr(h.NowFunc))

	cred, err := h.Storage.PresignFormUpload(ctx, key, req.ContentType, h.MaxUploadSize, h.FormTTL)
	if err != nil {
		logger.Error("presign form upload failed", "key", key, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("failed to presign"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, presignResponse{
		UploadURL: cred.URL,
		Key:       cred.Key,
		PublicURL: cred.PublicURL,
		Fields:    cred.Fields,
		ExpiresAt: cred.ExpiresAt,
	})
}
