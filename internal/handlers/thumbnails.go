package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golfcloud/backend/internal/logging"
	"github.com/golfcloud/backend/internal/storage"
)

// ThumbnailHandler stores client-generated thumbnails next to their videos.
type ThumbnailHandler struct {
	Objects ObjectStore
}

type thumbnailRequest struct {
	Key     string `json:"key"`
	DataURL string `json:"dataUrl"`
}

// Upload handles POST /api/v1/thumbnails. The payload carries a base64 JPEG
// data URL captured from the first decoded frame; it is stored under the
// <key>.thumb.jpg sidecar convention.
func (h ThumbnailHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req thumbnailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid thumbnail payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	req.Key = strings.TrimSpace(req.Key)
	if req.Key == "" || req.DataURL == "" {
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("Missing key or dataUrl"))
		return
	}

	encoded := req.DataURL
	if idx := strings.Index(encoded, "base64,"); idx >= 0 {
		encoded = encoded[idx+len("base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		logger.Warn("invalid thumbnail encoding", "key", req.Key, "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("dataUrl is not valid base64"))
		return
	}

	thumbKey := storage.ThumbKey(req.Key)
	if _, err := h.Objects.Put(ctx, thumbKey, "image/jpeg", bytes.NewReader(data)); err != nil {
		logger.Error("thumbnail upload failed", "key", thumbKey, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("Upload failed"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, okBody())
}
