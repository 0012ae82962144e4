package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golfcloud/backend/internal/logging"
	"github.com/golfcloud/backend/internal/storage"
)

// ObjectHandler performs server-side bucket operations on behalf of clients.
type ObjectHandler struct {
	Objects ObjectStore
}

type deleteObjectRequest struct {
	Key string `json:"key"`
}

// Delete handles POST /api/v1/objects/delete. It removes exactly the named
// key; metadata rows and sidecar objects under the same base key are left in
// place, which can strand them (logged for reconciliation).
func (h ObjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req deleteObjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid delete payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	req.Key = strings.TrimSpace(req.Key)
	if req.Key == "" {
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("Missing key"))
		return
	}

	if err := h.Objects.Delete(ctx, req.Key); err != nil {
		logger.Error("delete object failed", "key", req.Key, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("Failed to delete video"))
		return
	}

	if !storage.IsSidecarKey(req.Key) {
		logger.Info("video deleted, sidecars not cascaded", "key", req.Key, "thumbKey", storage.ThumbKey(req.Key))
	}

	respondJSON(ctx, w, http.StatusOK, okBody())
}
