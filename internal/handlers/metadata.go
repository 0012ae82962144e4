package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/golfcloud/backend/internal/logging"
	"github.com/golfcloud/backend/internal/models"
	"github.com/golfcloud/backend/internal/repositories"
)

// MetadataHandler reads and writes per-video metadata rows.
type MetadataHandler struct {
	Videos   VideoStore
	Sessions SessionReader
	NowFunc  func() time.Time
}

type metadataPayload struct {
	Key       string    `json:"key"`
	Name      string    `json:"name,omitempty"`
	Rating    *int      `json:"rating"`
	Club      string    `json:"club,omitempty"`
	ShotType  string    `json:"shotType,omitempty"`
	Tags      []string  `json:"tags"`
	Notes     string    `json:"notes"`
	Favorite  bool      `json:"favorite"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func metadataFromVideo(video models.Video) metadataPayload {
	tags := video.Tags
	if tags == nil {
		tags = []string{}
	}
	return metadataPayload{
		Key:       video.Key,
		Name:      video.Name,
		Rating:    video.Rating,
		Club:      video.Club,
		ShotType:  video.ShotType,
		Tags:      tags,
		Notes:     video.Notes,
		Favorite:  video.Favorite,
		UpdatedAt: video.UpdatedAt,
	}
}

// Handle dispatches /api/v1/videos/metadata by method: GET reads, POST is a
// full overwrite, DELETE removes the row (never the stored object).
func (h MetadataHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.save(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h MetadataHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("Missing key"))
		return
	}

	video, err := h.Videos.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, errorBody("No metadata yet"))
			return
		}
		logging.FromContext(ctx).Error("load metadata failed", "key", key, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("Failed to load metadata"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, metadataFromVideo(video))
}

func (h MetadataHandler) save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	session, err := h.Sessions.SessionFromRequest(r)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, errorBody("Unauthorized"))
		return
	}

	var req metadataPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid metadata payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	req.Key = strings.TrimSpace(req.Key)
	if req.Key == "" {
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("Missing key"))
		return
	}

	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 10) {
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("Rating must be 1–10"))
		return
	}

	now := nowOr(h.NowFunc)
	video := models.Video{
		ID:        uuid.NewString(),
		OwnerID:   session.UserID,
		Name:      req.Name,
		Key:       req.Key,
		Rating:    req.Rating,
		Club:      req.Club,
		ShotType:  req.ShotType,
		Notes:     req.Notes,
		Favorite:  req.Favorite,
		Tags:      req.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.Videos.Upsert(ctx, video); err != nil {
		logger.Error("save metadata failed", "key", req.Key, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("Failed to save metadata"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, okBody())
}

func (h MetadataHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := h.Sessions.SessionFromRequest(r); err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, errorBody("Unauthorized"))
		return
	}

	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("Missing key"))
		return
	}

	if err := h.Videos.DeleteByKey(ctx, key); err != nil {
		logging.FromContext(ctx).Error("delete metadata failed", "key", key, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("Failed to delete metadata"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, okBody())
}

type rateRequest struct {
	Key    string `json:"key"`
	Rating *int   `json:"rating"`
}

// Rate handles POST /api/v1/videos/rate: a column-level update that leaves
// every other metadata field untouched.
func (h MetadataHandler) Rate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid rate payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	req.Key = strings.TrimSpace(req.Key)
	if req.Key == "" || req.Rating == nil {
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("Missing key or rating"))
		return
	}
	if *req.Rating < 1 || *req.Rating > 10 {
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("Rating must be 1–10"))
		return
	}

	if err := h.Videos.UpdateRating(ctx, req.Key, *req.Rating); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, errorBody("No metadata yet"))
			return
		}
		logger.Error("update rating failed", "key", req.Key, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("Failed to save rating"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, okBody())
}

type clubRequest struct {
	Key  string `json:"key"`
	Club string `json:"club"`
}

// SetClub handles POST /api/v1/videos/club, the column-level club update.
func (h MetadataHandler) SetClub(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	var req clubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid club payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	req.Key = strings.TrimSpace(req.Key)
	if req.Key == "" {
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("Missing key"))
		return
	}

	if err := h.Videos.UpdateClub(ctx, req.Key, req.Club); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondJSON(ctx, w, http.StatusNotFound, errorBody("No metadata yet"))
			return
		}
		logger.Error("update club failed", "key", req.Key, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("Failed to save club"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, okBody())
}
