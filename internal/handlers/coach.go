package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/golfcloud/backend/internal/logging"
	"github.com/golfcloud/backend/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CoachHandler manages coach access grants and the coach's video view.
type CoachHandler struct {
	Grants     GrantStore
	VideoStore VideoStore
	Sessions   SessionReader
	NowFunc    func() time.Time
}

type coachEmailRequest struct {
	CoachEmail string `json:"coachEmail"`
}

type grantResponse struct {
	ID         string    `json:"id"`
	CoachEmail string    `json:"coach_email"`
	CreatedAt  time.Time `json:"created_at"`
}

// Share handles POST /api/v1/coach/share. Sharing with the same coach twice
// succeeds without creating a second grant.
func (h CoachHandler) Share(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	session, err := h.Sessions.SessionFromRequest(r)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, errorBody("Unauthorized"))
		return
	}

	var req coachEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid share payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.CoachEmail))
	if !emailPattern.MatchString(email) {
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("Invalid email"))
		return
	}

	grant := models.AccessGrant{
		ID:         uuid.NewString(),
		PlayerID:   session.UserID,
		CoachEmail: email,
		CreatedAt:  nowOr(h.NowFunc),
	}

	if err := h.Grants.Grant(ctx, grant); err != nil {
		logger.Error("share with coach failed", "coachEmail", email, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("Failed to share access"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, okBody())
}

// List handles GET /api/v1/coach/list: the caller's grants, newest first.
func (h CoachHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	session, err := h.Sessions.SessionFromRequest(r)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, errorBody("Unauthorized"))
		return
	}

	grants, err := h.Grants.ListForPlayer(ctx, session.UserID)
	if err != nil {
		logging.FromContext(ctx).Error("list coach grants failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("Failed to list coaches"))
		return
	}

	coaches := make([]grantResponse, 0, len(grants))
	for _, grant := range grants {
		coaches = append(coaches, grantResponse{
			ID:         grant.ID,
			CoachEmail: grant.CoachEmail,
			CreatedAt:  grant.CreatedAt,
		})
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]grantResponse{"coaches": coaches})
}

// Revoke handles POST /api/v1/coach/revoke. Revoking a grant that does not
// exist is a silent no-op.
func (h CoachHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := logging.FromContext(ctx)

	session, err := h.Sessions.SessionFromRequest(r)
	if err != nil {
		respondJSON(ctx, w, http.StatusUnauthorized, errorBody("Unauthorized"))
		return
	}

	var req coachEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid revoke payload", "error", err)
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.CoachEmail))
	if email == "" {
		respondJSON(ctx, w, http.StatusBadRequest, errorBody("Missing coachEmail"))
		return
	}

	if err := h.Grants.Revoke(ctx, session.UserID, email); err != nil {
		logger.Error("revoke coach access failed", "coachEmail", email, "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("Failed to revoke access"))
		return
	}

	respondJSON(ctx, w, http.StatusOK, okBody())
}

type coachVideoResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Rating    *int      `json:"rating"`
	OwnerID   string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Videos handles GET /api/v1/coach/videos: the union of the caller's own
// videos and the videos of every player that granted the caller's email
// access, newest first. Recomputed on every request.
func (h CoachHandler) Videos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	session, err := h.Sessions.SessionFromRequest(r)
	if err != nil {
		respondJSON(ctx, w, http.StatusOK, map[string][]coachVideoResponse{"videos": {}})
		return
	}

	rows, err := h.VideoStore.ListVisibleTo(ctx, session.UserID, session.Email)
	if err != nil {
		logging.FromContext(ctx).Error("list visible videos failed", "error", err)
		respondJSON(ctx, w, http.StatusInternalServerError, errorBody("Failed to load videos"))
		return
	}

	videos := make([]coachVideoResponse, 0, len(rows))
	for _, row := range rows {
		name := row.Name
		if name == "" {
			name = row.Key
		}
		videos = append(videos, coachVideoResponse{
			ID:        row.ID,
			Name:      name,
			Key:       row.Key,
			URL:       row.URL,
			Rating:    row.Rating,
			OwnerID:   row.OwnerID,
			CreatedAt: row.CreatedAt,
		})
	}

	respondJSON(ctx, w, http.StatusOK, map[string][]coachVideoResponse{"videos": videos})
}
