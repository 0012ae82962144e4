package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golfcloud/backend/internal/logging"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status, "response", payload)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status, "response", payload)
	}
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

func okBody() map[string]bool {
	return map[string]bool{"ok": true}
}

func nowOr(nowFunc func() time.Time) time.Time {
	if nowFunc != nil {
		return nowFunc()
	}
	return time.Now().UTC()
}
