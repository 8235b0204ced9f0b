package handlers

import (
	"net/http"
	"time"

	"git.home.luguber.info/inful/blockmark/internal/server/responses"
	"git.home.luguber.info/inful/blockmark/internal/version"
)

// HealthHandler answers GET /healthz.
func HealthHandler(started time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_ = writeJSON(w, http.StatusOK, responses.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC(),
			Version:   version.Version,
			Uptime:    time.Since(started).Seconds(),
		})
	}
}
