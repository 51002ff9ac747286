package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"spadewatch/internal/watcher"
)

// StatusSource is what the handlers read from; *watcher.Board satisfies it.
type StatusSource interface {
	Snapshot() watcher.Status
	Ready() bool
}

type handlers struct {
	logger *zap.Logger
	source StatusSource
}

// serveStatus responds with the watcher's latest status in JSON.
func (h *handlers) serveStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.source.Snapshot())
}

// serveHealth is 200 once the first tick has finished, 503 before.
func (h *handlers) serveHealth(w http.ResponseWriter, r *http.Request) {
	if !h.source.Ready() {
		writeJSON(w, h.logger, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write response", zap.Error(err))
	}
}

// WithCORS allows browser dashboards on other origins to read the API.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
