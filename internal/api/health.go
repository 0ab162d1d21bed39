// Package api provides HTTP handlers for the Kindred REST API.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kindredlabs/kindred/internal/events"
	"github.com/kindredlabs/kindred/internal/store"
)

// HealthHandler provides the health endpoint.
type HealthHandler struct {
	qdrant    *store.Client
	users     *store.UserStore
	events    *events.Client
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler. eventsClient may be nil.
func NewHealthHandler(qdrant *store.Client, users *store.UserStore, eventsClient *events.Client) *HealthHandler {
	return &HealthHandler{
		qdrant:    qdrant,
		users:     users,
		events:    eventsClient,
		startTime: time.Now(),
	}
}

// Health returns the service health status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	qdrantStatus := "connected"
	if err := h.qdrant.HealthCheck(ctx); err != nil {
		qdrantStatus = "disconnected"
	}

	eventsStatus := "disconnected"
	if h.events != nil && h.events.IsConnected() {
		eventsStatus = "connected"
	}

	userCount, _ := h.users.Count(ctx)

	resp := map[string]any{
		"status":         "healthy",
		"qdrant":         qdrantStatus,
		"events":         eventsStatus,
		"user_count":     userCount,
		"uptime_seconds": int(time.Since(h.startTime).Seconds()),
	}

	if qdrantStatus == "disconnected" {
		resp["status"] = "degraded"
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response with a detail message.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
