package handlers

import (
	"net/http"
	"strconv"

	"github.com/mwestby/projtrack/internal/services"
	"github.com/rs/zerolog/log"
)

// ActivityHandler handles HTTP requests for the activity log.
type ActivityHandler struct {
	service services.ActivityServiceProvider
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(service services.ActivityServiceProvider) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// GetRecent returns the most recent activity entries. Admin only.
func (h *ActivityHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 20 // Default limit
	}

	activities, err := h.service.GetRecent(limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve activity")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, activities)
}
