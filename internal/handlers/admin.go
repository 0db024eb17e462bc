package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"prontoticket/internal/backend"
	"prontoticket/internal/services"
)

// AdminHandler serves the admin dashboard aggregates.
type AdminHandler struct {
	analyticsService services.AnalyticsServiceInterface
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(analyticsService services.AnalyticsServiceInterface) *AdminHandler {
	return &AdminHandler{analyticsService: analyticsService}
}

// Dashboard serves the platform-wide headline numbers and chart series.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.analyticsService.DashboardStats(r.Context()))
}

// EventStats serves the per-event sales numbers.
func (h *AdminHandler) EventStats(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	stats, err := h.analyticsService.EventStats(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		writeError(w, http.StatusBadGateway, "Failed to load event stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
