package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"prontoticket/internal/backend"
	"prontoticket/internal/models"
	"prontoticket/internal/services"
)

// EventDetailFetcher is the slice of the backend API the event detail page
// needs.
type EventDetailFetcher interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetTicketTypes(ctx context.Context, eventID string) ([]models.TicketType, error)
}

// CatalogHandler serves the browsable event catalog.
type CatalogHandler struct {
	catalogService services.CatalogServiceInterface
	events         EventDetailFetcher
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService services.CatalogServiceInterface, events EventDetailFetcher) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		events:         events,
	}
}

// ListEvents serves one page of upcoming events, optionally filtered by a
// search term. Page numbers outside the valid range are clamped.
func (h *CatalogHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	searchTerm := r.URL.Query().Get("q")

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid page number")
			return
		}
		page = parsed
	}

	result := h.catalogService.BrowsePage(r.Context(), searchTerm, page)
	writeJSON(w, http.StatusOK, result)
}

// GetEvent serves a single event with its ticket types.
func (h *CatalogHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	event, err := h.events.GetEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Printf("Failed to load event %s: %v", eventID, err)
		writeError(w, http.StatusBadGateway, "Failed to load event")
		return
	}

	ticketTypes, err := h.events.GetTicketTypes(r.Context(), eventID)
	if err != nil {
		log.Printf("Failed to load ticket types for event %s: %v", eventID, err)
		writeError(w, http.StatusBadGateway, "Failed to load ticket types")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"event":       event,
		"ticketTypes": ticketTypes,
	})
}
