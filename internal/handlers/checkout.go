package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"prontoticket/internal/backend"
	"prontoticket/internal/middleware"
	"prontoticket/internal/models"
	"prontoticket/internal/services"
)

// checkoutSessionKey is the session value holding the active checkout id.
const checkoutSessionKey = "checkout_id"

// CheckoutHandler drives the ticket purchase flow. The visitor's active
// checkout id lives in the cookie session; the checkout state itself lives in
// the checkout service.
type CheckoutHandler struct {
	checkoutService services.CheckoutServiceInterface
	store           sessions.Store
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService services.CheckoutServiceInterface, store sessions.Store) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		store:           store,
	}
}

// Begin starts a checkout for the event in the URL. An earlier unfinished
// checkout is discarded. Signed-in users get their contact details prefilled
// and locked.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	user := middleware.GetUserFromContext(r.Context())

	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Session error")
		return
	}

	if previous, ok := session.Values[checkoutSessionKey].(string); ok && previous != "" {
		h.checkoutService.Abandon(previous)
	}

	view, err := h.checkoutService.Begin(r.Context(), eventID, user)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Printf("Failed to begin checkout for event %s: %v", eventID, err)
		writeError(w, http.StatusBadGateway, "Failed to load checkout")
		return
	}

	session.Values[checkoutSessionKey] = view.ID
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "Session error")
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// View serves the current checkout state.
func (h *CheckoutHandler) View(w http.ResponseWriter, r *http.Request) {
	checkoutID, ok := h.checkoutID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "No active checkout")
		return
	}

	view, err := h.checkoutService.View(checkoutID)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// UpdateTickets sets the quantity for one ticket type.
func (h *CheckoutHandler) UpdateTickets(w http.ResponseWriter, r *http.Request) {
	checkoutID, ok := h.checkoutID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "No active checkout")
		return
	}

	var req struct {
		TicketTypeID string `json:"ticketTypeId"`
		Quantity     int    `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TicketTypeID == "" {
		writeError(w, http.StatusBadRequest, "Missing ticket type id")
		return
	}

	view, err := h.checkoutService.SetQuantity(checkoutID, req.TicketTypeID, req.Quantity)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// UpdateBuyer sets the buyer contact details and promo code.
func (h *CheckoutHandler) UpdateBuyer(w http.ResponseWriter, r *http.Request) {
	checkoutID, ok := h.checkoutID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "No active checkout")
		return
	}

	var req struct {
		models.BuyerDetails
		PromoCode string `json:"promoCode"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.checkoutService.UpdateBuyer(checkoutID, req.BuyerDetails, req.PromoCode)
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Submit sends the purchase to the payment provider and returns the redirect
// link.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	checkoutID, ok := h.checkoutID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "No active checkout")
		return
	}

	redirectURL, err := h.checkoutService.Submit(r.Context(), checkoutID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCheckoutNotFound):
			writeError(w, http.StatusNotFound, "No active checkout")
		case errors.Is(err, services.ErrSubmitInFlight):
			writeError(w, http.StatusConflict, "A submission is already in progress")
		case errors.Is(err, services.ErrCheckoutCompleted):
			writeError(w, http.StatusConflict, "Checkout has already completed")
		case errors.Is(err, services.ErrNoTicketsSelected):
			writeError(w, http.StatusUnprocessableEntity, "No tickets selected")
		default:
			log.Printf("Checkout %s submission failed: %v", checkoutID, err)
			writeError(w, http.StatusBadGateway, "Payment submission failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"redirectUrl": redirectURL})
}

// Abandon discards the current checkout.
func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Session error")
		return
	}

	if checkoutID, ok := session.Values[checkoutSessionKey].(string); ok && checkoutID != "" {
		h.checkoutService.Abandon(checkoutID)
	}
	delete(session.Values, checkoutSessionKey)
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "Session error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// checkoutID reads the active checkout id from the cookie session.
func (h *CheckoutHandler) checkoutID(r *http.Request) (string, bool) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		return "", false
	}
	checkoutID, ok := session.Values[checkoutSessionKey].(string)
	return checkoutID, ok && checkoutID != ""
}

func (h *CheckoutHandler) writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCheckoutNotFound):
		writeError(w, http.StatusNotFound, "No active checkout")
	case errors.Is(err, services.ErrSubmitInFlight):
		writeError(w, http.StatusConflict, "A submission is already in progress")
	case errors.Is(err, services.ErrCheckoutCompleted):
		writeError(w, http.StatusConflict, "Checkout has already completed")
	case errors.Is(err, services.ErrUnknownTicketType):
		writeError(w, http.StatusUnprocessableEntity, "Unknown ticket type for this event")
	default:
		log.Printf("Checkout operation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Checkout operation failed")
	}
}
