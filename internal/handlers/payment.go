package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"prontoticket/internal/middleware"
	"prontoticket/internal/services"
)

// PaymentHandler handles the redirects back from the payment provider.
type PaymentHandler struct {
	confirmationService services.ConfirmationServiceInterface
	store               sessions.Store
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(confirmationService services.ConfirmationServiceInterface, store sessions.Store) *PaymentHandler {
	return &PaymentHandler{
		confirmationService: confirmationService,
		store:               store,
	}
}

// Success handles the provider's success redirect. The transaction id in the
// URL is the payment confirmation; it is consumed exactly once, so reloading
// the page replays the recorded outcome instead of issuing tickets again.
func (h *PaymentHandler) Success(w http.ResponseWriter, r *http.Request) {
	confirmation := chi.URLParam(r, "transactionId")

	outcome, err := h.confirmationService.Complete(r.Context(), confirmation)
	if err != nil {
		if errors.Is(err, services.ErrMissingConfirmation) {
			writeError(w, http.StatusBadRequest, "Missing confirmation id")
			return
		}
		log.Printf("Payment confirmation %s failed: %v", confirmation, err)
		writeError(w, http.StatusInternalServerError, "Failed to process confirmation")
		return
	}

	// Drop any lingering checkout id from the session; the purchase is done.
	if session, err := h.store.Get(r, middleware.SessionName); err == nil {
		if _, ok := session.Values[checkoutSessionKey]; ok {
			delete(session.Values, checkoutSessionKey)
			session.Save(r, w)
		}
	}

	if !outcome.Succeeded {
		writeJSON(w, http.StatusBadGateway, outcome)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// Failed handles the provider's cancellation redirect. The checkout session
// is left intact so the visitor can try again.
func (h *PaymentHandler) Failed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "failed",
		"message": "Payment was not completed. Your checkout is still available.",
	})
}
