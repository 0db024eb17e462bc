package handlers

import (
	"log"
	"net/http"

	"prontoticket/internal/middleware"
	"prontoticket/internal/models"
	"prontoticket/internal/services"
)

// ProfileHandler serves the signed-in user's profile.
type ProfileHandler struct {
	profileService services.ProfileServiceInterface
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService services.ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Show serves the profile with the user's upcoming and past events.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	data, err := h.profileService.Profile(r.Context(), user.ID)
	if err != nil {
		log.Printf("Failed to load profile for user %s: %v", user.ID, err)
		writeError(w, http.StatusBadGateway, "Failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// Update pushes edited profile fields to the backend.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req models.UserUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.profileService.UpdateProfile(r.Context(), user.ID, req); err != nil {
		log.Printf("Failed to update profile for user %s: %v", user.ID, err)
		writeError(w, http.StatusBadGateway, "Failed to update profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
