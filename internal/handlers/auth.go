package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/sessions"

	"prontoticket/internal/middleware"
	"prontoticket/internal/models"
	"prontoticket/internal/services"
)

// AuthHandler handles sign in, sign up and sign out.
type AuthHandler struct {
	authService services.AuthServiceInterface
	store       sessions.Store
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService services.AuthServiceInterface, store sessions.Store) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       store,
	}
}

// SignIn exchanges credentials for a session.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("Sign in failed for %s: %v", req.Email, err)
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Session error")
		return
	}
	session.Values["user"] = user
	session.Values["token"] = token
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "Session error")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// SignUp registers a new account. The client signs in afterwards.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.SignUp(r.Context(), req); err != nil {
		log.Printf("Sign up failed for %s: %v", req.Email, err)
		writeError(w, http.StatusUnprocessableEntity, "Sign up failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// SignOut clears the session.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err == nil {
		session.Values = make(map[interface{}]interface{})
		session.Options.MaxAge = -1
		session.Save(r, w)
	}

	w.WriteHeader(http.StatusNoContent)
}
