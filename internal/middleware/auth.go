package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"prontoticket/internal/models"
)

type contextKey string

const (
	UserContextKey  contextKey = "user"
	TokenContextKey contextKey = "token"
)

// SessionName is the cookie session holding the signed-in user.
const SessionName = "session"

// AuthMiddleware loads the signed-in user from the cookie session.
type AuthMiddleware struct {
	store sessions.Store
}

// NewAuthMiddleware creates a new authentication middleware.
func NewAuthMiddleware(store sessions.Store) *AuthMiddleware {
	return &AuthMiddleware{store: store}
}

// LoadUser reads the session and, when a user is signed in, adds the user and
// their backend token to the request context. Requests without a valid
// session continue as guests.
func (m *AuthMiddleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, SessionName)
		if err != nil {
			// Continue without user if session is invalid
			next.ServeHTTP(w, r)
			return
		}

		user, ok := session.Values["user"].(*models.User)
		if !ok || user == nil || user.ID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		if token, ok := session.Values["token"].(string); ok && token != "" {
			ctx = context.WithValue(ctx, TokenContextKey, token)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth ensures a user is signed in before the handler runs.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext returns the signed-in user, or nil for guests.
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetTokenFromContext returns the backend token for the signed-in user.
func GetTokenFromContext(ctx context.Context) string {
	token, ok := ctx.Value(TokenContextKey).(string)
	if !ok {
		return ""
	}
	return token
}
