package api

import (
	"context"
	"net/http"

	"system-biblioteczny/internal/models"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey = contextKey("user")

const sessionCookieName = "session_token"

// SessionMiddleware resolves the session cookie into a user and puts it
// on the request context. Requests without a valid session pass through
// anonymously; RequireAuth decides what that means per route.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.store.GetUserBySessionToken(r.Context(), cookie.Value)
		if err != nil {
			log.WithError(err).Error("Failed to resolve session token")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if user == nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			redirectWithFlash(w, r, "/login", "Please log in to continue.", "info")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(userContextKey).(*models.User); ok {
		return user
	}
	return nil
}
