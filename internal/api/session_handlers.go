package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// SessionsPageHandler godoc
// @Summary      List active sessions
// @Description  Shows every device the user is logged in on, with controls to revoke single sessions or all of them.
// @Tags         sessions
// @Produce      html
// @Success      200 {string} string "rendered page"
// @Failure      500 {string} string "Internal Server Error"
// @Router       /sessions [get]
func (s *Server) SessionsPageHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	sessions, err := s.store.ListSessionsForUser(r.Context(), user.ID)
	if err != nil {
		log.WithField("user_id", user.ID).WithError(err).Error("Failed to list sessions")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "sessions.html", V{Sessions: sessions})
}

// DeleteSessionHandler revokes one session. The query is scoped to the
// logged-in user, so foreign session IDs come back as not found.
func (s *Server) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		redirectWithFlash(w, r, "/sessions", "Session not found.", "danger")
		return
	}

	deleted, err := s.store.DeleteSessionByID(r.Context(), sessionID, user.ID)
	if err != nil {
		log.WithField("user_id", user.ID).WithError(err).Error("Failed to delete session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !deleted {
		redirectWithFlash(w, r, "/sessions", "Session not found.", "danger")
		return
	}

	redirectWithFlash(w, r, "/sessions", "Session terminated.", "info")
}

// TerminateAllSessionsHandler godoc
// @Summary      Sign out everywhere
// @Description  Deletes every session of the logged-in user, including the current one.
// @Tags         sessions
// @Success      302 {string} string "redirect to /login"
// @Failure      500 {string} string "Internal Server Error"
// @Router       /sessions/terminate_all [post]
func (s *Server) TerminateAllSessionsHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := s.store.DeleteAllSessionsForUser(r.Context(), user.ID); err != nil {
		log.WithField("user_id", user.ID).WithError(err).Error("Failed to delete sessions")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	clearSessionCookie(w)
	redirectWithFlash(w, r, "/login", "Signed out on all devices.", "info")
}
