package api

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	stats, err := s.store.GetStats(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to load stats")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	borrows, err := s.store.ListOpenBorrowsForUser(r.Context(), user.ID)
	if err != nil {
		log.WithField("user_id", user.ID).WithError(err).Error("Failed to load open borrows")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "dashboard.html", V{Stats: stats, Borrows: borrows})
}
