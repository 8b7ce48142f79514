package api

import (
	"context"
	"encoding/json"
	"net/http"

	"system-biblioteczny/internal/auth"
	"system-biblioteczny/internal/websocket"

	log "github.com/sirupsen/logrus"
)

// WsTicketHandler godoc
// @Summary      Mint a WebSocket ticket
// @Description  Returns a short-lived ticket the dashboard passes to GET /ws, since the handshake cannot carry the session cookie reliably.
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      500 {string} string "Internal Server Error"
// @Router       /ws/ticket [get]
func (s *Server) WsTicketHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	ticket, err := auth.GenerateTicket(user, s.config.JWT.Secret)
	if err != nil {
		log.WithField("user_id", user.ID).WithError(err).Error("Failed to generate WS ticket")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"ticket": ticket})
}

func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	ticketString := r.URL.Query().Get("ticket")
	if ticketString == "" {
		log.Warn("WS connection attempt without ticket")
		http.Error(w, "ticket required", http.StatusUnauthorized)
		return
	}

	claims, err := auth.VerifyTicket(ticketString, s.config.JWT.Secret)
	if err != nil {
		log.WithError(err).Warn("WS connection attempt with invalid ticket")
		http.Error(w, "invalid ticket", http.StatusUnauthorized)
		return
	}

	// The ticket outlives the login session by up to a minute, so the
	// account behind it is confirmed before the upgrade.
	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		log.WithField("user_id", claims.UserID).WithError(err).Error("Failed to resolve WS ticket user")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "invalid ticket", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("WebSocket upgrade error")
		return
	}

	client := websocket.NewClient(s.wsHub, conn, user.ID)
	s.wsHub.Register <- client

	go client.ReadPump()
	go client.WritePump()
}

// broadcastStats pushes fresh dashboard counters to every connected
// client. Called after each committed mutation; failures only log.
func (s *Server) broadcastStats(ctx context.Context) {
	stats, err := s.store.GetStats(ctx)
	if err != nil {
		log.WithError(err).Warn("Could not load stats for broadcast")
		return
	}

	eventMsg := map[string]interface{}{
		"event_type": "stats_updated",
		"payload":    stats,
	}
	eventBytes, err := json.Marshal(eventMsg)
	if err != nil {
		log.WithError(err).Warn("Could not marshal stats event")
		return
	}

	s.wsHub.Publish(eventBytes)
}
