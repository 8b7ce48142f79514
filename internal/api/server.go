package api

import (
	"net/http"

	"system-biblioteczny/internal/config"
	"system-biblioteczny/internal/database"
	"system-biblioteczny/internal/storage"
	"system-biblioteczny/internal/websocket"
)

type Server struct {
	config  *config.Config
	store   *database.Store
	storage *storage.LocalStorage
	wsHub   *websocket.Hub
}

func NewServer(cfg *config.Config, store *database.Store, storage *storage.LocalStorage, wsHub *websocket.Hub) *Server {
	return &Server{
		config:  cfg,
		store:   store,
		storage: storage,
		wsHub:   wsHub,
	}
}

// HealthCheckHandler godoc
// @Summary      Liveness and database check
// @Tags         system
// @Produce      plain
// @Success      200 {string} string "ok"
// @Failure      503 {string} string "database unreachable"
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.GetPool().Ping(r.Context()); err != nil {
		http.Error(w, "database unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
