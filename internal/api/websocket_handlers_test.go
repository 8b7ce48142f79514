package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"system-biblioteczny/internal/auth"
	"system-biblioteczny/internal/database"
	"system-biblioteczny/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestWsTicketHandler(t *testing.T) {
	user := newTestUser(t, "ws_ticket_user")

	req := asUser(httptest.NewRequest(http.MethodGet, "/ws/ticket", nil), user)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.WsTicketHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var resp map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.NotEmpty(t, resp["ticket"])

	// Bilet musi dać się zweryfikować tym samym sekretem
	claims, err := auth.VerifyTicket(resp["ticket"], testServer.config.JWT.Secret)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.Username, claims.Username)
}

func TestServeWsHandlerRequiresTicket(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.ServeWsHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestServeWsHandlerRejectsInvalidTicket(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws?ticket=zepsuty-bilet", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.ServeWsHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestServeWsHandlerRejectsUnknownUser(t *testing.T) {
	// Bilet podpisany poprawnie, ale wskazujący na konto, którego nie ma
	ghost := &models.User{ID: 999999999, Username: "ghost"}
	ticket, err := auth.GenerateTicket(ghost, testServer.config.JWT.Secret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws?ticket="+ticket, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.ServeWsHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWebSocketStatsBroadcast(t *testing.T) {
	user := newTestUser(t, "ws_broadcast_user")

	server := httptest.NewServer(http.HandlerFunc(testServer.ServeWsHandler))
	defer server.Close()

	ticket, err := auth.GenerateTicket(user, testServer.config.JWT.Secret)
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/?ticket=" + ticket
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Chwila na zarejestrowanie klienta w hubie
	time.Sleep(100 * time.Millisecond)

	testServer.broadcastStats(context.Background())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		EventType string         `json:"event_type"`
		Payload   database.Stats `json:"payload"`
	}
	err = json.Unmarshal(message, &event)
	require.NoError(t, err)
	require.Equal(t, "stats_updated", event.EventType)
	require.GreaterOrEqual(t, event.Payload.TotalUsers, int64(1))
}
