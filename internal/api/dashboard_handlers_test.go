package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDashboardHandler(t *testing.T) {
	user := newTestUser(t, "dashboard_user")
	book := createTestBookAPI(t, "Pulpit Solaris", "Stanisław Lem", "api-dash-0001", 1)

	_, _, err := testServer.store.BorrowBook(context.Background(), user.ID, book.ID)
	require.NoError(t, err)

	req := asUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), user)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.DashboardHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	// Liczniki i aktywne wypożyczenie muszą być widoczne na stronie
	require.Contains(t, body, `id="total-books"`)
	require.Contains(t, body, `id="total-users"`)
	require.Contains(t, body, `id="active-borrows"`)
	require.Contains(t, body, "Pulpit Solaris")
	require.Contains(t, body, user.Username)
}

func TestDashboardHandlerNoBorrows(t *testing.T) {
	user := newTestUser(t, "dashboard_empty")

	req := asUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), user)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.DashboardHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), "Pulpit Solaris")
}
