package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHomeHandler(t *testing.T) {
	// Anonimowy użytkownik trafia na stronę logowania
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.HomeHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/login", rr.Header().Get("Location"))

	// Zalogowany użytkownik trafia na pulpit
	req = asUser(httptest.NewRequest(http.MethodGet, "/", nil), testUser)
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.HomeHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestRegisterHandler(t *testing.T) {
	form := url.Values{
		"fullname":         {"Jan Kowalski"},
		"username":         {"register_ok"},
		"email":            {"register_ok@example.com"},
		"password":         {"tajnehaslo"},
		"confirm_password": {"tajnehaslo"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.RegisterHandler).ServeHTTP(rr, postForm("/register", form, nil))

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/login", rr.Header().Get("Location"))

	message, category := flashFrom(t, rr)
	require.Equal(t, "Registration successful. Please login.", message)
	require.Equal(t, "success", category)

	user, err := testServer.store.GetUserByUsername(context.Background(), "register_ok")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Equal(t, "Jan Kowalski", user.FullName)
	require.NotEqual(t, "tajnehaslo", user.PasswordHash)
}

func TestRegisterHandlerPasswordMismatch(t *testing.T) {
	form := url.Values{
		"fullname":         {"Jan Kowalski"},
		"username":         {"register_mismatch"},
		"email":            {"register_mismatch@example.com"},
		"password":         {"haslo1"},
		"confirm_password": {"haslo2"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.RegisterHandler).ServeHTTP(rr, postForm("/register", form, nil))

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/register", rr.Header().Get("Location"))

	message, category := flashFrom(t, rr)
	require.Equal(t, "Passwords do not match.", message)
	require.Equal(t, "danger", category)

	// Konto nie może powstać przed walidacją haseł
	user, err := testServer.store.GetUserByUsername(context.Background(), "register_mismatch")
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestRegisterHandlerDuplicateUsername(t *testing.T) {
	newTestUser(t, "register_taken")

	form := url.Values{
		"fullname":         {"Ktoś Inny"},
		"username":         {"register_taken"},
		"email":            {"register_taken_fresh@example.com"},
		"password":         {"haslo"},
		"confirm_password": {"haslo"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.RegisterHandler).ServeHTTP(rr, postForm("/register", form, nil))

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/register", rr.Header().Get("Location"))

	message, category := flashFrom(t, rr)
	require.Equal(t, "Username or email already exists.", message)
	require.Equal(t, "danger", category)
}

func TestRegisterHandlerMissingFields(t *testing.T) {
	form := url.Values{
		"username": {"register_empty"},
		"password": {"haslo"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.RegisterHandler).ServeHTTP(rr, postForm("/register", form, nil))

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/register", rr.Header().Get("Location"))

	message, category := flashFrom(t, rr)
	require.Equal(t, "All fields are required.", message)
	require.Equal(t, "danger", category)
}

func TestLoginHandler(t *testing.T) {
	user := newTestUser(t, "login_ok")

	form := url.Values{
		"username": {"login_ok"},
		"password": {testUserPassword},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.LoginHandler).ServeHTTP(rr, postForm("/login", form, nil))

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/dashboard", rr.Header().Get("Location"))

	message, category := flashFrom(t, rr)
	require.Equal(t, "Logged in successfully.", message)
	require.Equal(t, "success", category)

	// Cookie sesyjne wskazuje na świeżo utworzoną sesję
	cookie := sessionCookieFrom(rr)
	require.NotNil(t, cookie)
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)

	resolved, err := testServer.store.GetUserBySessionToken(context.Background(), cookie.Value)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, user.ID, resolved.ID)
}

func TestLoginHandlerWrongPassword(t *testing.T) {
	newTestUser(t, "login_wrong_pass")

	form := url.Values{
		"username": {"login_wrong_pass"},
		"password": {"not-the-password"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.LoginHandler).ServeHTTP(rr, postForm("/login", form, nil))

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/login", rr.Header().Get("Location"))

	message, category := flashFrom(t, rr)
	require.Equal(t, "Invalid username or password.", message)
	require.Equal(t, "danger", category)
	require.Nil(t, sessionCookieFrom(rr))
}

func TestLoginHandlerUnknownUser(t *testing.T) {
	form := url.Values{
		"username": {"login_no_such_user"},
		"password": {"whatever"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.LoginHandler).ServeHTTP(rr, postForm("/login", form, nil))

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/login", rr.Header().Get("Location"))

	message, _ := flashFrom(t, rr)
	require.Equal(t, "Invalid username or password.", message)
}

func TestLogoutHandler(t *testing.T) {
	user := newTestUser(t, "logout_user")

	// Zaloguj, żeby mieć prawdziwe cookie sesyjne
	loginForm := url.Values{"username": {"logout_user"}, "password": {testUserPassword}}
	loginRR := httptest.NewRecorder()
	http.HandlerFunc(testServer.LoginHandler).ServeHTTP(loginRR, postForm("/login", loginForm, nil))
	cookie := sessionCookieFrom(loginRR)
	require.NotNil(t, cookie)

	req := asUser(httptest.NewRequest(http.MethodGet, "/logout", nil), user)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookie.Value})
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.LogoutHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/login", rr.Header().Get("Location"))

	message, category := flashFrom(t, rr)
	require.Equal(t, "Logged out successfully.", message)
	require.Equal(t, "info", category)

	// Sesja musi zniknąć z bazy
	resolved, err := testServer.store.GetUserBySessionToken(context.Background(), cookie.Value)
	require.NoError(t, err)
	require.Nil(t, resolved)
}

func TestLoginPageRedirectsWhenAuthenticated(t *testing.T) {
	req := asUser(httptest.NewRequest(http.MethodGet, "/login", nil), testUser)
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.LoginPageHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestRequireAuthRedirects(t *testing.T) {
	protected := testServer.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rr := httptest.NewRecorder()
	protected.ServeHTTP(rr, req)

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "/login", rr.Header().Get("Location"))

	message, category := flashFrom(t, rr)
	require.Equal(t, "Please log in to continue.", message)
	require.Equal(t, "info", category)

	req = asUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), testUser)
	rr = httptest.NewRecorder()
	protected.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestSessionMiddlewareResolvesUser(t *testing.T) {
	user := newTestUser(t, "middleware_user")

	loginForm := url.Values{"username": {"middleware_user"}, "password": {testUserPassword}}
	loginRR := httptest.NewRecorder()
	http.HandlerFunc(testServer.LoginHandler).ServeHTTP(loginRR, postForm("/login", loginForm, nil))
	cookie := sessionCookieFrom(loginRR)
	require.NotNil(t, cookie)

	var resolvedID int64
	handler := testServer.SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := GetUserFromContext(r.Context()); u != nil {
			resolvedID = u.ID
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookie.Value})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, user.ID, resolvedID)

	// Nieznany token przechodzi dalej jako anonim
	resolvedID = 0
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "bogus_token"})
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Zero(t, resolvedID)
}
