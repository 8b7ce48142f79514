package api

import (
	"errors"
	"net/http"
	"time"

	"system-biblioteczny/internal/auth"
	"system-biblioteczny/internal/database"
	"system-biblioteczny/internal/models"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	log "github.com/sirupsen/logrus"
)

// HomeHandler only routes: logged-in users land on the dashboard,
// everyone else on the login page.
func (s *Server) HomeHandler(w http.ResponseWriter, r *http.Request) {
	if GetUserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) RegisterPageHandler(w http.ResponseWriter, r *http.Request) {
	if GetUserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	s.render(w, r, "register.html", V{})
}

func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if GetUserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	fullName := r.FormValue("fullname")
	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")
	confirmPassword := r.FormValue("confirm_password")

	if fullName == "" || username == "" || email == "" || password == "" {
		redirectWithFlash(w, r, "/register", "All fields are required.", "danger")
		return
	}

	if password != confirmPassword {
		redirectWithFlash(w, r, "/register", "Passwords do not match.", "danger")
		return
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	_, err = s.store.CreateUser(r.Context(), database.CreateUserParams{
		FullName:     fullName,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, database.ErrUserExists) {
			redirectWithFlash(w, r, "/register", "Username or email already exists.", "danger")
			return
		}
		log.WithError(err).Error("Failed to create user")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	redirectWithFlash(w, r, "/login", "Registration successful. Please login.", "success")
}

func (s *Server) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	if GetUserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	s.render(w, r, "login.html", V{})
}

func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if GetUserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := s.store.GetUserByUsername(r.Context(), username)
	if err != nil {
		log.WithError(err).Error("Failed to fetch user for login")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
		redirectWithFlash(w, r, "/login", "Invalid username or password.", "danger")
		return
	}

	if err := s.startSession(w, r, user); err != nil {
		log.WithField("user_id", user.ID).WithError(err).Error("Failed to create session")
		http.Error(w, "Failed to process login session", http.StatusInternalServerError)
		return
	}

	redirectWithFlash(w, r, "/dashboard", "Logged in successfully.", "success")
}

// startSession mints an opaque token, persists the session row and sets
// the cookie. The cookie and the row expire together.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	generateID, err := nanoid.Standard(40)
	if err != nil {
		return err
	}
	token := generateID()

	ttl := time.Duration(s.config.Session.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	expiresAt := time.Now().Add(ttl)

	sessionParams := database.CreateSessionParams{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     token,
		UserAgent: r.UserAgent(),
		ClientIP:  r.RemoteAddr,
		ExpiresAt: expiresAt,
	}
	if err := s.store.CreateSession(r.Context(), sessionParams); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
	})

	return nil
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := s.store.DeleteSessionByToken(r.Context(), cookie.Value); err != nil {
			log.WithError(err).Error("Failed to delete session")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}

	clearSessionCookie(w)
	redirectWithFlash(w, r, "/login", "Logged out successfully.", "info")
}
