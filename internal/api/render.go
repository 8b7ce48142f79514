package api

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"system-biblioteczny/internal/database"
	"system-biblioteczny/internal/models"

	log "github.com/sirupsen/logrus"
)

//go:embed templates
var templateFiles embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

const flashCookieName = "flash"

type Flash struct {
	Message  string
	Category string
}

// V holds every value a page template can receive.
type V struct {
	User     *models.User
	Flashes  []Flash
	Stats    *database.Stats
	Borrows  []database.OpenBorrow
	Books    []models.Book
	Book     *models.Book
	Sessions []models.Session
	Q        string
	HasCover bool
}

// setFlash stores a single message for the next rendered page. The
// cookie format is "category|message".
func setFlash(w http.ResponseWriter, message, category string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60,
	})
}

func popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(raw, "|")
	if !ok {
		return nil
	}

	return []Flash{{Message: message, Category: category}}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data V) {
	data.User = GetUserFromContext(r.Context())
	data.Flashes = popFlashes(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		log.WithField("template", name).WithError(err).Error("Template execution failed")
	}
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, target, message, category string) {
	setFlash(w, message, category)
	http.Redirect(w, r, target, http.StatusFound)
}
