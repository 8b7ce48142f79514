package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"system-biblioteczny/internal/database"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

const maxCoverUpload = 8 << 20

func parseIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseQuantity mirrors the form contract: an empty field means one
// copy, anything else must be a non-negative integer.
func parseQuantity(raw string) (int32, error) {
	if raw == "" {
		return 1, nil
	}
	quantity, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || quantity < 0 {
		return 0, fmt.Errorf("invalid quantity %q", raw)
	}
	return int32(quantity), nil
}

// saveCoverIfUploaded stores an optional cover image. Uploads are best
// effort: a failed save never fails the book operation itself.
func (s *Server) saveCoverIfUploaded(r *http.Request, bookID int64) {
	file, _, err := r.FormFile("cover")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			log.WithField("book_id", bookID).WithError(err).Warn("Could not read cover upload")
		}
		return
	}
	defer file.Close()

	if err := s.storage.SaveCover(bookID, file); err != nil {
		log.WithField("book_id", bookID).WithError(err).Warn("Could not save cover")
	}
}

func (s *Server) ListBooksHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	books, err := s.store.ListBooks(r.Context(), q)
	if err != nil {
		log.WithError(err).Error("Failed to list books")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "books.html", V{Books: books, Q: q})
}

func (s *Server) AddBookPageHandler(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "add_book.html", V{})
}

func (s *Server) AddBookHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCoverUpload)

	title := r.FormValue("title")
	author := r.FormValue("author")
	isbn := r.FormValue("isbn")

	if title == "" {
		redirectWithFlash(w, r, "/book/add", "Title cannot be empty.", "danger")
		return
	}

	quantity, err := parseQuantity(r.FormValue("quantity"))
	if err != nil {
		redirectWithFlash(w, r, "/book/add", "Quantity must be a non-negative number.", "danger")
		return
	}

	book, err := s.store.CreateBook(r.Context(), database.CreateBookParams{
		Title:    title,
		Author:   author,
		ISBN:     isbn,
		Quantity: quantity,
	})
	if err != nil {
		if errors.Is(err, database.ErrISBNExists) {
			redirectWithFlash(w, r, "/book/add", "A book with that ISBN already exists.", "danger")
			return
		}
		log.WithError(err).Error("Failed to create book")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.saveCoverIfUploaded(r, book.ID)
	s.broadcastStats(r.Context())

	redirectWithFlash(w, r, "/books", "Book added successfully.", "success")
}

func (s *Server) EditBookPageHandler(w http.ResponseWriter, r *http.Request) {
	bookID, ok := parseIDParam(r, "bookID")
	if !ok {
		redirectWithFlash(w, r, "/books", "Book not found.", "danger")
		return
	}

	book, err := s.store.GetBookByID(r.Context(), bookID)
	if err != nil {
		log.WithField("book_id", bookID).WithError(err).Error("Failed to fetch book")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if book == nil {
		redirectWithFlash(w, r, "/books", "Book not found.", "danger")
		return
	}

	s.render(w, r, "edit_book.html", V{Book: book, HasCover: s.storage.HasCover(book.ID)})
}

func (s *Server) EditBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, ok := parseIDParam(r, "bookID")
	if !ok {
		redirectWithFlash(w, r, "/books", "Book not found.", "danger")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCoverUpload)
	editPath := fmt.Sprintf("/book/edit/%d", bookID)

	title := r.FormValue("title")
	author := r.FormValue("author")
	isbn := r.FormValue("isbn")

	if title == "" {
		redirectWithFlash(w, r, editPath, "Title cannot be empty.", "danger")
		return
	}

	quantity, err := parseQuantity(r.FormValue("quantity"))
	if err != nil {
		redirectWithFlash(w, r, editPath, "Quantity must be a non-negative number.", "danger")
		return
	}

	found, err := s.store.UpdateBook(r.Context(), database.UpdateBookParams{
		ID:       bookID,
		Title:    title,
		Author:   author,
		ISBN:     isbn,
		Quantity: quantity,
	})
	if err != nil {
		if errors.Is(err, database.ErrISBNExists) {
			redirectWithFlash(w, r, editPath, "A book with that ISBN already exists.", "danger")
			return
		}
		log.WithField("book_id", bookID).WithError(err).Error("Failed to update book")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !found {
		redirectWithFlash(w, r, "/books", "Book not found.", "danger")
		return
	}

	s.saveCoverIfUploaded(r, bookID)
	s.broadcastStats(r.Context())

	redirectWithFlash(w, r, "/books", "Book updated successfully.", "success")
}

func (s *Server) DeleteBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, ok := parseIDParam(r, "bookID")
	if !ok {
		redirectWithFlash(w, r, "/books", "Book not found.", "danger")
		return
	}

	deleted, err := s.store.DeleteBook(r.Context(), bookID)
	if err != nil {
		log.WithField("book_id", bookID).WithError(err).Error("Failed to delete book")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !deleted {
		redirectWithFlash(w, r, "/books", "Book not found.", "danger")
		return
	}

	if err := s.storage.DeleteCover(bookID); err != nil {
		log.WithField("book_id", bookID).WithError(err).Warn("Could not delete cover")
	}
	s.broadcastStats(r.Context())

	redirectWithFlash(w, r, "/books", "Book deleted.", "info")
}

// CoverHandler godoc
// @Summary      Book cover image
// @Tags         books
// @Produce      octet-stream
// @Param        bookID path int true "Book ID"
// @Success      200 {file} binary
// @Failure      404 {string} string "cover not found"
// @Router       /book/cover/{bookID} [get]
func (s *Server) CoverHandler(w http.ResponseWriter, r *http.Request) {
	bookID, ok := parseIDParam(r, "bookID")
	if !ok {
		http.NotFound(w, r)
		return
	}

	cover, err := s.storage.GetCover(bookID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer cover.Close()

	// Sniff the content type from the first bytes of the file.
	header := make([]byte, 512)
	n, err := cover.Read(header)
	if err != nil && err != io.EOF {
		log.WithField("book_id", bookID).WithError(err).Error("Failed to read cover")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(header[:n]))
	w.Write(header[:n])
	io.Copy(w, cover)
}
