package api

import (
	"errors"
	"fmt"
	"net/http"

	"system-biblioteczny/internal/database"

	log "github.com/sirupsen/logrus"
)

func (s *Server) BorrowBookHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	bookID, ok := parseIDParam(r, "bookID")
	if !ok {
		redirectWithFlash(w, r, "/books", "Book not found.", "danger")
		return
	}

	_, title, err := s.store.BorrowBook(r.Context(), user.ID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrBookNotFound):
			redirectWithFlash(w, r, "/books", "Book not found.", "danger")
		case errors.Is(err, database.ErrBookUnavailable):
			redirectWithFlash(w, r, "/books", "Book not available.", "danger")
		default:
			log.WithField("book_id", bookID).WithError(err).Error("Failed to borrow book")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	loansTotal.WithLabelValues("borrow").Inc()
	s.broadcastStats(r.Context())

	redirectWithFlash(w, r, "/books", fmt.Sprintf("You borrowed \"%s\".", title), "success")
}

func (s *Server) ReturnBookHandler(w http.ResponseWriter, r *http.Request) {
	borrowID, ok := parseIDParam(r, "borrowID")
	if !ok {
		redirectWithFlash(w, r, "/dashboard", "Borrow record not found.", "danger")
		return
	}

	result, err := s.store.ReturnBook(r.Context(), borrowID)
	if err != nil {
		if errors.Is(err, database.ErrBorrowNotFound) {
			redirectWithFlash(w, r, "/dashboard", "Borrow record not found.", "danger")
			return
		}
		log.WithField("borrow_id", borrowID).WithError(err).Error("Failed to return book")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if result.AlreadyReturned {
		redirectWithFlash(w, r, "/dashboard", "This book is already returned.", "info")
		return
	}

	loansTotal.WithLabelValues("return").Inc()
	s.broadcastStats(r.Context())

	if result.BookTitle != "" {
		redirectWithFlash(w, r, "/dashboard", fmt.Sprintf("Book \"%s\" returned successfully.", result.BookTitle), "success")
		return
	}
	redirectWithFlash(w, r, "/dashboard", "Book returned successfully.", "success")
}
