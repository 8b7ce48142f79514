package database

import (
	"context"
	"errors"
	"system-biblioteczny/internal/models"
	"time"

	"github.com/jackc/pgx/v5"
)

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrBookUnavailable = errors.New("book not available")
	ErrBorrowNotFound  = errors.New("borrow record not found")
)

func (q *Queries) CreateBorrow(ctx context.Context, userID, bookID int64) (*models.Borrow, error) {
	query := `
		INSERT INTO borrows (user_id, book_id)
		VALUES ($1, $2)
		RETURNING id, user_id, book_id, borrowed_at, returned_at
	`
	row := q.db.QueryRow(ctx, query, userID, bookID)

	var borrow models.Borrow
	err := row.Scan(
		&borrow.ID,
		&borrow.UserID,
		&borrow.BookID,
		&borrow.BorrowedAt,
		&borrow.ReturnedAt,
	)
	if err != nil {
		return nil, err
	}

	return &borrow, nil
}

func (q *Queries) GetBorrowByID(ctx context.Context, id int64) (*models.Borrow, error) {
	query := `
		SELECT id, user_id, book_id, borrowed_at, returned_at
		FROM borrows
		WHERE id = $1
	`
	var borrow models.Borrow

	err := q.db.QueryRow(ctx, query, id).Scan(
		&borrow.ID,
		&borrow.UserID,
		&borrow.BookID,
		&borrow.BorrowedAt,
		&borrow.ReturnedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &borrow, nil
}

// TakeBookCopy decrements the stock of one book and recomputes its
// availability. It refuses to go below zero: with no copies left the
// update matches no row and the caller sees taken == false.
func (q *Queries) TakeBookCopy(ctx context.Context, bookID int64) (bool, error) {
	query := `
		UPDATE books
		SET quantity = quantity - 1, available = (quantity - 1) > 0
		WHERE id = $1 AND quantity > 0
	`
	res, err := q.db.Exec(ctx, query, bookID)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

// ReturnBookCopy increments the stock and flips available back to true
// without looking at the quantity. found is false when the book row no
// longer exists.
func (q *Queries) ReturnBookCopy(ctx context.Context, bookID int64) (string, bool, error) {
	query := `
		UPDATE books
		SET quantity = quantity + 1, available = TRUE
		WHERE id = $1
		RETURNING title
	`
	var title string

	err := q.db.QueryRow(ctx, query, bookID).Scan(&title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}

	return title, true, nil
}

// CloseBorrow stamps returned_at exactly once. A borrow that is already
// closed matches no row, so the timestamp can never be overwritten.
func (q *Queries) CloseBorrow(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE borrows
		SET returned_at = now()
		WHERE id = $1 AND returned_at IS NULL
	`
	res, err := q.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

type OpenBorrow struct {
	ID         int64     `json:"id"`
	BookID     *int64    `json:"book_id"`
	BookTitle  string    `json:"book_title"`
	BookAuthor string    `json:"book_author"`
	BorrowedAt time.Time `json:"borrowed_at"`
}

// ListOpenBorrowsForUser lists the loans a user still has to return.
// Books deleted from the catalog show up with empty title and author.
func (q *Queries) ListOpenBorrowsForUser(ctx context.Context, userID int64) ([]OpenBorrow, error) {
	query := `
		SELECT br.id, br.book_id, COALESCE(b.title, ''), COALESCE(b.author, ''), br.borrowed_at
		FROM borrows br
		LEFT JOIN books b ON br.book_id = b.id
		WHERE br.user_id = $1 AND br.returned_at IS NULL
		ORDER BY br.borrowed_at DESC, br.id DESC
	`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var borrows []OpenBorrow
	for rows.Next() {
		var borrow OpenBorrow
		err := rows.Scan(
			&borrow.ID,
			&borrow.BookID,
			&borrow.BookTitle,
			&borrow.BookAuthor,
			&borrow.BorrowedAt,
		)
		if err != nil {
			return nil, err
		}
		borrows = append(borrows, borrow)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if borrows == nil {
		return []OpenBorrow{}, nil
	}

	return borrows, nil
}

// BorrowBook takes one copy of a book for a user. The stock check and
// the borrow row are committed together, so two readers cannot take the
// last copy at the same time.
func (s *Store) BorrowBook(ctx context.Context, userID, bookID int64) (*models.Borrow, string, error) {
	var borrow *models.Borrow
	var title string

	err := s.ExecTx(ctx, func(q *Queries) error {
		book, err := q.GetBookByID(ctx, bookID)
		if err != nil {
			return err
		}
		if book == nil {
			return ErrBookNotFound
		}
		title = book.Title

		taken, err := q.TakeBookCopy(ctx, bookID)
		if err != nil {
			return err
		}
		if !taken {
			return ErrBookUnavailable
		}

		borrow, err = q.CreateBorrow(ctx, userID, bookID)
		return err
	})
	if err != nil {
		return nil, "", err
	}

	return borrow, title, nil
}

type ReturnResult struct {
	Borrow          *models.Borrow
	BookTitle       string
	AlreadyReturned bool
}

// ReturnBook closes a loan and puts the copy back on the shelf. When
// the loan is already closed nothing changes and the result says so.
// When the book was deleted in the meantime only the loan is closed.
func (s *Store) ReturnBook(ctx context.Context, borrowID int64) (*ReturnResult, error) {
	var result ReturnResult

	err := s.ExecTx(ctx, func(q *Queries) error {
		borrow, err := q.GetBorrowByID(ctx, borrowID)
		if err != nil {
			return err
		}
		if borrow == nil {
			return ErrBorrowNotFound
		}
		result.Borrow = borrow

		if borrow.ReturnedAt != nil {
			result.AlreadyReturned = true
			return nil
		}

		closed, err := q.CloseBorrow(ctx, borrowID)
		if err != nil {
			return err
		}
		if !closed {
			// Raced with another return between the read and the update.
			result.AlreadyReturned = true
			return nil
		}

		if borrow.BookID != nil {
			title, found, err := q.ReturnBookCopy(ctx, *borrow.BookID)
			if err != nil {
				return err
			}
			if found {
				result.BookTitle = title
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
