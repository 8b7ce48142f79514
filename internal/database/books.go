package database

import (
	"context"
	"errors"
	"system-biblioteczny/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrISBNExists = errors.New("a book with that ISBN already exists")

type CreateBookParams struct {
	Title    string
	Author   string
	ISBN     string
	Quantity int32
}

func (q *Queries) CreateBook(ctx context.Context, arg CreateBookParams) (*models.Book, error) {
	query := `
		INSERT INTO books (title, author, isbn, quantity, available)
		VALUES ($1, $2, $3, $4, $4 > 0)
		RETURNING id, title, author, isbn, quantity, available, created_at
	`
	row := q.db.QueryRow(ctx, query, arg.Title, arg.Author, arg.ISBN, arg.Quantity)

	var book models.Book
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&book.Quantity,
		&book.Available,
		&book.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrISBNExists
		}
		return nil, err
	}

	return &book, nil
}

func (q *Queries) GetBookByID(ctx context.Context, id int64) (*models.Book, error) {
	query := `
		SELECT id, title, author, isbn, quantity, available, created_at
		FROM books
		WHERE id = $1
	`
	var book models.Book

	err := q.db.QueryRow(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&book.Quantity,
		&book.Available,
		&book.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &book, nil
}

// ListBooks returns the whole catalog or, with a non-empty search, the
// books whose title or author contains it. The match is case-sensitive.
func (q *Queries) ListBooks(ctx context.Context, search string) ([]models.Book, error) {
	var rows pgx.Rows
	var err error

	if search == "" {
		query := `
			SELECT id, title, author, isbn, quantity, available, created_at
			FROM books
			ORDER BY id
		`
		rows, err = q.db.Query(ctx, query)
	} else {
		query := `
			SELECT id, title, author, isbn, quantity, available, created_at
			FROM books
			WHERE POSITION($1 IN title) > 0 OR POSITION($1 IN author) > 0
			ORDER BY id
		`
		rows, err = q.db.Query(ctx, query, search)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var book models.Book
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.ISBN,
			&book.Quantity,
			&book.Available,
			&book.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if books == nil {
		return []models.Book{}, nil
	}

	return books, nil
}

type UpdateBookParams struct {
	ID       int64
	Title    string
	Author   string
	ISBN     string
	Quantity int32
}

// UpdateBook overwrites every editable field and recomputes available
// from the new quantity.
func (q *Queries) UpdateBook(ctx context.Context, arg UpdateBookParams) (bool, error) {
	query := `
		UPDATE books
		SET title = $1, author = $2, isbn = $3, quantity = $4, available = $4 > 0
		WHERE id = $5
	`
	res, err := q.db.Exec(ctx, query, arg.Title, arg.Author, arg.ISBN, arg.Quantity, arg.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return false, ErrISBNExists
		}
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

func (q *Queries) DeleteBook(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM books WHERE id = $1`
	res, err := q.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}
