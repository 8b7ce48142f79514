package models

import "time"

// BookID is nullable: deleting a book keeps its loan history and the
// open loans of that book can still be returned.
type Borrow struct {
	ID         int64      `json:"id" db:"id"`
	UserID     int64      `json:"user_id" db:"user_id"`
	BookID     *int64     `json:"book_id" db:"book_id"`
	BorrowedAt time.Time  `json:"borrowed_at" db:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty" db:"returned_at"`
}
