package models

import "time"

// Available is derived from Quantity on every create and edit. The one
// exception is the return flow, which sets it to true directly.
type Book struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author" db:"author"`
	ISBN      string    `json:"isbn" db:"isbn"`
	Quantity  int32     `json:"quantity" db:"quantity"`
	Available bool      `json:"available" db:"available"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
