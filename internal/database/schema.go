package database

import (
	"context"
	_ "embed"
)

//go:embed init.sql
var Schema string

// ApplySchema creates all tables and indexes. Every statement is
// idempotent, so running it against an initialized database is safe.
func (s *Store) ApplySchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	return err
}
