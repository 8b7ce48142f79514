package database

import "context"

type Stats struct {
	TotalBooks    int64 `json:"total_books"`
	TotalUsers    int64 `json:"total_users"`
	ActiveBorrows int64 `json:"active_borrows"`
}

func (q *Queries) GetStats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT
			(SELECT count(*) FROM books),
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM borrows WHERE returned_at IS NULL)
	`
	var stats Stats

	err := q.db.QueryRow(ctx, query).Scan(
		&stats.TotalBooks,
		&stats.TotalUsers,
		&stats.ActiveBorrows,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
