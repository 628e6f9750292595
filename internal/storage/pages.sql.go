package storage

import (
	"context"
	"database/sql"
)

const createMonthlyPageIfMissing = `
INSERT INTO monthly_pages (year, month) VALUES (?, ?)
ON CONFLICT (year, month) DO NOTHING
`

func (q *Queries) CreateMonthlyPageIfMissing(ctx context.Context, year, month int64) error {
	_, err := q.db.ExecContext(ctx, createMonthlyPageIfMissing, year, month)
	return err
}

const upsertMonthlyPageNotes = `
INSERT INTO monthly_pages (year, month, notes) VALUES (?, ?, ?)
ON CONFLICT (year, month) DO UPDATE SET notes = excluded.notes
`

func (q *Queries) UpsertMonthlyPageNotes(ctx context.Context, year, month int64, notes sql.NullString) error {
	_, err := q.db.ExecContext(ctx, upsertMonthlyPageNotes, year, month, notes)
	return err
}

const selectMonthlyPage = `SELECT id, year, month, notes, created_at FROM monthly_pages`

func scanMonthlyPage(s interface{ Scan(...any) error }) (MonthlyPage, error) {
	var p MonthlyPage
	err := s.Scan(&p.ID, &p.Year, &p.Month, &p.Notes, &p.CreatedAt)
	return p, err
}

func (q *Queries) GetMonthlyPage(ctx context.Context, year, month int64) (MonthlyPage, error) {
	return scanMonthlyPage(q.db.QueryRowContext(ctx, selectMonthlyPage+` WHERE year = ? AND month = ?`, year, month))
}

func (q *Queries) ListMonthlyPages(ctx context.Context) ([]MonthlyPage, error) {
	rows, err := q.db.QueryContext(ctx, selectMonthlyPage+` ORDER BY year DESC, month DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MonthlyPage
	for rows.Next() {
		p, err := scanMonthlyPage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) DeleteMonthlyPage(ctx context.Context, year, month int64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, `DELETE FROM monthly_pages WHERE year = ? AND month = ?`, year, month))
}
