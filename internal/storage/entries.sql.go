package storage

import (
	"context"
	"database/sql"
)

const createPaycheck = `
INSERT INTO paychecks (amount_cents, date, source, notes)
VALUES (?, ?, ?, ?)
RETURNING id
`

type CreatePaycheckParams struct {
	AmountCents int64
	Date        string
	Source      sql.NullString
	Notes       sql.NullString
}

func (q *Queries) CreatePaycheck(ctx context.Context, arg CreatePaycheckParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createPaycheck, arg.AmountCents, arg.Date, arg.Source, arg.Notes)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const selectPaycheck = `SELECT id, amount_cents, date, source, notes, created_at FROM paychecks`

func scanPaycheck(s interface{ Scan(...any) error }) (Paycheck, error) {
	var p Paycheck
	err := s.Scan(&p.ID, &p.AmountCents, &p.Date, &p.Source, &p.Notes, &p.CreatedAt)
	return p, err
}

func (q *Queries) GetPaycheck(ctx context.Context, id int64) (Paycheck, error) {
	return scanPaycheck(q.db.QueryRowContext(ctx, selectPaycheck+` WHERE id = ?`, id))
}

// ListPaychecks returns paychecks dated in [from, to), newest first. Empty
// bounds are open.
func (q *Queries) ListPaychecks(ctx context.Context, from, to string) ([]Paycheck, error) {
	rows, err := q.db.QueryContext(ctx, selectPaycheck+dateRangeFilter+` ORDER BY date DESC, id DESC`, from, from, to, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Paycheck
	for rows.Next() {
		p, err := scanPaycheck(rows)
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

const updatePaycheck = `UPDATE paychecks SET amount_cents = ?, date = ?, source = ?, notes = ? WHERE id = ?`

type UpdatePaycheckParams struct {
	ID          int64
	AmountCents int64
	Date        string
	Source      sql.NullString
	Notes       sql.NullString
}

func (q *Queries) UpdatePaycheck(ctx context.Context, arg UpdatePaycheckParams) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, updatePaycheck, arg.AmountCents, arg.Date, arg.Source, arg.Notes, arg.ID))
}

func (q *Queries) DeletePaycheck(ctx context.Context, id int64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, `DELETE FROM paychecks WHERE id = ?`, id))
}

const sumPaychecks = `SELECT COALESCE(SUM(amount_cents), 0), COUNT(*) FROM paychecks WHERE date >= ? AND date <= ?`

func (q *Queries) SumPaychecks(ctx context.Context, from, to string) (total int64, count int64, err error) {
	err = q.db.QueryRowContext(ctx, sumPaychecks, from, to).Scan(&total, &count)
	return total, count, err
}

const createPurchase = `
INSERT INTO purchases (name, amount_cents, date, category, receipt_path, notes)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id
`

type CreatePurchaseParams struct {
	Name        string
	AmountCents int64
	Date        string
	Category    sql.NullString
	ReceiptPath sql.NullString
	Notes       sql.NullString
}

func (q *Queries) CreatePurchase(ctx context.Context, arg CreatePurchaseParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createPurchase,
		arg.Name, arg.AmountCents, arg.Date, arg.Category, arg.ReceiptPath, arg.Notes)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const selectPurchase = `SELECT id, name, amount_cents, date, category, receipt_path, notes, created_at FROM purchases`

func scanPurchase(s interface{ Scan(...any) error }) (Purchase, error) {
	var p Purchase
	err := s.Scan(&p.ID, &p.Name, &p.AmountCents, &p.Date, &p.Category, &p.ReceiptPath, &p.Notes, &p.CreatedAt)
	return p, err
}

func (q *Queries) GetPurchase(ctx context.Context, id int64) (Purchase, error) {
	return scanPurchase(q.db.QueryRowContext(ctx, selectPurchase+` WHERE id = ?`, id))
}

func (q *Queries) ListPurchases(ctx context.Context, from, to string) ([]Purchase, error) {
	rows, err := q.db.QueryContext(ctx, selectPurchase+dateRangeFilter+` ORDER BY date DESC, id DESC`, from, from, to, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
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

const updatePurchase = `
UPDATE purchases SET name = ?, amount_cents = ?, date = ?, category = ?, receipt_path = ?, notes = ?
WHERE id = ?
`

type UpdatePurchaseParams struct {
	ID          int64
	Name        string
	AmountCents int64
	Date        string
	Category    sql.NullString
	ReceiptPath sql.NullString
	Notes       sql.NullString
}

func (q *Queries) UpdatePurchase(ctx context.Context, arg UpdatePurchaseParams) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, updatePurchase,
		arg.Name, arg.AmountCents, arg.Date, arg.Category, arg.ReceiptPath, arg.Notes, arg.ID))
}

func (q *Queries) DeletePurchase(ctx context.Context, id int64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, `DELETE FROM purchases WHERE id = ?`, id))
}

const sumPurchases = `SELECT COALESCE(SUM(amount_cents), 0), COUNT(*) FROM purchases WHERE date >= ? AND date <= ?`

func (q *Queries) SumPurchases(ctx context.Context, from, to string) (total int64, count int64, err error) {
	err = q.db.QueryRowContext(ctx, sumPurchases, from, to).Scan(&total, &count)
	return total, count, err
}

const purchaseCategorySums = `
SELECT COALESCE(category, ''), SUM(amount_cents), COUNT(*) FROM purchases
WHERE date >= ? AND date <= ?
GROUP BY COALESCE(category, '')
ORDER BY 2 DESC, 1
`

func (q *Queries) PurchaseCategorySums(ctx context.Context, from, to string) ([]CategorySum, error) {
	rows, err := q.db.QueryContext(ctx, purchaseCategorySums, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategorySum
	for rows.Next() {
		var c CategorySum
		if err := rows.Scan(&c.Category, &c.TotalAmount, &c.Count); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Dates are YYYY-MM-DD text, so lexical comparison is chronological.
const dateRangeFilter = ` WHERE (? = '' OR date >= ?) AND (? = '' OR date <= ?)`
