package storage

import (
	"context"
	"database/sql"
)

const createMonthlyBill = `
INSERT INTO monthly_bills (name, amount_cents, due_day, category)
VALUES (?, ?, ?, ?)
RETURNING id
`

type CreateMonthlyBillParams struct {
	Name        string
	AmountCents int64
	DueDay      sql.NullInt64
	Category    sql.NullString
}

func (q *Queries) CreateMonthlyBill(ctx context.Context, arg CreateMonthlyBillParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createMonthlyBill, arg.Name, arg.AmountCents, arg.DueDay, arg.Category)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const selectMonthlyBill = `SELECT id, name, amount_cents, due_day, category, is_active, created_at FROM monthly_bills`

const getMonthlyBill = selectMonthlyBill + ` WHERE id = ?`

func (q *Queries) GetMonthlyBill(ctx context.Context, id int64) (MonthlyBill, error) {
	row := q.db.QueryRowContext(ctx, getMonthlyBill, id)
	var b MonthlyBill
	err := row.Scan(&b.ID, &b.Name, &b.AmountCents, &b.DueDay, &b.Category, &b.IsActive, &b.CreatedAt)
	return b, err
}

// Unset due days sort after every set one.
const listMonthlyBills = selectMonthlyBill + `
WHERE (? = 0 OR is_active = 1)
ORDER BY due_day IS NULL, due_day, id
`

func (q *Queries) ListMonthlyBills(ctx context.Context, activeOnly bool) ([]MonthlyBill, error) {
	flag := 0
	if activeOnly {
		flag = 1
	}
	rows, err := q.db.QueryContext(ctx, listMonthlyBills, flag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MonthlyBill
	for rows.Next() {
		var b MonthlyBill
		if err := rows.Scan(&b.ID, &b.Name, &b.AmountCents, &b.DueDay, &b.Category, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateMonthlyBill = `
UPDATE monthly_bills SET name = ?, amount_cents = ?, due_day = ?, category = ?
WHERE id = ?
`

type UpdateMonthlyBillParams struct {
	ID          int64
	Name        string
	AmountCents int64
	DueDay      sql.NullInt64
	Category    sql.NullString
}

func (q *Queries) UpdateMonthlyBill(ctx context.Context, arg UpdateMonthlyBillParams) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, updateMonthlyBill, arg.Name, arg.AmountCents, arg.DueDay, arg.Category, arg.ID))
}

const setMonthlyBillActive = `UPDATE monthly_bills SET is_active = ? WHERE id = ?`

// SetMonthlyBillActive reports matched rows, so repeating the same value still returns 1.
func (q *Queries) SetMonthlyBillActive(ctx context.Context, id int64, active bool) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, setMonthlyBillActive, active, id))
}

const totalActiveBills = `SELECT COALESCE(SUM(amount_cents), 0) FROM monthly_bills WHERE is_active = 1`

func (q *Queries) TotalActiveBills(ctx context.Context) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx, totalActiveBills).Scan(&total)
	return total, err
}

const unpaidBillsTotal = `
SELECT COALESCE(SUM(amount_cents), 0) FROM monthly_bills
WHERE is_active = 1 AND id NOT IN (
    SELECT bill_id FROM paid_bills WHERE year = ? AND month = ?
)
`

func (q *Queries) UnpaidBillsTotal(ctx context.Context, year, month int64) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx, unpaidBillsTotal, year, month).Scan(&total)
	return total, err
}

const upsertPaidBill = `
INSERT INTO paid_bills (bill_id, year, month, paid_date)
VALUES (?, ?, ?, ?)
ON CONFLICT (bill_id, year, month) DO UPDATE SET paid_date = excluded.paid_date
`

type UpsertPaidBillParams struct {
	BillID   int64
	Year     int64
	Month    int64
	PaidDate string
}

func (q *Queries) UpsertPaidBill(ctx context.Context, arg UpsertPaidBillParams) error {
	_, err := q.db.ExecContext(ctx, upsertPaidBill, arg.BillID, arg.Year, arg.Month, arg.PaidDate)
	return err
}

const deletePaidBill = `DELETE FROM paid_bills WHERE bill_id = ? AND year = ? AND month = ?`

func (q *Queries) DeletePaidBill(ctx context.Context, billID, year, month int64) error {
	_, err := q.db.ExecContext(ctx, deletePaidBill, billID, year, month)
	return err
}

const getPaidBill = `
SELECT id, bill_id, year, month, paid_date FROM paid_bills
WHERE bill_id = ? AND year = ? AND month = ?
`

func (q *Queries) GetPaidBill(ctx context.Context, billID, year, month int64) (PaidBill, error) {
	row := q.db.QueryRowContext(ctx, getPaidBill, billID, year, month)
	var p PaidBill
	err := row.Scan(&p.ID, &p.BillID, &p.Year, &p.Month, &p.PaidDate)
	return p, err
}

const listPaidBills = `
SELECT id, bill_id, year, month, paid_date FROM paid_bills
WHERE year = ? AND month = ?
ORDER BY bill_id
`

func (q *Queries) ListPaidBills(ctx context.Context, year, month int64) ([]PaidBill, error) {
	rows, err := q.db.QueryContext(ctx, listPaidBills, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PaidBill
	for rows.Next() {
		var p PaidBill
		if err := rows.Scan(&p.ID, &p.BillID, &p.Year, &p.Month, &p.PaidDate); err != nil {
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
