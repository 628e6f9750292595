package storage

import (
	"context"
	"database/sql"
)

const createSavings = `
INSERT INTO savings (name, current_amount_cents, goal_amount_cents)
VALUES (?, 0, ?)
RETURNING id
`

func (q *Queries) CreateSavings(ctx context.Context, name string, goal sql.NullInt64) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createSavings, name, goal).Scan(&id)
	return id, err
}

const selectSavings = `SELECT id, name, current_amount_cents, goal_amount_cents, created_at FROM savings`

func scanSavings(s interface{ Scan(...any) error }) (Saving, error) {
	var a Saving
	err := s.Scan(&a.ID, &a.Name, &a.CurrentAmountCents, &a.GoalAmountCents, &a.CreatedAt)
	return a, err
}

func (q *Queries) GetSavings(ctx context.Context, id int64) (Saving, error) {
	return scanSavings(q.db.QueryRowContext(ctx, selectSavings+` WHERE id = ?`, id))
}

func (q *Queries) ListSavings(ctx context.Context) ([]Saving, error) {
	rows, err := q.db.QueryContext(ctx, selectSavings+` ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Saving
	for rows.Next() {
		a, err := scanSavings(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateSavings = `UPDATE savings SET name = ?, goal_amount_cents = ? WHERE id = ?`

func (q *Queries) UpdateSavings(ctx context.Context, id int64, name string, goal sql.NullInt64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, updateSavings, name, goal, id))
}

const adjustSavingsBalance = `UPDATE savings SET current_amount_cents = current_amount_cents + ? WHERE id = ?`

func (q *Queries) AdjustSavingsBalance(ctx context.Context, id int64, deltaCents int64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, adjustSavingsBalance, deltaCents, id))
}

const createSavingsTransaction = `
INSERT INTO savings_transactions (savings_id, amount_cents, transaction_type, date, notes)
VALUES (?, ?, ?, ?, ?)
RETURNING id
`

type CreateLedgerEntryParams struct {
	AccountID       int64
	AmountCents     int64
	TransactionType string
	Date            string
	Notes           sql.NullString
}

func (q *Queries) CreateSavingsTransaction(ctx context.Context, arg CreateLedgerEntryParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createSavingsTransaction,
		arg.AccountID, arg.AmountCents, arg.TransactionType, arg.Date, arg.Notes).Scan(&id)
	return id, err
}

const listSavingsTransactions = `
SELECT id, savings_id, amount_cents, transaction_type, date, notes FROM savings_transactions
WHERE savings_id = ?
ORDER BY date DESC, id DESC
`

func (q *Queries) ListSavingsTransactions(ctx context.Context, savingsID int64) ([]SavingsTransaction, error) {
	rows, err := q.db.QueryContext(ctx, listSavingsTransactions, savingsID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SavingsTransaction
	for rows.Next() {
		var t SavingsTransaction
		if err := rows.Scan(&t.ID, &t.SavingsID, &t.AmountCents, &t.TransactionType, &t.Date, &t.Notes); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) DeleteSavingsTransactions(ctx context.Context, savingsID int64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, `DELETE FROM savings_transactions WHERE savings_id = ?`, savingsID))
}

func (q *Queries) DeleteSavings(ctx context.Context, id int64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, `DELETE FROM savings WHERE id = ?`, id))
}

func (q *Queries) TotalSavings(ctx context.Context) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(current_amount_cents), 0) FROM savings`).Scan(&total)
	return total, err
}

const signedAmount = `CASE transaction_type WHEN 'deposit' THEN amount_cents ELSE -amount_cents END`

func (q *Queries) SavingsLedgerSum(ctx context.Context, savingsID int64) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(`+signedAmount+`), 0) FROM savings_transactions WHERE savings_id = ?`,
		savingsID).Scan(&total)
	return total, err
}

// EnsureBillAccount inserts the zero-balance singleton when the table is empty.
const ensureBillAccount = `
INSERT INTO bill_account (balance_cents)
SELECT 0 WHERE NOT EXISTS (SELECT 1 FROM bill_account)
`

func (q *Queries) EnsureBillAccount(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, ensureBillAccount)
	return err
}

const getBillAccount = `SELECT id, balance_cents, created_at FROM bill_account ORDER BY id LIMIT 1`

func (q *Queries) GetBillAccount(ctx context.Context) (BillAccount, error) {
	var a BillAccount
	err := q.db.QueryRowContext(ctx, getBillAccount).Scan(&a.ID, &a.BalanceCents, &a.CreatedAt)
	return a, err
}

const adjustBillAccountBalance = `UPDATE bill_account SET balance_cents = balance_cents + ? WHERE id = ?`

func (q *Queries) AdjustBillAccountBalance(ctx context.Context, id int64, deltaCents int64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, adjustBillAccountBalance, deltaCents, id))
}

func (q *Queries) SetBillAccountBalance(ctx context.Context, id int64, balanceCents int64) (int64, error) {
	return rowsAffected(q.db.ExecContext(ctx, `UPDATE bill_account SET balance_cents = ? WHERE id = ?`, balanceCents, id))
}

const createBillAccountTransaction = `
INSERT INTO bill_account_transactions (amount_cents, transaction_type, date, notes)
VALUES (?, ?, ?, ?)
RETURNING id
`

func (q *Queries) CreateBillAccountTransaction(ctx context.Context, arg CreateLedgerEntryParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createBillAccountTransaction,
		arg.AmountCents, arg.TransactionType, arg.Date, arg.Notes).Scan(&id)
	return id, err
}

const listBillAccountTransactions = `
SELECT id, amount_cents, transaction_type, date, notes, created_at FROM bill_account_transactions
ORDER BY date DESC, id DESC
LIMIT ?
`

func (q *Queries) ListBillAccountTransactions(ctx context.Context, limit int64) ([]BillAccountTransaction, error) {
	rows, err := q.db.QueryContext(ctx, listBillAccountTransactions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BillAccountTransaction
	for rows.Next() {
		var t BillAccountTransaction
		if err := rows.Scan(&t.ID, &t.AmountCents, &t.TransactionType, &t.Date, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) BillAccountLedgerSum(ctx context.Context) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(`+signedAmount+`), 0) FROM bill_account_transactions`).Scan(&total)
	return total, err
}
