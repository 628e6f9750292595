package storage

import (
	"context"
	"fmt"

	"nekobudget/internal/core"
)

// DefaultHistoryLimit caps bill-account history when the caller passes no limit.
const DefaultHistoryLimit = 50

const openingBalanceNote = "Opening balance"

func checkLedgerEntry(amount core.Money, kind core.TransactionKind) error {
	if err := checkPositive(amount); err != nil {
		return err
	}
	if kind.Validate() != nil {
		return core.Constraint(core.ErrInvalidKind)
	}
	return nil
}

// CreateSavingsAccount creates a goal account. A positive a.Current is
// booked as an opening deposit so the balance still matches the ledger.
func (r *SQLiteRepository) CreateSavingsAccount(ctx context.Context, a core.SavingsAccount) (int64, error) {
	if a.Current.Cents < 0 || a.Goal.Cents < 0 {
		return 0, fmt.Errorf("create savings account: %w", core.Constraint(core.ErrInvalidAmount))
	}
	var id int64
	err := r.withTx(ctx, func(q *Queries) error {
		var err error
		id, err = q.CreateSavings(ctx, a.Name, nullInt(a.Goal.Cents))
		if err != nil {
			return err
		}
		if a.Current.Cents == 0 {
			return nil
		}
		return recordSavings(ctx, q, core.SavingsTransaction{
			AccountID: id,
			Amount:    a.Current,
			Kind:      core.Deposit,
			Date:      core.Today(),
			Notes:     openingBalanceNote,
		}, nil)
	})
	if err != nil {
		return 0, wrapErr("create savings account", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetSavingsAccount(ctx context.Context, id int64) (core.SavingsAccount, error) {
	a, err := r.queries.GetSavings(ctx, id)
	if err != nil {
		return core.SavingsAccount{}, wrapErr(fmt.Sprintf("get savings account %d", id), err)
	}
	return toCoreSavings(a), nil
}

// ListSavingsAccounts returns accounts ordered by name.
func (r *SQLiteRepository) ListSavingsAccounts(ctx context.Context) ([]core.SavingsAccount, error) {
	rows, err := r.queries.ListSavings(ctx)
	if err != nil {
		return nil, wrapErr("list savings accounts", err)
	}
	out := make([]core.SavingsAccount, len(rows))
	for i, a := range rows {
		out[i] = toCoreSavings(a)
	}
	return out, nil
}

// UpdateSavingsAccount renames an account and sets its goal. The balance
// only moves through RecordSavingsTransaction.
func (r *SQLiteRepository) UpdateSavingsAccount(ctx context.Context, id int64, name string, goal core.Money) error {
	if goal.Cents < 0 {
		return fmt.Errorf("update savings account: %w", core.Constraint(core.ErrInvalidAmount))
	}
	n, err := r.queries.UpdateSavings(ctx, id, name, nullInt(goal.Cents))
	return wrapErr("update savings account", expectOne(n, err, "savings account", id))
}

// RecordSavingsTransaction appends to the account's ledger and moves its
// balance in the same transaction.
func (r *SQLiteRepository) RecordSavingsTransaction(ctx context.Context, t core.SavingsTransaction) (int64, error) {
	if err := checkLedgerEntry(t.Amount, t.Kind); err != nil {
		return 0, fmt.Errorf("record savings transaction: %w", err)
	}
	var id int64
	err := r.withTx(ctx, func(q *Queries) error {
		return recordSavings(ctx, q, t, &id)
	})
	if err != nil {
		return 0, wrapErr("record savings transaction", err)
	}
	return id, nil
}

func recordSavings(ctx context.Context, q *Queries, t core.SavingsTransaction, id *int64) error {
	n, err := q.AdjustSavingsBalance(ctx, t.AccountID, t.Kind.Signed(t.Amount).Cents)
	if err := expectOne(n, err, "savings account", t.AccountID); err != nil {
		return err
	}
	txID, err := q.CreateSavingsTransaction(ctx, CreateLedgerEntryParams{
		AccountID:       t.AccountID,
		AmountCents:     t.Amount.Cents,
		TransactionType: string(t.Kind),
		Date:            t.Date.String(),
		Notes:           nullString(t.Notes),
	})
	if err != nil {
		return err
	}
	if id != nil {
		*id = txID
	}
	return nil
}

// ListSavingsTransactions returns the account's ledger newest first.
func (r *SQLiteRepository) ListSavingsTransactions(ctx context.Context, accountID int64) ([]core.SavingsTransaction, error) {
	rows, err := r.queries.ListSavingsTransactions(ctx, accountID)
	if err != nil {
		return nil, wrapErr("list savings transactions", err)
	}
	out := make([]core.SavingsTransaction, len(rows))
	for i, t := range rows {
		out[i] = core.SavingsTransaction{
			ID:        t.ID,
			AccountID: t.SavingsID,
			Amount:    core.Cents(t.AmountCents),
			Kind:      core.TransactionKind(t.TransactionType),
			Date:      parseStoredDate(t.Date),
			Notes:     t.Notes.String,
		}
	}
	return out, nil
}

// TotalSavings sums the balances of every account.
func (r *SQLiteRepository) TotalSavings(ctx context.Context) (core.Money, error) {
	total, err := r.queries.TotalSavings(ctx)
	if err != nil {
		return core.Money{}, wrapErr("total savings", err)
	}
	return core.Cents(total), nil
}

// SavingsLedgerSum recomputes an account's balance from its ledger.
func (r *SQLiteRepository) SavingsLedgerSum(ctx context.Context, accountID int64) (core.Money, error) {
	total, err := r.queries.SavingsLedgerSum(ctx, accountID)
	if err != nil {
		return core.Money{}, wrapErr("savings ledger sum", err)
	}
	return core.Cents(total), nil
}

// DeleteSavingsAccount removes the account's ledger and then the account.
func (r *SQLiteRepository) DeleteSavingsAccount(ctx context.Context, id int64) error {
	err := r.withTx(ctx, func(q *Queries) error {
		if _, err := q.DeleteSavingsTransactions(ctx, id); err != nil {
			return err
		}
		n, err := q.DeleteSavings(ctx, id)
		return expectOne(n, err, "savings account", id)
	})
	return wrapErr("delete savings account", err)
}

// BillAccount returns the single bill account.
func (r *SQLiteRepository) BillAccount(ctx context.Context) (core.BillAccount, error) {
	a, err := r.queries.GetBillAccount(ctx)
	if err != nil {
		return core.BillAccount{}, wrapErr("get bill account", err)
	}
	return core.BillAccount{
		ID:        a.ID,
		Balance:   core.Cents(a.BalanceCents),
		CreatedAt: a.CreatedAt,
	}, nil
}

// RecordBillAccountTransaction appends to the bill-account ledger and moves
// the balance in the same transaction.
func (r *SQLiteRepository) RecordBillAccountTransaction(ctx context.Context, t core.BillAccountTransaction) (int64, error) {
	if err := checkLedgerEntry(t.Amount, t.Kind); err != nil {
		return 0, fmt.Errorf("record bill account transaction: %w", err)
	}
	var id int64
	err := r.withTx(ctx, func(q *Queries) error {
		n, err := q.AdjustBillAccountBalance(ctx, r.billAccountID, t.Kind.Signed(t.Amount).Cents)
		if err := expectOne(n, err, "bill account", r.billAccountID); err != nil {
			return err
		}
		id, err = q.CreateBillAccountTransaction(ctx, CreateLedgerEntryParams{
			AmountCents:     t.Amount.Cents,
			TransactionType: string(t.Kind),
			Date:            t.Date.String(),
			Notes:           nullString(t.Notes),
		})
		return err
	})
	if err != nil {
		return 0, wrapErr("record bill account transaction", err)
	}
	return id, nil
}

// ListBillAccountTransactions returns up to limit entries, newest first.
func (r *SQLiteRepository) ListBillAccountTransactions(ctx context.Context, limit int) ([]core.BillAccountTransaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	rows, err := r.queries.ListBillAccountTransactions(ctx, int64(limit))
	if err != nil {
		return nil, wrapErr("list bill account transactions", err)
	}
	out := make([]core.BillAccountTransaction, len(rows))
	for i, t := range rows {
		out[i] = core.BillAccountTransaction{
			ID:        t.ID,
			Amount:    core.Cents(t.AmountCents),
			Kind:      core.TransactionKind(t.TransactionType),
			Date:      parseStoredDate(t.Date),
			Notes:     t.Notes.String,
			CreatedAt: t.CreatedAt,
		}
	}
	return out, nil
}

// SetBillAccountBalance overwrites the balance without a ledger entry.
// This is the manual correction path: afterwards the balance no longer
// equals BillAccountLedgerSum, and nothing records why.
func (r *SQLiteRepository) SetBillAccountBalance(ctx context.Context, balance core.Money) error {
	if balance.Cents < 0 {
		return fmt.Errorf("set bill account balance: %w", core.Constraint(core.ErrInvalidAmount))
	}
	n, err := r.queries.SetBillAccountBalance(ctx, r.billAccountID, balance.Cents)
	return wrapErr("set bill account balance", expectOne(n, err, "bill account", r.billAccountID))
}

// BillAccountLedgerSum recomputes the bill-account balance from its ledger.
func (r *SQLiteRepository) BillAccountLedgerSum(ctx context.Context) (core.Money, error) {
	total, err := r.queries.BillAccountLedgerSum(ctx)
	if err != nil {
		return core.Money{}, wrapErr("bill account ledger sum", err)
	}
	return core.Cents(total), nil
}

func toCoreSavings(a Saving) core.SavingsAccount {
	return core.SavingsAccount{
		ID:        a.ID,
		Name:      a.Name,
		Current:   core.Cents(a.CurrentAmountCents),
		Goal:      core.Cents(a.GoalAmountCents.Int64),
		CreatedAt: a.CreatedAt,
	}
}
