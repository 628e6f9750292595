package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"nekobudget/internal/core"
)

// SQLiteRepository is the ledger store. It assumes it is the only writer
// of its database file. It does not log; every failure is returned to the
// caller wrapped in one of the core error kinds.
type SQLiteRepository struct {
	db            *sql.DB
	queries       *Queries
	billAccountID int64
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w: %w", core.ErrStorage, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w: %w", core.ErrStorage, err)
	}
	// Single writer: one connection also serialises every transaction
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w: %w", core.ErrStorage, err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w: %w", core.ErrStorage, err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
	}

	ctx := context.Background()
	if err := repo.queries.EnsureBillAccount(ctx); err != nil {
		db.Close()
		return nil, wrapErr("ensure bill account", err)
	}
	account, err := repo.queries.GetBillAccount(ctx)
	if err != nil {
		db.Close()
		return nil, wrapErr("load bill account", err)
	}
	repo.billAccountID = account.ID

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// withTx runs fn inside one transaction. fn must only use the Queries it is
// handed: the pool holds a single connection.
func (r *SQLiteRepository) withTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

// AddMonthlyBill stores a new active bill and returns its id.
func (r *SQLiteRepository) AddMonthlyBill(ctx context.Context, b core.MonthlyBill) (int64, error) {
	if err := checkPositive(b.Amount); err != nil {
		return 0, fmt.Errorf("create monthly bill: %w", err)
	}
	id, err := r.queries.CreateMonthlyBill(ctx, CreateMonthlyBillParams{
		Name:        b.Name,
		AmountCents: b.Amount.Cents,
		DueDay:      nullInt(int64(b.DueDay)),
		Category:    nullString(b.Category),
	})
	if err != nil {
		return 0, wrapErr("create monthly bill", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetMonthlyBill(ctx context.Context, id int64) (core.MonthlyBill, error) {
	b, err := r.queries.GetMonthlyBill(ctx, id)
	if err != nil {
		return core.MonthlyBill{}, wrapErr(fmt.Sprintf("get monthly bill %d", id), err)
	}
	return toCoreBill(b), nil
}

// ListMonthlyBills returns bills by due day ascending, bills without a due
// day last.
func (r *SQLiteRepository) ListMonthlyBills(ctx context.Context, activeOnly bool) ([]core.MonthlyBill, error) {
	rows, err := r.queries.ListMonthlyBills(ctx, activeOnly)
	if err != nil {
		return nil, wrapErr("list monthly bills", err)
	}
	bills := make([]core.MonthlyBill, len(rows))
	for i, b := range rows {
		bills[i] = toCoreBill(b)
	}
	return bills, nil
}

func (r *SQLiteRepository) UpdateMonthlyBill(ctx context.Context, b core.MonthlyBill) error {
	if err := checkPositive(b.Amount); err != nil {
		return fmt.Errorf("update monthly bill: %w", err)
	}
	n, err := r.queries.UpdateMonthlyBill(ctx, UpdateMonthlyBillParams{
		ID:          b.ID,
		Name:        b.Name,
		AmountCents: b.Amount.Cents,
		DueDay:      nullInt(int64(b.DueDay)),
		Category:    nullString(b.Category),
	})
	return wrapErr("update monthly bill", expectOne(n, err, "monthly bill", b.ID))
}

// DeactivateBill soft-deletes a bill. Repeating it is a no-op.
func (r *SQLiteRepository) DeactivateBill(ctx context.Context, id int64) error {
	n, err := r.queries.SetMonthlyBillActive(ctx, id, false)
	return wrapErr("deactivate bill", expectOne(n, err, "monthly bill", id))
}

// ReactivateBill reverses DeactivateBill.
func (r *SQLiteRepository) ReactivateBill(ctx context.Context, id int64) error {
	n, err := r.queries.SetMonthlyBillActive(ctx, id, true)
	return wrapErr("reactivate bill", expectOne(n, err, "monthly bill", id))
}

func (r *SQLiteRepository) TotalActiveBills(ctx context.Context) (core.Money, error) {
	total, err := r.queries.TotalActiveBills(ctx)
	if err != nil {
		return core.Money{}, wrapErr("total active bills", err)
	}
	return core.Cents(total), nil
}

// MarkBillPaid records payment for one month, replacing any earlier mark
// for the same bill and month.
func (r *SQLiteRepository) MarkBillPaid(ctx context.Context, billID int64, ym core.YearMonth, paidDate core.Date) error {
	err := r.withTx(ctx, func(q *Queries) error {
		if _, err := q.GetMonthlyBill(ctx, billID); err != nil {
			if err == sql.ErrNoRows {
				return notFound("monthly bill", billID)
			}
			return err
		}
		return q.UpsertPaidBill(ctx, UpsertPaidBillParams{
			BillID:   billID,
			Year:     int64(ym.Year),
			Month:    int64(ym.Month),
			PaidDate: paidDate.String(),
		})
	})
	return wrapErr("mark bill paid", err)
}

// MarkBillUnpaid removes the month's mark; absent marks are ignored.
func (r *SQLiteRepository) MarkBillUnpaid(ctx context.Context, billID int64, ym core.YearMonth) error {
	err := r.queries.DeletePaidBill(ctx, billID, int64(ym.Year), int64(ym.Month))
	return wrapErr("mark bill unpaid", err)
}

func (r *SQLiteRepository) IsBillPaid(ctx context.Context, billID int64, ym core.YearMonth) (bool, error) {
	_, err := r.queries.GetPaidBill(ctx, billID, int64(ym.Year), int64(ym.Month))
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, wrapErr("check bill paid", err)
	}
	return true, nil
}

// PaidBills returns the month's paid marks keyed by bill id.
func (r *SQLiteRepository) PaidBills(ctx context.Context, ym core.YearMonth) (map[int64]core.PaidBillMark, error) {
	rows, err := r.queries.ListPaidBills(ctx, int64(ym.Year), int64(ym.Month))
	if err != nil {
		return nil, wrapErr("list paid bills", err)
	}
	marks := make(map[int64]core.PaidBillMark, len(rows))
	for _, p := range rows {
		marks[p.BillID] = core.PaidBillMark{
			ID:       p.ID,
			BillID:   p.BillID,
			Period:   core.YearMonth{Year: int(p.Year), Month: int(p.Month)},
			PaidDate: parseStoredDate(p.PaidDate),
		}
	}
	return marks, nil
}

// PaidBillIDs returns the set of bills paid in the month.
func (r *SQLiteRepository) PaidBillIDs(ctx context.Context, ym core.YearMonth) (map[int64]bool, error) {
	marks, err := r.PaidBills(ctx, ym)
	if err != nil {
		return nil, err
	}
	ids := make(map[int64]bool, len(marks))
	for id := range marks {
		ids[id] = true
	}
	return ids, nil
}

// UnpaidBillsTotal sums the active bills with no paid mark for the month.
func (r *SQLiteRepository) UnpaidBillsTotal(ctx context.Context, ym core.YearMonth) (core.Money, error) {
	total, err := r.queries.UnpaidBillsTotal(ctx, int64(ym.Year), int64(ym.Month))
	if err != nil {
		return core.Money{}, wrapErr("unpaid bills total", err)
	}
	return core.Cents(total), nil
}

func toCoreBill(b MonthlyBill) core.MonthlyBill {
	return core.MonthlyBill{
		ID:        b.ID,
		Name:      b.Name,
		Amount:    core.Cents(b.AmountCents),
		DueDay:    int(b.DueDay.Int64),
		Category:  b.Category.String,
		Active:    b.IsActive,
		CreatedAt: b.CreatedAt,
	}
}

// parseStoredDate reads a date column. The store treats dates as opaque
// text, so an unparsable value yields the zero Date rather than an error.
func parseStoredDate(s string) core.Date {
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}
	}
	return d
}
