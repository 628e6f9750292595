package storage

import (
	"context"

	"nekobudget/internal/core"
)

// GetOrCreateMonthlyPage returns the month's page, inserting an empty one on
// first access. An existing page is never modified.
func (r *SQLiteRepository) GetOrCreateMonthlyPage(ctx context.Context, ym core.YearMonth) (core.MonthlyPage, error) {
	var page MonthlyPage
	err := r.withTx(ctx, func(q *Queries) error {
		if err := q.CreateMonthlyPageIfMissing(ctx, int64(ym.Year), int64(ym.Month)); err != nil {
			return err
		}
		var err error
		page, err = q.GetMonthlyPage(ctx, int64(ym.Year), int64(ym.Month))
		return err
	})
	if err != nil {
		return core.MonthlyPage{}, wrapErr("get or create monthly page", err)
	}
	return toCorePage(page), nil
}

// UpdateMonthlyPageNotes sets the month's notes, creating the page if needed.
func (r *SQLiteRepository) UpdateMonthlyPageNotes(ctx context.Context, ym core.YearMonth, notes string) (core.MonthlyPage, error) {
	var page MonthlyPage
	err := r.withTx(ctx, func(q *Queries) error {
		if err := q.UpsertMonthlyPageNotes(ctx, int64(ym.Year), int64(ym.Month), nullString(notes)); err != nil {
			return err
		}
		var err error
		page, err = q.GetMonthlyPage(ctx, int64(ym.Year), int64(ym.Month))
		return err
	})
	if err != nil {
		return core.MonthlyPage{}, wrapErr("update monthly page notes", err)
	}
	return toCorePage(page), nil
}

// ListMonthlyPages returns pages newest month first.
func (r *SQLiteRepository) ListMonthlyPages(ctx context.Context) ([]core.MonthlyPage, error) {
	rows, err := r.queries.ListMonthlyPages(ctx)
	if err != nil {
		return nil, wrapErr("list monthly pages", err)
	}
	out := make([]core.MonthlyPage, len(rows))
	for i, p := range rows {
		out[i] = toCorePage(p)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteMonthlyPage(ctx context.Context, ym core.YearMonth) error {
	n, err := r.queries.DeleteMonthlyPage(ctx, int64(ym.Year), int64(ym.Month))
	if err == nil && n == 0 {
		return wrapErr("delete monthly page "+ym.String(), core.ErrNotFound)
	}
	return wrapErr("delete monthly page", err)
}

// MonthlySummary aggregates the month's paychecks and purchases against the
// current total of active bills.
func (r *SQLiteRepository) MonthlySummary(ctx context.Context, ym core.YearMonth) (core.MonthlySummary, error) {
	from, to := monthBounds(ym)

	income, paychecks, err := r.queries.SumPaychecks(ctx, from, to)
	if err != nil {
		return core.MonthlySummary{}, wrapErr("sum paychecks", err)
	}
	spent, purchases, err := r.queries.SumPurchases(ctx, from, to)
	if err != nil {
		return core.MonthlySummary{}, wrapErr("sum purchases", err)
	}
	bills, err := r.queries.TotalActiveBills(ctx)
	if err != nil {
		return core.MonthlySummary{}, wrapErr("total active bills", err)
	}

	return core.NewMonthlySummary(ym,
		core.Cents(income), core.Cents(spent), core.Cents(bills),
		int(paychecks), int(purchases)), nil
}

func toCorePage(p MonthlyPage) core.MonthlyPage {
	return core.MonthlyPage{
		ID:        p.ID,
		Period:    core.YearMonth{Year: int(p.Year), Month: int(p.Month)},
		Notes:     p.Notes.String,
		CreatedAt: p.CreatedAt,
	}
}
