package storage

import (
	"context"
	"fmt"

	"nekobudget/internal/core"
)

// EntryFilter narrows paycheck and purchase listings. A nil Period lists
// everything.
type EntryFilter struct {
	Period *core.YearMonth
}

// ForMonth filters to one month.
func ForMonth(ym core.YearMonth) EntryFilter {
	return EntryFilter{Period: &ym}
}

func (f EntryFilter) bounds() (from, to string) {
	if f.Period == nil {
		return "", ""
	}
	return monthBounds(*f.Period)
}

// monthBounds returns inclusive text bounds for dates in ym. Day 31 works for
// every month since dates compare as YYYY-MM-DD strings.
func monthBounds(ym core.YearMonth) (from, to string) {
	return ym.FirstDay().String(), ym.String() + "-31"
}

func (r *SQLiteRepository) AddPaycheck(ctx context.Context, p core.Paycheck) (int64, error) {
	if err := checkPositive(p.Amount); err != nil {
		return 0, fmt.Errorf("create paycheck: %w", err)
	}
	id, err := r.queries.CreatePaycheck(ctx, CreatePaycheckParams{
		AmountCents: p.Amount.Cents,
		Date:        p.Date.String(),
		Source:      nullString(p.Source),
		Notes:       nullString(p.Notes),
	})
	if err != nil {
		return 0, wrapErr("create paycheck", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetPaycheck(ctx context.Context, id int64) (core.Paycheck, error) {
	p, err := r.queries.GetPaycheck(ctx, id)
	if err != nil {
		return core.Paycheck{}, wrapErr(fmt.Sprintf("get paycheck %d", id), err)
	}
	return toCorePaycheck(p), nil
}

// ListPaychecks returns paychecks newest first.
func (r *SQLiteRepository) ListPaychecks(ctx context.Context, f EntryFilter) ([]core.Paycheck, error) {
	from, to := f.bounds()
	rows, err := r.queries.ListPaychecks(ctx, from, to)
	if err != nil {
		return nil, wrapErr("list paychecks", err)
	}
	out := make([]core.Paycheck, len(rows))
	for i, p := range rows {
		out[i] = toCorePaycheck(p)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdatePaycheck(ctx context.Context, p core.Paycheck) error {
	if err := checkPositive(p.Amount); err != nil {
		return fmt.Errorf("update paycheck: %w", err)
	}
	n, err := r.queries.UpdatePaycheck(ctx, UpdatePaycheckParams{
		ID:          p.ID,
		AmountCents: p.Amount.Cents,
		Date:        p.Date.String(),
		Source:      nullString(p.Source),
		Notes:       nullString(p.Notes),
	})
	return wrapErr("update paycheck", expectOne(n, err, "paycheck", p.ID))
}

func (r *SQLiteRepository) DeletePaycheck(ctx context.Context, id int64) error {
	n, err := r.queries.DeletePaycheck(ctx, id)
	return wrapErr("delete paycheck", expectOne(n, err, "paycheck", id))
}

func (r *SQLiteRepository) AddPurchase(ctx context.Context, p core.Purchase) (int64, error) {
	if err := checkPositive(p.Amount); err != nil {
		return 0, fmt.Errorf("create purchase: %w", err)
	}
	id, err := r.queries.CreatePurchase(ctx, CreatePurchaseParams{
		Name:        p.Name,
		AmountCents: p.Amount.Cents,
		Date:        p.Date.String(),
		Category:    nullString(p.Category),
		ReceiptPath: nullString(p.ReceiptPath),
		Notes:       nullString(p.Notes),
	})
	if err != nil {
		return 0, wrapErr("create purchase", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetPurchase(ctx context.Context, id int64) (core.Purchase, error) {
	p, err := r.queries.GetPurchase(ctx, id)
	if err != nil {
		return core.Purchase{}, wrapErr(fmt.Sprintf("get purchase %d", id), err)
	}
	return toCorePurchase(p), nil
}

// ListPurchases returns purchases newest first.
func (r *SQLiteRepository) ListPurchases(ctx context.Context, f EntryFilter) ([]core.Purchase, error) {
	from, to := f.bounds()
	rows, err := r.queries.ListPurchases(ctx, from, to)
	if err != nil {
		return nil, wrapErr("list purchases", err)
	}
	out := make([]core.Purchase, len(rows))
	for i, p := range rows {
		out[i] = toCorePurchase(p)
	}
	return out, nil
}

func (r *SQLiteRepository) UpdatePurchase(ctx context.Context, p core.Purchase) error {
	if err := checkPositive(p.Amount); err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	n, err := r.queries.UpdatePurchase(ctx, UpdatePurchaseParams{
		ID:          p.ID,
		Name:        p.Name,
		AmountCents: p.Amount.Cents,
		Date:        p.Date.String(),
		Category:    nullString(p.Category),
		ReceiptPath: nullString(p.ReceiptPath),
		Notes:       nullString(p.Notes),
	})
	return wrapErr("update purchase", expectOne(n, err, "purchase", p.ID))
}

// DeletePurchase removes the row only; the receipt file, if any, is left
// for the caller.
func (r *SQLiteRepository) DeletePurchase(ctx context.Context, id int64) error {
	n, err := r.queries.DeletePurchase(ctx, id)
	return wrapErr("delete purchase", expectOne(n, err, "purchase", id))
}

// PurchaseTotalsByCategory returns the month's purchases grouped by
// category, largest first. Uncategorised purchases group under "".
func (r *SQLiteRepository) PurchaseTotalsByCategory(ctx context.Context, ym core.YearMonth) ([]core.CategoryAmount, error) {
	from, to := monthBounds(ym)
	rows, err := r.queries.PurchaseCategorySums(ctx, from, to)
	if err != nil {
		return nil, wrapErr("purchase category sums", err)
	}
	out := make([]core.CategoryAmount, len(rows))
	for i, cs := range rows {
		out[i] = core.CategoryAmount{
			Name:   cs.Category,
			Amount: core.Cents(cs.TotalAmount),
			Count:  int(cs.Count),
		}
	}
	return out, nil
}

func toCorePaycheck(p Paycheck) core.Paycheck {
	return core.Paycheck{
		ID:        p.ID,
		Amount:    core.Cents(p.AmountCents),
		Date:      parseStoredDate(p.Date),
		Source:    p.Source.String,
		Notes:     p.Notes.String,
		CreatedAt: p.CreatedAt,
	}
}

func toCorePurchase(p Purchase) core.Purchase {
	return core.Purchase{
		ID:          p.ID,
		Name:        p.Name,
		Amount:      core.Cents(p.AmountCents),
		Date:        parseStoredDate(p.Date),
		Category:    p.Category.String,
		ReceiptPath: p.ReceiptPath.String,
		Notes:       p.Notes.String,
		CreatedAt:   p.CreatedAt,
	}
}
