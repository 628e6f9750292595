package services

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nekobudget/internal/core"
	"nekobudget/internal/log"
	"nekobudget/internal/storage"
)

var march2024 = core.YearMonth{Year: 2024, Month: 3}

func newTestService(t *testing.T, opts ...Option) (*BudgetService, *bytes.Buffer) {
	t.Helper()
	store, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "nekobudget.db"))
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := log.New(log.Config{Level: slog.LevelDebug, Component: log.ComponentApp, Output: &buf})

	clock := func() time.Time { return time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC) }
	svc := NewBudgetService(store, logger, append([]Option{WithClock(clock)}, opts...)...)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, &buf
}

func TestBudgetService_ValidationHappensBeforeStore(t *testing.T) {
	svc, buf := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddBill(ctx, core.MonthlyBill{Name: "", Amount: core.Cents(100)})
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.ErrorIs(t, err, core.ErrEmptyName)

	_, err = svc.AddBill(ctx, core.MonthlyBill{Name: "Rent", Amount: core.Cents(0)})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.AddBill(ctx, core.MonthlyBill{Name: "Rent", Amount: core.Cents(100), DueDay: 32})
	assert.ErrorIs(t, err, core.ErrInvalidDueDay)

	_, err = svc.AddPaycheck(ctx, core.Paycheck{Amount: core.Cents(100)})
	assert.ErrorIs(t, err, core.ErrValidation, "paycheck without date")

	_, err = svc.RecordSavingsTransaction(ctx, core.SavingsTransaction{AccountID: 1, Amount: core.Cents(100), Kind: "borrow"})
	assert.ErrorIs(t, err, core.ErrInvalidKind)

	err = svc.MarkBillPaid(ctx, 1, core.YearMonth{Year: 2024, Month: 13}, core.Date{})
	assert.ErrorIs(t, err, core.ErrInvalidMonth)

	bills, err := svc.ListBills(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, bills)

	assert.Contains(t, buf.String(), "error_type=validation_error")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestBudgetService_RentScenario(t *testing.T) {
	svc, buf := newTestService(t)
	ctx := context.Background()

	amount, err := core.ParseAmount("1200.00")
	require.NoError(t, err)
	id, err := svc.AddBill(ctx, core.MonthlyBill{Name: "Rent", Amount: amount, DueDay: 1})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Bill added")
	assert.Contains(t, buf.String(), "component=budget")

	require.NoError(t, svc.MarkBillPaid(ctx, id, march2024, core.Date{}))

	o, err := svc.Overview(ctx, march2024)
	require.NoError(t, err)
	require.Len(t, o.Bills, 1)
	assert.True(t, o.Bills[0].Paid)
	assert.Equal(t, "2024-03-20", o.Bills[0].PaidDate.String(), "zero paid date defaults to today")
	assert.True(t, o.UnpaidTotal.IsZero())

	april := march2024.Next()
	o, err = svc.Overview(ctx, april)
	require.NoError(t, err)
	assert.Equal(t, "1200.00", o.UnpaidTotal.String())
	assert.False(t, o.Bills[0].Overdue, "april 1st is after the service clock")
}

func TestBudgetService_WithdrawalFundsCheck(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateSavingsAccount(ctx, core.SavingsAccount{Name: "Trip", Goal: core.Cents(50000)})
	require.NoError(t, err)
	_, err = svc.RecordSavingsTransaction(ctx, core.SavingsTransaction{AccountID: id, Amount: core.Cents(15000), Kind: core.Deposit})
	require.NoError(t, err)

	_, err = svc.RecordSavingsTransaction(ctx, core.SavingsTransaction{AccountID: id, Amount: core.Cents(20000), Kind: core.Withdraw})
	assert.ErrorIs(t, err, core.ErrConstraint)
	assert.ErrorIs(t, err, core.ErrInsufficientFunds)

	_, err = svc.RecordSavingsTransaction(ctx, core.SavingsTransaction{AccountID: id, Amount: core.Cents(5000), Kind: core.Withdraw})
	require.NoError(t, err)

	a, err := svc.GetSavingsAccount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "100.00", a.Current.String())

	history, err := svc.SavingsHistory(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, "2024-03-20", history[0].Date.String())

	_, err = svc.RecordBillAccountTransaction(ctx, core.BillAccountTransaction{Amount: core.Cents(1), Kind: core.Withdraw})
	assert.ErrorIs(t, err, core.ErrInsufficientFunds)

	_, err = svc.SavingsHistory(ctx, 404)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestBudgetService_FundsCheckDisabled(t *testing.T) {
	svc, _ := newTestService(t, WithFundsCheck(false))
	ctx := context.Background()

	_, err := svc.RecordBillAccountTransaction(ctx, core.BillAccountTransaction{Amount: core.Cents(2500), Kind: core.Withdraw})
	require.NoError(t, err)

	a, err := svc.BillAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(-2500), a.Balance.Cents)
}

func TestBudgetService_OverrideLogsWarning(t *testing.T) {
	svc, buf := newTestService(t)
	ctx := context.Background()

	_, err := svc.RecordBillAccountTransaction(ctx, core.BillAccountTransaction{Amount: core.Cents(30000), Kind: core.Deposit})
	require.NoError(t, err)

	require.NoError(t, svc.OverrideBillAccountBalance(ctx, core.Cents(45000)))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "old_balance_cents=30000")
	assert.Contains(t, out, "balance_cents=45000")
	assert.Contains(t, out, "ledger_sum_cents=30000")

	drift, err := svc.CheckLedgers(ctx)
	require.NoError(t, err)
	require.Len(t, drift, 1)
	assert.Equal(t, "bill_account", drift[0].Entity)
	assert.Equal(t, int64(15000), drift[0].Balance.Cents-drift[0].LedgerSum.Cents)

	err = svc.OverrideBillAccountBalance(ctx, core.Cents(-1))
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestBudgetService_CheckLedgersClean(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateSavingsAccount(ctx, core.SavingsAccount{Name: "Rainy day", Current: core.Cents(1234)})
	require.NoError(t, err)
	_, err = svc.RecordBillAccountTransaction(ctx, core.BillAccountTransaction{Amount: core.Cents(500), Kind: core.Deposit})
	require.NoError(t, err)

	drift, err := svc.CheckLedgers(ctx)
	require.NoError(t, err)
	assert.Empty(t, drift)
}

func TestBudgetService_Overview(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rent, err := svc.AddBill(ctx, core.MonthlyBill{Name: "Rent", Amount: core.Cents(120000), DueDay: 1})
	require.NoError(t, err)
	_, err = svc.AddBill(ctx, core.MonthlyBill{Name: "Internet", Amount: core.Cents(6000), DueDay: 25})
	require.NoError(t, err)
	_, err = svc.AddBill(ctx, core.MonthlyBill{Name: "Phone", Amount: core.Cents(4000), DueDay: 15})
	require.NoError(t, err)
	require.NoError(t, svc.MarkBillPaid(ctx, rent, march2024, core.NewDate(2024, 3, 1)))

	_, err = svc.AddPaycheck(ctx, core.Paycheck{Amount: core.Cents(300000), Date: core.NewDate(2024, 3, 1)})
	require.NoError(t, err)
	_, err = svc.AddPurchase(ctx, core.Purchase{Name: "Groceries", Amount: core.Cents(8000), Date: core.NewDate(2024, 3, 3), Category: "Food"})
	require.NoError(t, err)

	_, err = svc.CreateSavingsAccount(ctx, core.SavingsAccount{Name: "Trip", Current: core.Cents(10000), Goal: core.Cents(50000)})
	require.NoError(t, err)
	_, err = svc.RecordBillAccountTransaction(ctx, core.BillAccountTransaction{Amount: core.Cents(9000), Kind: core.Deposit})
	require.NoError(t, err)
	_, err = svc.SetPageNotes(ctx, march2024, "Tax refund expected")
	require.NoError(t, err)

	o, err := svc.Overview(ctx, march2024)
	require.NoError(t, err)

	assert.Equal(t, int64(300000), o.Summary.Income.Cents)
	assert.Equal(t, int64(130000), o.Summary.Bills.Cents)
	assert.Equal(t, int64(10000), o.UnpaidTotal.Cents)
	assert.Equal(t, 1, o.OverdueCount, "phone due on the 15th is overdue on the 20th")
	require.Len(t, o.Categories, 1)
	assert.Equal(t, "Food", o.Categories[0].Name)
	require.Len(t, o.Savings, 1)
	assert.Equal(t, 20, o.Savings[0].Percent)
	assert.Equal(t, int64(10000), o.TotalSavings.Cents)
	assert.False(t, o.BillAccountCovers())
	assert.Equal(t, "Tax refund expected", o.Notes)

	_, err = svc.Overview(ctx, core.YearMonth{Year: 2024, Month: 0})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestBudgetService_DeleteSavingsAccount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateSavingsAccount(ctx, core.SavingsAccount{Name: "Old", Current: core.Cents(100)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSavingsAccount(ctx, id))
	assert.ErrorIs(t, svc.DeleteSavingsAccount(ctx, id), core.ErrNotFound)

	total, err := svc.ListSavingsAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, total)
}

func TestBudgetService_PagesAndEntries(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.MonthlyPage(ctx, march2024)
	require.NoError(t, err)
	second, err := svc.MonthlyPage(ctx, march2024)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	require.NoError(t, svc.DeletePage(ctx, march2024))
	pages, err := svc.ListPages(ctx)
	require.NoError(t, err)
	assert.Empty(t, pages)

	id, err := svc.AddPurchase(ctx, core.Purchase{Name: "Lamp", Amount: core.Cents(2999), Date: core.NewDate(2024, 3, 4), ReceiptPath: "receipts/lamp.jpg"})
	require.NoError(t, err)
	p, err := svc.GetPurchase(ctx, id)
	require.NoError(t, err)
	p.Name = ""
	assert.ErrorIs(t, svc.UpdatePurchase(ctx, p), core.ErrEmptyName)
	require.NoError(t, svc.DeletePurchase(ctx, id))

	list, err := svc.ListPurchases(ctx, storage.ForMonth(march2024))
	require.NoError(t, err)
	assert.Empty(t, list)
}
