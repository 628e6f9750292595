package services

import (
	"context"
	"fmt"
	"time"

	"nekobudget/internal/core"
	"nekobudget/internal/log"
	"nekobudget/internal/storage"
)

// BudgetService validates input, applies the optional funds check and logs
// every mutation before handing off to the ledger store.
type BudgetService struct {
	store      *storage.SQLiteRepository
	logger     *log.Logger
	events     *log.StructuredLogger
	checkFunds bool
	now        func() time.Time
}

type Option func(*BudgetService)

// WithFundsCheck rejects withdrawals larger than the current balance.
func WithFundsCheck(enabled bool) Option {
	return func(s *BudgetService) { s.checkFunds = enabled }
}

// WithClock replaces time.Now for default dates and overdue checks.
func WithClock(now func() time.Time) Option {
	return func(s *BudgetService) { s.now = now }
}

func NewBudgetService(store *storage.SQLiteRepository, logger *log.Logger, opts ...Option) *BudgetService {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentBudget)
	s := &BudgetService{
		store:      store,
		logger:     logger,
		events:     log.NewStructuredLogger(logger),
		checkFunds: true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the service's current calendar day.
func (s *BudgetService) Today() core.Date {
	return core.DateOf(s.now())
}

func (s *BudgetService) fail(ctx context.Context, msg, op string, err error, fields log.LogFields) error {
	s.events.LogError(ctx, msg, err, op, fields)
	return err
}

// Bills

func (s *BudgetService) AddBill(ctx context.Context, b core.MonthlyBill) (int64, error) {
	fields := log.NewFields().WithAmount(b.Amount)
	fields[log.FieldName] = b.Name
	if err := b.Validate(); err != nil {
		return 0, s.fail(ctx, "Invalid bill", log.OpCreate, err, fields)
	}
	id, err := s.store.AddMonthlyBill(ctx, b)
	if err != nil {
		return 0, s.fail(ctx, "Failed to add bill", log.OpCreate, err, fields)
	}
	s.events.LogMutation(ctx, "Bill added", log.OpCreate, "monthly_bill", id, fields)
	return id, nil
}

func (s *BudgetService) GetBill(ctx context.Context, id int64) (core.MonthlyBill, error) {
	return s.store.GetMonthlyBill(ctx, id)
}

func (s *BudgetService) ListBills(ctx context.Context, activeOnly bool) ([]core.MonthlyBill, error) {
	return s.store.ListMonthlyBills(ctx, activeOnly)
}

func (s *BudgetService) UpdateBill(ctx context.Context, b core.MonthlyBill) error {
	fields := log.NewFields().WithEntity("monthly_bill", b.ID).WithAmount(b.Amount)
	if err := b.Validate(); err != nil {
		return s.fail(ctx, "Invalid bill", log.OpUpdate, err, fields)
	}
	if err := s.store.UpdateMonthlyBill(ctx, b); err != nil {
		return s.fail(ctx, "Failed to update bill", log.OpUpdate, err, fields)
	}
	s.events.LogMutation(ctx, "Bill updated", log.OpUpdate, "monthly_bill", b.ID, fields)
	return nil
}

// DeactivateBill hides a bill from totals and lists. Paid marks are kept.
func (s *BudgetService) DeactivateBill(ctx context.Context, id int64) error {
	if err := s.store.DeactivateBill(ctx, id); err != nil {
		return s.fail(ctx, "Failed to deactivate bill", log.OpDelete, err, log.NewFields().WithEntity("monthly_bill", id))
	}
	s.events.LogMutation(ctx, "Bill deactivated", log.OpDelete, "monthly_bill", id, nil)
	return nil
}

func (s *BudgetService) ReactivateBill(ctx context.Context, id int64) error {
	if err := s.store.ReactivateBill(ctx, id); err != nil {
		return s.fail(ctx, "Failed to reactivate bill", log.OpUpdate, err, log.NewFields().WithEntity("monthly_bill", id))
	}
	s.events.LogMutation(ctx, "Bill reactivated", log.OpUpdate, "monthly_bill", id, nil)
	return nil
}

// MarkBillPaid marks the bill paid for ym. A zero paidDate means today.
func (s *BudgetService) MarkBillPaid(ctx context.Context, billID int64, ym core.YearMonth, paidDate core.Date) error {
	fields := log.NewFields().WithPeriod(ym)
	fields[log.FieldBillID] = billID
	if err := ym.Validate(); err != nil {
		return s.fail(ctx, "Invalid month", log.OpMarkPaid, err, fields)
	}
	if paidDate.IsZero() {
		paidDate = s.Today()
	}
	if err := s.store.MarkBillPaid(ctx, billID, ym, paidDate); err != nil {
		return s.fail(ctx, "Failed to mark bill paid", log.OpMarkPaid, err, fields)
	}
	fields[log.FieldDate] = paidDate.String()
	s.events.LogMutation(ctx, "Bill marked paid", log.OpMarkPaid, "paid_bill", 0, fields)
	return nil
}

func (s *BudgetService) MarkBillUnpaid(ctx context.Context, billID int64, ym core.YearMonth) error {
	fields := log.NewFields().WithPeriod(ym)
	fields[log.FieldBillID] = billID
	if err := ym.Validate(); err != nil {
		return s.fail(ctx, "Invalid month", log.OpMarkPaid, err, fields)
	}
	if err := s.store.MarkBillUnpaid(ctx, billID, ym); err != nil {
		return s.fail(ctx, "Failed to mark bill unpaid", log.OpMarkPaid, err, fields)
	}
	s.events.LogMutation(ctx, "Bill marked unpaid", log.OpMarkPaid, "paid_bill", 0, fields)
	return nil
}

// Paychecks

func (s *BudgetService) AddPaycheck(ctx context.Context, p core.Paycheck) (int64, error) {
	fields := log.NewFields().WithAmount(p.Amount)
	if err := p.Validate(); err != nil {
		return 0, s.fail(ctx, "Invalid paycheck", log.OpCreate, err, fields)
	}
	id, err := s.store.AddPaycheck(ctx, p)
	if err != nil {
		return 0, s.fail(ctx, "Failed to add paycheck", log.OpCreate, err, fields)
	}
	s.events.LogMutation(ctx, "Paycheck added", log.OpCreate, "paycheck", id, fields)
	return id, nil
}

func (s *BudgetService) GetPaycheck(ctx context.Context, id int64) (core.Paycheck, error) {
	return s.store.GetPaycheck(ctx, id)
}

func (s *BudgetService) ListPaychecks(ctx context.Context, f storage.EntryFilter) ([]core.Paycheck, error) {
	return s.store.ListPaychecks(ctx, f)
}

func (s *BudgetService) UpdatePaycheck(ctx context.Context, p core.Paycheck) error {
	fields := log.NewFields().WithEntity("paycheck", p.ID).WithAmount(p.Amount)
	if err := p.Validate(); err != nil {
		return s.fail(ctx, "Invalid paycheck", log.OpUpdate, err, fields)
	}
	if err := s.store.UpdatePaycheck(ctx, p); err != nil {
		return s.fail(ctx, "Failed to update paycheck", log.OpUpdate, err, fields)
	}
	s.events.LogMutation(ctx, "Paycheck updated", log.OpUpdate, "paycheck", p.ID, fields)
	return nil
}

func (s *BudgetService) DeletePaycheck(ctx context.Context, id int64) error {
	if err := s.store.DeletePaycheck(ctx, id); err != nil {
		return s.fail(ctx, "Failed to delete paycheck", log.OpDelete, err, log.NewFields().WithEntity("paycheck", id))
	}
	s.events.LogMutation(ctx, "Paycheck deleted", log.OpDelete, "paycheck", id, nil)
	return nil
}

// Purchases

func (s *BudgetService) AddPurchase(ctx context.Context, p core.Purchase) (int64, error) {
	fields := log.NewFields().WithAmount(p.Amount)
	fields[log.FieldName] = p.Name
	if err := p.Validate(); err != nil {
		return 0, s.fail(ctx, "Invalid purchase", log.OpCreate, err, fields)
	}
	id, err := s.store.AddPurchase(ctx, p)
	if err != nil {
		return 0, s.fail(ctx, "Failed to add purchase", log.OpCreate, err, fields)
	}
	s.events.LogMutation(ctx, "Purchase added", log.OpCreate, "purchase", id, fields)
	return id, nil
}

func (s *BudgetService) GetPurchase(ctx context.Context, id int64) (core.Purchase, error) {
	return s.store.GetPurchase(ctx, id)
}

func (s *BudgetService) ListPurchases(ctx context.Context, f storage.EntryFilter) ([]core.Purchase, error) {
	return s.store.ListPurchases(ctx, f)
}

func (s *BudgetService) UpdatePurchase(ctx context.Context, p core.Purchase) error {
	fields := log.NewFields().WithEntity("purchase", p.ID).WithAmount(p.Amount)
	if err := p.Validate(); err != nil {
		return s.fail(ctx, "Invalid purchase", log.OpUpdate, err, fields)
	}
	if err := s.store.UpdatePurchase(ctx, p); err != nil {
		return s.fail(ctx, "Failed to update purchase", log.OpUpdate, err, fields)
	}
	s.events.LogMutation(ctx, "Purchase updated", log.OpUpdate, "purchase", p.ID, fields)
	return nil
}

// DeletePurchase removes the record. A receipt file it referenced is logged
// so it can be cleaned up by hand.
func (s *BudgetService) DeletePurchase(ctx context.Context, id int64) error {
	fields := log.NewFields()
	if p, err := s.store.GetPurchase(ctx, id); err == nil && p.ReceiptPath != "" {
		fields[log.FieldPath] = p.ReceiptPath
	}
	if err := s.store.DeletePurchase(ctx, id); err != nil {
		return s.fail(ctx, "Failed to delete purchase", log.OpDelete, err, fields.WithEntity("purchase", id))
	}
	s.events.LogMutation(ctx, "Purchase deleted", log.OpDelete, "purchase", id, fields)
	return nil
}

func (s *BudgetService) CategoryTotals(ctx context.Context, ym core.YearMonth) ([]core.CategoryAmount, error) {
	if err := ym.Validate(); err != nil {
		return nil, err
	}
	return s.store.PurchaseTotalsByCategory(ctx, ym)
}

// Savings

func (s *BudgetService) CreateSavingsAccount(ctx context.Context, a core.SavingsAccount) (int64, error) {
	fields := log.NewFields().WithAmount(a.Current)
	fields[log.FieldName] = a.Name
	if err := a.Validate(); err != nil {
		return 0, s.fail(ctx, "Invalid savings account", log.OpCreate, err, fields)
	}
	id, err := s.store.CreateSavingsAccount(ctx, a)
	if err != nil {
		return 0, s.fail(ctx, "Failed to create savings account", log.OpCreate, err, fields)
	}
	s.events.LogMutation(ctx, "Savings account created", log.OpCreate, "savings", id, fields)
	return id, nil
}

func (s *BudgetService) GetSavingsAccount(ctx context.Context, id int64) (core.SavingsAccount, error) {
	return s.store.GetSavingsAccount(ctx, id)
}

func (s *BudgetService) ListSavingsAccounts(ctx context.Context) ([]core.SavingsAccount, error) {
	return s.store.ListSavingsAccounts(ctx)
}

func (s *BudgetService) UpdateSavingsAccount(ctx context.Context, id int64, name string, goal core.Money) error {
	fields := log.NewFields().WithEntity("savings", id)
	fields[log.FieldName] = name
	if err := (core.SavingsAccount{Name: name, Goal: goal}).Validate(); err != nil {
		return s.fail(ctx, "Invalid savings account", log.OpUpdate, err, fields)
	}
	if err := s.store.UpdateSavingsAccount(ctx, id, name, goal); err != nil {
		return s.fail(ctx, "Failed to update savings account", log.OpUpdate, err, fields)
	}
	s.events.LogMutation(ctx, "Savings account updated", log.OpUpdate, "savings", id, fields)
	return nil
}

// DeleteSavingsAccount removes the account together with its history.
func (s *BudgetService) DeleteSavingsAccount(ctx context.Context, id int64) error {
	if err := s.store.DeleteSavingsAccount(ctx, id); err != nil {
		return s.fail(ctx, "Failed to delete savings account", log.OpDelete, err, log.NewFields().WithEntity("savings", id))
	}
	s.events.LogMutation(ctx, "Savings account deleted", log.OpDelete, "savings", id, nil)
	return nil
}

// RecordSavingsTransaction deposits to or withdraws from an account. A zero
// date means today.
func (s *BudgetService) RecordSavingsTransaction(ctx context.Context, t core.SavingsTransaction) (int64, error) {
	if t.Date.IsZero() {
		t.Date = s.Today()
	}
	fields := log.NewFields().WithLedgerEntry(t.Kind, t.Amount, t.Date)
	fields[log.FieldAccountID] = t.AccountID
	if err := t.Validate(); err != nil {
		return 0, s.fail(ctx, "Invalid savings transaction", log.OpRecord, err, fields)
	}
	if t.Kind == core.Withdraw && s.checkFunds {
		a, err := s.store.GetSavingsAccount(ctx, t.AccountID)
		if err != nil {
			return 0, s.fail(ctx, "Failed to load savings account", log.OpRecord, err, fields)
		}
		if err := checkFunds(a.Current, t.Amount); err != nil {
			return 0, s.fail(ctx, "Savings withdrawal refused", log.OpRecord, err, fields)
		}
	}
	id, err := s.store.RecordSavingsTransaction(ctx, t)
	if err != nil {
		return 0, s.fail(ctx, "Failed to record savings transaction", log.OpRecord, err, fields)
	}
	s.events.LogMutation(ctx, "Savings transaction recorded", log.OpRecord, "savings_transaction", id, fields)
	return id, nil
}

func (s *BudgetService) SavingsHistory(ctx context.Context, accountID int64) ([]core.SavingsTransaction, error) {
	if _, err := s.store.GetSavingsAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.store.ListSavingsTransactions(ctx, accountID)
}

// Bill account

func (s *BudgetService) BillAccount(ctx context.Context) (core.BillAccount, error) {
	return s.store.BillAccount(ctx)
}

// RecordBillAccountTransaction moves money in or out of the bill account.
// A zero date means today.
func (s *BudgetService) RecordBillAccountTransaction(ctx context.Context, t core.BillAccountTransaction) (int64, error) {
	if t.Date.IsZero() {
		t.Date = s.Today()
	}
	fields := log.NewFields().WithLedgerEntry(t.Kind, t.Amount, t.Date)
	if err := t.Validate(); err != nil {
		return 0, s.fail(ctx, "Invalid bill account transaction", log.OpRecord, err, fields)
	}
	if t.Kind == core.Withdraw && s.checkFunds {
		a, err := s.store.BillAccount(ctx)
		if err != nil {
			return 0, s.fail(ctx, "Failed to load bill account", log.OpRecord, err, fields)
		}
		if err := checkFunds(a.Balance, t.Amount); err != nil {
			return 0, s.fail(ctx, "Bill account withdrawal refused", log.OpRecord, err, fields)
		}
	}
	id, err := s.store.RecordBillAccountTransaction(ctx, t)
	if err != nil {
		return 0, s.fail(ctx, "Failed to record bill account transaction", log.OpRecord, err, fields)
	}
	s.events.LogMutation(ctx, "Bill account transaction recorded", log.OpRecord, "bill_account_transaction", id, fields)
	return id, nil
}

func (s *BudgetService) BillAccountHistory(ctx context.Context, limit int) ([]core.BillAccountTransaction, error) {
	return s.store.ListBillAccountTransactions(ctx, limit)
}

// OverrideBillAccountBalance sets the balance directly. The store keeps no
// record of this, so the log line is the only trace of the correction.
func (s *BudgetService) OverrideBillAccountBalance(ctx context.Context, balance core.Money) error {
	fields := log.NewFields().WithAmount(balance)
	if balance.Cents < 0 {
		return s.fail(ctx, "Invalid bill account balance", log.OpOverride, core.Invalid(core.ErrInvalidAmount), fields)
	}
	before, err := s.store.BillAccount(ctx)
	if err != nil {
		return s.fail(ctx, "Failed to load bill account", log.OpOverride, err, fields)
	}
	sum, err := s.store.BillAccountLedgerSum(ctx)
	if err != nil {
		return s.fail(ctx, "Failed to sum bill account ledger", log.OpOverride, err, fields)
	}
	if err := s.store.SetBillAccountBalance(ctx, balance); err != nil {
		return s.fail(ctx, "Failed to override bill account balance", log.OpOverride, err, fields)
	}
	s.logger.WarnContext(ctx, "Bill account balance overridden without a ledger entry",
		log.FieldOperation, log.OpOverride,
		"old_balance_cents", before.Balance.Cents,
		log.FieldBalance, balance.Cents,
		log.FieldLedgerSum, sum.Cents,
	)
	return nil
}

// LedgerDrift is an account whose cached balance disagrees with its ledger.
type LedgerDrift struct {
	Entity    string
	ID        int64
	Name      string
	Balance   core.Money
	LedgerSum core.Money
}

// CheckLedgers recomputes every balance from its ledger. The bill account
// drifts legitimately after an override.
func (s *BudgetService) CheckLedgers(ctx context.Context) ([]LedgerDrift, error) {
	var drift []LedgerDrift

	accounts, err := s.store.ListSavingsAccounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		sum, err := s.store.SavingsLedgerSum(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		if sum != a.Current {
			drift = append(drift, LedgerDrift{Entity: "savings", ID: a.ID, Name: a.Name, Balance: a.Current, LedgerSum: sum})
		}
	}

	bill, err := s.store.BillAccount(ctx)
	if err != nil {
		return nil, err
	}
	sum, err := s.store.BillAccountLedgerSum(ctx)
	if err != nil {
		return nil, err
	}
	if sum != bill.Balance {
		drift = append(drift, LedgerDrift{Entity: "bill_account", ID: bill.ID, Name: "Bill account", Balance: bill.Balance, LedgerSum: sum})
	}

	for _, d := range drift {
		s.logger.WarnContext(ctx, "Balance differs from ledger",
			log.FieldEntity, d.Entity, log.FieldID, d.ID,
			log.FieldBalance, d.Balance.Cents, log.FieldLedgerSum, d.LedgerSum.Cents)
	}
	return drift, nil
}

func checkFunds(balance, amount core.Money) error {
	if amount.Cents > balance.Cents {
		return core.Constraint(fmt.Errorf("%w: balance %s, requested %s", core.ErrInsufficientFunds, balance, amount))
	}
	return nil
}

// Monthly pages

// MonthlyPage returns the month's page, creating it on first access.
func (s *BudgetService) MonthlyPage(ctx context.Context, ym core.YearMonth) (core.MonthlyPage, error) {
	if err := ym.Validate(); err != nil {
		return core.MonthlyPage{}, err
	}
	return s.store.GetOrCreateMonthlyPage(ctx, ym)
}

func (s *BudgetService) SetPageNotes(ctx context.Context, ym core.YearMonth, notes string) (core.MonthlyPage, error) {
	fields := log.NewFields().WithPeriod(ym)
	if err := ym.Validate(); err != nil {
		return core.MonthlyPage{}, s.fail(ctx, "Invalid month", log.OpUpdate, err, fields)
	}
	page, err := s.store.UpdateMonthlyPageNotes(ctx, ym, notes)
	if err != nil {
		return core.MonthlyPage{}, s.fail(ctx, "Failed to update page notes", log.OpUpdate, err, fields)
	}
	s.events.LogMutation(ctx, "Page notes updated", log.OpUpdate, "monthly_page", page.ID, fields)
	return page, nil
}

func (s *BudgetService) ListPages(ctx context.Context) ([]core.MonthlyPage, error) {
	return s.store.ListMonthlyPages(ctx)
}

func (s *BudgetService) DeletePage(ctx context.Context, ym core.YearMonth) error {
	fields := log.NewFields().WithPeriod(ym)
	if err := s.store.DeleteMonthlyPage(ctx, ym); err != nil {
		return s.fail(ctx, "Failed to delete page", log.OpDelete, err, fields)
	}
	s.events.LogMutation(ctx, "Page deleted", log.OpDelete, "monthly_page", 0, fields)
	return nil
}

// Month views

func (s *BudgetService) Summary(ctx context.Context, ym core.YearMonth) (core.MonthlySummary, error) {
	if err := ym.Validate(); err != nil {
		return core.MonthlySummary{}, err
	}
	return s.store.MonthlySummary(ctx, ym)
}

// Overview assembles the month view. Overdue flags are relative to the
// service clock. Viewing a month creates its page.
func (s *BudgetService) Overview(ctx context.Context, ym core.YearMonth) (MonthOverview, error) {
	if err := ym.Validate(); err != nil {
		return MonthOverview{}, err
	}
	o := MonthOverview{Period: ym}

	summary, err := s.store.MonthlySummary(ctx, ym)
	if err != nil {
		return MonthOverview{}, err
	}
	o.Summary = summary

	bills, err := s.store.ListMonthlyBills(ctx, true)
	if err != nil {
		return MonthOverview{}, err
	}
	marks, err := s.store.PaidBills(ctx, ym)
	if err != nil {
		return MonthOverview{}, err
	}
	o.Bills = BuildBillStatuses(bills, marks, ym, s.Today())
	for _, b := range o.Bills {
		if !b.Paid {
			o.UnpaidTotal = o.UnpaidTotal.Add(b.Bill.Amount)
		}
		if b.Overdue {
			o.OverdueCount++
		}
	}

	if o.Categories, err = s.store.PurchaseTotalsByCategory(ctx, ym); err != nil {
		return MonthOverview{}, err
	}

	accounts, err := s.store.ListSavingsAccounts(ctx)
	if err != nil {
		return MonthOverview{}, err
	}
	for _, a := range accounts {
		o.Savings = append(o.Savings, GoalProgress(a))
		o.TotalSavings = o.TotalSavings.Add(a.Current)
	}

	if o.BillAccount, err = s.store.BillAccount(ctx); err != nil {
		return MonthOverview{}, err
	}

	page, err := s.store.GetOrCreateMonthlyPage(ctx, ym)
	if err != nil {
		return MonthOverview{}, err
	}
	o.Notes = page.Notes

	s.logger.DebugContext(ctx, "Overview built",
		log.FieldYear, ym.Year, log.FieldMonth, ym.Month,
		log.FieldCount, len(o.Bills), "overdue", o.OverdueCount)
	return o, nil
}

func (s *BudgetService) Close() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close budget service: %w", err)
	}
	return nil
}
