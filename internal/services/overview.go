package services

import (
	"nekobudget/internal/core"
)

// BillStatus is one active bill as seen from a particular month.
type BillStatus struct {
	Bill       core.MonthlyBill
	Paid       bool
	PaidDate   core.Date
	DueDate    core.Date
	HasDueDate bool
	Overdue    bool
}

// SavingsProgress pairs an account with how far it is towards its goal.
type SavingsProgress struct {
	Account core.SavingsAccount
	HasGoal bool
	Percent int        // 0-100, 0 when there is no goal
	ToGo    core.Money // amount still missing, never negative
}

// MonthOverview is everything the month view needs in one read.
type MonthOverview struct {
	Period       core.YearMonth
	Summary      core.MonthlySummary
	Bills        []BillStatus
	UnpaidTotal  core.Money
	OverdueCount int
	Categories   []core.CategoryAmount
	Savings      []SavingsProgress
	TotalSavings core.Money
	BillAccount  core.BillAccount
	Notes        string
}

// BillAccountCovers reports whether the bill account can pay every bill
// still unpaid this month.
func (o MonthOverview) BillAccountCovers() bool {
	return o.BillAccount.Balance.Cents >= o.UnpaidTotal.Cents
}

// BuildBillStatuses joins active bills with the month's paid marks.
func BuildBillStatuses(bills []core.MonthlyBill, marks map[int64]core.PaidBillMark, ym core.YearMonth, today core.Date) []BillStatus {
	out := make([]BillStatus, 0, len(bills))
	for _, b := range bills {
		s := BillStatus{Bill: b}
		if mark, ok := marks[b.ID]; ok {
			s.Paid = true
			s.PaidDate = mark.PaidDate
		}
		s.DueDate, s.HasDueDate = CheckerFor(b).DueDate(ym)
		s.Overdue = IsOverdue(s, today)
		out = append(out, s)
	}
	return out
}

// GoalProgress returns the percentage of goal reached, capped at 100.
func GoalProgress(a core.SavingsAccount) SavingsProgress {
	p := SavingsProgress{Account: a}
	if a.Goal.Cents <= 0 {
		return p
	}
	p.HasGoal = true
	if a.Current.Cents > 0 {
		p.Percent = int(min(a.Current.Cents*100/a.Goal.Cents, 100))
	}
	if missing := a.Goal.Sub(a.Current); missing.Cents > 0 {
		p.ToGo = missing
	}
	return p
}
