package services

import (
	"nekobudget/internal/core"
)

// DuenessChecker decides when a monthly bill falls due in a given month.
type DuenessChecker interface {
	// DueDate returns the bill's due date in ym, or false when the bill
	// has no due date.
	DueDate(ym core.YearMonth) (core.Date, bool)
}

// DayOfMonthChecker is due on a fixed day, moved back to the month's last
// day when the month is shorter.
type DayOfMonthChecker struct {
	Day int
}

func (c DayOfMonthChecker) DueDate(ym core.YearMonth) (core.Date, bool) {
	return DueDateFor(c.Day, ym), true
}

// NoDueDayChecker is used for bills without a due day. They are never overdue.
type NoDueDayChecker struct{}

func (NoDueDayChecker) DueDate(core.YearMonth) (core.Date, bool) {
	return core.Date{}, false
}

// CheckerFor picks the checker for a bill.
func CheckerFor(b core.MonthlyBill) DuenessChecker {
	if b.DueDay < 1 {
		return NoDueDayChecker{}
	}
	return DayOfMonthChecker{Day: b.DueDay}
}

// DueDateFor clamps dueDay to the length of ym: day 31 in February falls on
// the 28th or 29th. A dueDay below 1 yields the zero Date.
func DueDateFor(dueDay int, ym core.YearMonth) core.Date {
	if dueDay < 1 {
		return core.Date{}
	}
	if last := ym.DaysIn(); dueDay > last {
		dueDay = last
	}
	return core.NewDate(ym.Year, ym.Month, dueDay)
}

// IsOverdue reports whether an unpaid bill's due date is before today.
func IsOverdue(s BillStatus, today core.Date) bool {
	if s.Paid || !s.HasDueDate {
		return false
	}
	return today.After(s.DueDate.Time)
}
