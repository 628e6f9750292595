package core

import (
	"fmt"
	"time"
)

// YearMonth identifies one calendar month.
type YearMonth struct {
	Year  int
	Month int // 1-12
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
	Count  int
}

// MonthlySummary aggregates one month. Bills is the total of all active
// bills regardless of payment status.
type MonthlySummary struct {
	Period        YearMonth
	Income        Money
	Purchases     Money
	Bills         Money
	Remaining     Money
	PaycheckCount int
	PurchaseCount int
}

// NewMonthlySummary computes Remaining from the three totals.
func NewMonthlySummary(ym YearMonth, income, purchases, bills Money, paychecks, purchaseCount int) MonthlySummary {
	return MonthlySummary{
		Period:        ym,
		Income:        income,
		Purchases:     purchases,
		Bills:         bills,
		Remaining:     income.Sub(purchases).Sub(bills),
		PaycheckCount: paychecks,
		PurchaseCount: purchaseCount,
	}
}

// NewYearMonth returns a validated month key.
func NewYearMonth(year, month int) (YearMonth, error) {
	ym := YearMonth{Year: year, Month: month}
	return ym, ym.Validate()
}

// CurrentYearMonth returns the month containing t.
func CurrentYearMonth(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: int(t.Month())}
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, invalid(fmt.Errorf("%w %q", ErrInvalidMonth, s))
	}
	return CurrentYearMonth(t), nil
}

func (ym YearMonth) Validate() error {
	if ym.Year < 1 || ym.Year > 9999 {
		return invalid(ErrInvalidYear)
	}
	if ym.Month < 1 || ym.Month > 12 {
		return invalid(ErrInvalidMonth)
	}
	return nil
}

// String returns "YYYY-MM", the prefix of every date in the month.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// FirstDay returns day 1 of the month.
func (ym YearMonth) FirstDay() Date {
	return NewDate(ym.Year, ym.Month, 1)
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == 12 {
		return YearMonth{Year: ym.Year + 1, Month: 1}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// DaysIn returns the number of days in the month.
func (ym YearMonth) DaysIn() int {
	return time.Date(ym.Year, time.Month(ym.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Contains reports whether d falls inside the month.
func (ym YearMonth) Contains(d Date) bool {
	return d.Year() == ym.Year && int(d.Month()) == ym.Month
}
