// Package export writes month views to XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"nekobudget/internal/core"
	"nekobudget/internal/services"
)

const (
	SheetSummary   = "Summary"
	SheetBills     = "Bills"
	SheetPaychecks = "Paychecks"
	SheetPurchases = "Purchases"
	SheetSavings   = "Savings"
)

// numFmtTwoDecimals is the built-in "0.00" number format.
const numFmtTwoDecimals = 2

// Filename is the default name for a month's workbook.
func Filename(ym core.YearMonth) string {
	return fmt.Sprintf("nekobudget_%s.xlsx", ym)
}

type workbook struct {
	f     *excelize.File
	money int
}

// WriteMonthWorkbook writes one sheet per section of the month view.
// Amounts are numeric cells formatted with two decimals.
func WriteMonthWorkbook(w io.Writer, o services.MonthOverview, paychecks []core.Paycheck, purchases []core.Purchase) error {
	f := excelize.NewFile()
	defer f.Close()

	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecimals})
	if err != nil {
		return fmt.Errorf("create money style: %w", err)
	}
	wb := &workbook{f: f, money: money}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	steps := []func() error{
		func() error { return wb.summary(o) },
		func() error { return wb.bills(o.Bills) },
		func() error { return wb.paychecks(paychecks) },
		func() error { return wb.purchases(purchases) },
		func() error { return wb.savings(o.Savings, o.TotalSavings) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (wb *workbook) sheet(name string, widths []float64, header ...any) error {
	if name != SheetSummary {
		if _, err := wb.f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	if err := wb.f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := wb.f.SetColWidth(name, col, col, width); err != nil {
			return fmt.Errorf("set %s column width: %w", name, err)
		}
	}
	return nil
}

// row writes values starting at column A. Columns listed in moneyCols get
// the two-decimal style.
func (wb *workbook) row(sheet string, row int, moneyCols []int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := wb.f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	for _, col := range moneyCols {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := wb.f.SetCellStyle(sheet, cell, cell, wb.money); err != nil {
			return fmt.Errorf("style %s %s: %w", sheet, cell, err)
		}
	}
	return nil
}

func (wb *workbook) summary(o services.MonthOverview) error {
	if err := wb.sheet(SheetSummary, []float64{24, 14}, "Month", o.Period.String()); err != nil {
		return err
	}
	s := o.Summary
	rows := []struct {
		label string
		value any
		money bool
	}{
		{"Income", s.Income.Float64(), true},
		{"Purchases", s.Purchases.Float64(), true},
		{"Bills", s.Bills.Float64(), true},
		{"Remaining", s.Remaining.Float64(), true},
		{"Unpaid bills", o.UnpaidTotal.Float64(), true},
		{"Overdue bills", o.OverdueCount, false},
		{"Bill account", o.BillAccount.Balance.Float64(), true},
		{"Total savings", o.TotalSavings.Float64(), true},
		{"Paychecks", s.PaycheckCount, false},
		{"Purchase count", s.PurchaseCount, false},
		{"Notes", o.Notes, false},
	}
	for i, r := range rows {
		var moneyCols []int
		if r.money {
			moneyCols = []int{2}
		}
		if err := wb.row(SheetSummary, i+2, moneyCols, r.label, r.value); err != nil {
			return err
		}
	}
	return nil
}

func (wb *workbook) bills(bills []services.BillStatus) error {
	if err := wb.sheet(SheetBills, []float64{24, 12, 12, 14, 10, 12, 10},
		"Name", "Amount", "Due", "Category", "Paid", "Paid on", "Overdue"); err != nil {
		return err
	}
	for i, b := range bills {
		if err := wb.row(SheetBills, i+2, []int{2},
			b.Bill.Name, b.Bill.Amount.Float64(), b.DueDate.String(), b.Bill.Category,
			yesNo(b.Paid), b.PaidDate.String(), yesNo(b.Overdue)); err != nil {
			return err
		}
	}
	return nil
}

func (wb *workbook) paychecks(paychecks []core.Paycheck) error {
	if err := wb.sheet(SheetPaychecks, []float64{12, 12, 20, 30}, "Date", "Amount", "Source", "Notes"); err != nil {
		return err
	}
	for i, p := range paychecks {
		if err := wb.row(SheetPaychecks, i+2, []int{2},
			p.Date.String(), p.Amount.Float64(), p.Source, p.Notes); err != nil {
			return err
		}
	}
	return nil
}

func (wb *workbook) purchases(purchases []core.Purchase) error {
	if err := wb.sheet(SheetPurchases, []float64{12, 24, 12, 15, 30, 30},
		"Date", "Name", "Amount", "Category", "Receipt", "Notes"); err != nil {
		return err
	}
	for i, p := range purchases {
		if err := wb.row(SheetPurchases, i+2, []int{3},
			p.Date.String(), p.Name, p.Amount.Float64(), p.Category, p.ReceiptPath, p.Notes); err != nil {
			return err
		}
	}
	return nil
}

func (wb *workbook) savings(progress []services.SavingsProgress, total core.Money) error {
	if err := wb.sheet(SheetSavings, []float64{24, 12, 12, 10, 12}, "Name", "Current", "Goal", "Progress %", "To go"); err != nil {
		return err
	}
	for i, p := range progress {
		var goal, percent, toGo any = "", "", ""
		if p.HasGoal {
			goal, percent, toGo = p.Account.Goal.Float64(), p.Percent, p.ToGo.Float64()
		}
		if err := wb.row(SheetSavings, i+2, []int{2, 3, 5},
			p.Account.Name, p.Account.Current.Float64(), goal, percent, toGo); err != nil {
			return err
		}
	}
	return wb.row(SheetSavings, len(progress)+2, []int{2}, "Total", total.Float64())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
