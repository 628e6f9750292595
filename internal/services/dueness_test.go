package services

import (
	"testing"

	"nekobudget/internal/core"
)

func TestDueDateFor(t *testing.T) {
	tests := []struct {
		name   string
		dueDay int
		ym     core.YearMonth
		want   string
	}{
		{"regular day", 15, core.YearMonth{Year: 2024, Month: 3}, "2024-03-15"},
		{"day 31 in leap february", 31, core.YearMonth{Year: 2024, Month: 2}, "2024-02-29"},
		{"day 31 in february", 31, core.YearMonth{Year: 2023, Month: 2}, "2023-02-28"},
		{"day 31 in april", 31, core.YearMonth{Year: 2024, Month: 4}, "2024-04-30"},
		{"day 30 in february", 30, core.YearMonth{Year: 2023, Month: 2}, "2023-02-28"},
		{"first of month", 1, core.YearMonth{Year: 2024, Month: 12}, "2024-12-01"},
		{"unset", 0, core.YearMonth{Year: 2024, Month: 3}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DueDateFor(tt.dueDay, tt.ym).String()
			if got != tt.want {
				t.Errorf("DueDateFor(%d, %s) = %q, want %q", tt.dueDay, tt.ym, got, tt.want)
			}
		})
	}
}

func TestCheckerFor(t *testing.T) {
	march := core.YearMonth{Year: 2024, Month: 3}

	if _, ok := CheckerFor(core.MonthlyBill{DueDay: 0}).DueDate(march); ok {
		t.Error("bill without due day should have no due date")
	}

	d, ok := CheckerFor(core.MonthlyBill{DueDay: 5}).DueDate(march)
	if !ok {
		t.Fatal("bill with due day should have a due date")
	}
	if d.String() != "2024-03-05" {
		t.Errorf("DueDate = %s, want 2024-03-05", d)
	}
}

func TestIsOverdue(t *testing.T) {
	due := core.NewDate(2024, 3, 10)

	tests := []struct {
		name   string
		status BillStatus
		today  core.Date
		want   bool
	}{
		{
			name:   "unpaid after due date",
			status: BillStatus{DueDate: due, HasDueDate: true},
			today:  core.NewDate(2024, 3, 11),
			want:   true,
		},
		{
			name:   "unpaid on due date",
			status: BillStatus{DueDate: due, HasDueDate: true},
			today:  due,
			want:   false,
		},
		{
			name:   "unpaid before due date",
			status: BillStatus{DueDate: due, HasDueDate: true},
			today:  core.NewDate(2024, 3, 1),
			want:   false,
		},
		{
			name:   "paid after due date",
			status: BillStatus{DueDate: due, HasDueDate: true, Paid: true},
			today:  core.NewDate(2024, 4, 1),
			want:   false,
		},
		{
			name:   "no due date",
			status: BillStatus{},
			today:  core.NewDate(2030, 1, 1),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(tt.status, tt.today); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}
