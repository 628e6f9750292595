package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2024-03-05" {
		t.Fatalf("round trip mismatch: %s", d)
	}
	if got := d.Period(); got != (YearMonth{Year: 2024, Month: 3}) {
		t.Fatalf("unexpected period %v", got)
	}
	if _, err := ParseDate("05/03/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestTransactionKind(t *testing.T) {
	if got := Deposit.Signed(Cents(150)); got.Cents != 150 {
		t.Fatalf("deposit should keep sign, got %d", got.Cents)
	}
	if got := Withdraw.Signed(Cents(150)); got.Cents != -150 {
		t.Fatalf("withdraw should negate, got %d", got.Cents)
	}
	for _, in := range []string{"deposit", " Withdraw ", "withdrawal"} {
		if _, err := ParseTransactionKind(in); err != nil {
			t.Fatalf("%q expected ok, got %v", in, err)
		}
	}
	if _, err := ParseTransactionKind("transfer"); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestMonthlyBillValidate(t *testing.T) {
	good := MonthlyBill{Name: "Rent", Amount: Cents(120000), DueDay: 1}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	noDue := MonthlyBill{Name: "Phone", Amount: Cents(3000)}
	if err := noDue.Validate(); err != nil {
		t.Fatalf("unset due day should be valid, got %v", err)
	}

	bads := []struct {
		bill MonthlyBill
		want error
	}{
		{MonthlyBill{Name: " ", Amount: Cents(1)}, ErrEmptyName},
		{MonthlyBill{Name: strings.Repeat("x", 201), Amount: Cents(1)}, ErrNameTooLong},
		{MonthlyBill{Name: "a", Amount: Cents(0)}, ErrInvalidAmount},
		{MonthlyBill{Name: "a", Amount: Cents(-5)}, ErrInvalidAmount},
		{MonthlyBill{Name: "a", Amount: Cents(1), DueDay: 32}, ErrInvalidDueDay},
	}
	for i, tc := range bads {
		err := tc.bill.Validate()
		if !errors.Is(err, ErrValidation) || !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestPurchaseAndPaycheckValidate(t *testing.T) {
	p := Purchase{Name: "Groceries", Amount: Cents(4599), Date: NewDate(2024, 3, 2)}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	p.Date = Date{}
	if err := p.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	pc := Paycheck{Amount: Cents(250000), Date: NewDate(2024, 3, 15)}
	if err := pc.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	pc.Amount = Cents(0)
	if err := pc.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestLedgerTransactionValidate(t *testing.T) {
	tx := SavingsTransaction{AccountID: 1, Amount: Cents(100), Kind: Deposit, Date: NewDate(2024, 1, 1)}
	if err := tx.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	tx.Kind = "refund"
	if err := tx.Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}

	btx := BillAccountTransaction{Amount: Cents(0), Kind: Withdraw, Date: NewDate(2024, 1, 1)}
	if err := btx.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
