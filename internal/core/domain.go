package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Deposit  TransactionKind = "deposit"
	Withdraw TransactionKind = "withdraw"
)

// DateLayout is the persisted and displayed form of a calendar day.
const DateLayout = "2006-01-02"

const maxNameLength = 200

type (
	TransactionKind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// MonthlyBill is a recurring bill. Bills are never removed, only deactivated.
	MonthlyBill struct {
		ID        int64
		Name      string
		Amount    Money
		DueDay    int // 0 when unset
		Category  string
		Active    bool
		CreatedAt time.Time
	}

	Paycheck struct {
		ID        int64
		Amount    Money
		Date      Date
		Source    string
		Notes     string
		CreatedAt time.Time
	}

	Purchase struct {
		ID          int64
		Name        string
		Amount      Money
		Date        Date
		Category    string
		ReceiptPath string // opaque reference, file lifecycle belongs to the caller
		Notes       string
		CreatedAt   time.Time
	}

	// SavingsAccount is a named goal. Current is a cache of the signed sum
	// of the account's ledger.
	SavingsAccount struct {
		ID        int64
		Name      string
		Current   Money
		Goal      Money // zero when no goal is set
		CreatedAt time.Time
	}

	SavingsTransaction struct {
		ID        int64
		AccountID int64
		Amount    Money
		Kind      TransactionKind
		Date      Date
		Notes     string
	}

	// BillAccount is the single cash buffer used to pay bills.
	BillAccount struct {
		ID        int64
		Balance   Money
		CreatedAt time.Time
	}

	BillAccountTransaction struct {
		ID        int64
		Amount    Money
		Kind      TransactionKind
		Date      Date
		Notes     string
		CreatedAt time.Time
	}

	// PaidBillMark records that a bill was paid for one month.
	PaidBillMark struct {
		ID       int64
		BillID   int64
		Period   YearMonth
		PaidDate Date
	}

	MonthlyPage struct {
		ID        int64
		Period    YearMonth
		Notes     string
		CreatedAt time.Time
	}
)

// Error kinds. Every error returned by the store or the services wraps
// exactly one of these.
var (
	ErrValidation = errors.New("validation failed")
	ErrConstraint = errors.New("constraint violated")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)

var (
	ErrInvalidDay        = errors.New("invalid day")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidYear       = errors.New("invalid year")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDueDay     = errors.New("due day must be between 1 and 31")
	ErrInvalidKind       = errors.New("transaction kind must be deposit or withdraw")
	ErrEmptyName         = errors.New("empty name")
	ErrNameTooLong       = errors.New("name too long (max 200 characters)")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// Invalid wraps a detail error as a validation failure.
func Invalid(err error) error {
	return invalid(err)
}

// Constraint wraps a detail error as a constraint violation.
func Constraint(err error) error {
	return fmt.Errorf("%w: %w", ErrConstraint, err)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, invalid(fmt.Errorf("%w %q", ErrInvalidDate, s))
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return invalid(ErrInvalidDate)
	}
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Period returns the month the date falls in.
func (d Date) Period() YearMonth {
	return YearMonth{Year: d.Year(), Month: int(d.Month())}
}

func (k TransactionKind) Validate() error {
	switch k {
	case Deposit, Withdraw:
		return nil
	default:
		return invalid(ErrInvalidKind)
	}
}

// Signed returns m with the sign implied by the kind.
func (k TransactionKind) Signed(m Money) Money {
	if k == Withdraw {
		return Money{Cents: -m.Cents}
	}
	return m
}

// ParseTransactionKind accepts deposit/withdraw in any case.
func ParseTransactionKind(s string) (TransactionKind, error) {
	k := TransactionKind(strings.ToLower(strings.TrimSpace(s)))
	if k == "withdrawal" {
		k = Withdraw
	}
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid(ErrEmptyName)
	}
	if len(name) > maxNameLength {
		return invalid(ErrNameTooLong)
	}
	return nil
}

func (b MonthlyBill) Validate() error {
	if err := validateName(b.Name); err != nil {
		return err
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.DueDay < 0 || b.DueDay > 31 {
		return invalid(ErrInvalidDueDay)
	}
	return nil
}

func (p Paycheck) Validate() error {
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	return p.Date.Validate()
}

func (p Purchase) Validate() error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	return p.Date.Validate()
}

func (a SavingsAccount) Validate() error {
	if err := validateName(a.Name); err != nil {
		return err
	}
	if a.Current.Cents < 0 || a.Goal.Cents < 0 {
		return invalid(ErrInvalidAmount)
	}
	return nil
}

func (t SavingsTransaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	return t.Date.Validate()
}

func (t BillAccountTransaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	return t.Date.Validate()
}
