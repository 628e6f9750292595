package storage

import (
	"database/sql"
	"time"
)

type MonthlyBill struct {
	ID          int64
	Name        string
	AmountCents int64
	DueDay      sql.NullInt64
	Category    sql.NullString
	IsActive    bool
	CreatedAt   time.Time
}

type Paycheck struct {
	ID          int64
	AmountCents int64
	Date        string
	Source      sql.NullString
	Notes       sql.NullString
	CreatedAt   time.Time
}

type Purchase struct {
	ID          int64
	Name        string
	AmountCents int64
	Date        string
	Category    sql.NullString
	ReceiptPath sql.NullString
	Notes       sql.NullString
	CreatedAt   time.Time
}

type Saving struct {
	ID                 int64
	Name               string
	CurrentAmountCents int64
	GoalAmountCents    sql.NullInt64
	CreatedAt          time.Time
}

type SavingsTransaction struct {
	ID              int64
	SavingsID       int64
	AmountCents     int64
	TransactionType string
	Date            string
	Notes           sql.NullString
}

type MonthlyPage struct {
	ID        int64
	Year      int64
	Month     int64
	Notes     sql.NullString
	CreatedAt time.Time
}

type PaidBill struct {
	ID       int64
	BillID   int64
	Year     int64
	Month    int64
	PaidDate string
}

type BillAccount struct {
	ID           int64
	BalanceCents int64
	CreatedAt    time.Time
}

type BillAccountTransaction struct {
	ID              int64
	AmountCents     int64
	TransactionType string
	Date            string
	Notes           sql.NullString
	CreatedAt       time.Time
}

type CategorySum struct {
	Category    string
	TotalAmount int64
	Count       int64
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}
