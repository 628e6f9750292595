package log

import (
	"errors"

	"nekobudget/internal/core"
)

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldOperation   = "operation"
	FieldEntity      = "entity"
	FieldID          = "id"
	FieldBillID      = "bill_id"
	FieldAccountID   = "account_id"
	FieldName        = "name"
	FieldKind        = "kind"
	FieldDate        = "date"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldAmountCents = "amount_cents"
	FieldBalance     = "balance_cents"
	FieldLedgerSum   = "ledger_sum_cents"
	FieldPath        = "path"
	FieldCount       = "count"
)

// Components
const (
	ComponentApp     = "app"
	ComponentBudget  = "budget"
	ComponentCLI     = "cli"
	ComponentExport  = "export"
	ComponentConfig  = "config"
)

// Operations
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpRecord   = "record"
	OpOverride = "override"
	OpMarkPaid = "mark_paid"
	OpExport   = "export"
	OpValidate = "validate"
	OpStartup  = "startup"
)

// Error types, one per core error kind plus configuration.
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConstraint    = "constraint_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeStorage       = "storage_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeInternal      = "internal_error"
)

// ErrorType classifies err by the core error kind it wraps.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, core.ErrValidation):
		return ErrorTypeValidation
	case errors.Is(err, core.ErrConstraint):
		return ErrorTypeConstraint
	case errors.Is(err, core.ErrNotFound):
		return ErrorTypeNotFound
	case errors.Is(err, core.ErrStorage):
		return ErrorTypeStorage
	}
	return ErrorTypeInternal
}

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds the error message and its kind.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = ErrorType(err)
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithEntity names the record an operation touched.
func (f LogFields) WithEntity(entity string, id int64) LogFields {
	f[FieldEntity] = entity
	if id != 0 {
		f[FieldID] = id
	}
	return f
}

func (f LogFields) WithAmount(m core.Money) LogFields {
	f[FieldAmountCents] = m.Cents
	return f
}

func (f LogFields) WithPeriod(ym core.YearMonth) LogFields {
	f[FieldYear] = ym.Year
	f[FieldMonth] = ym.Month
	return f
}

// WithLedgerEntry adds the fields shared by savings and bill-account entries.
func (f LogFields) WithLedgerEntry(kind core.TransactionKind, amount core.Money, date core.Date) LogFields {
	f[FieldKind] = string(kind)
	f[FieldAmountCents] = amount.Cents
	f[FieldDate] = date.String()
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
