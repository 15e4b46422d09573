package moneymate

import (
	"errors"
	"fmt"
)

// Reasons a transaction or a debt clearing is refused. They are wrapped in a
// *ValidationError; use errors.Is to branch on them.
var (
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrDuplicateID         = errors.New("duplicate transaction id")
	ErrDebtNotFound        = errors.New("debt not found")
	ErrNotADebt            = errors.New("transaction is not a debt")
	ErrDebtAlreadyCleared  = errors.New("debt already cleared")
	ErrInvalidPayment      = errors.New("invalid payment amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// ErrCorruptLedger is wrapped in the *StorageError returned when the ledger
// file holds rows that cannot be safely rewritten: unreadable rows, duplicate
// ids or invalid transactions.
var ErrCorruptLedger = errors.New("ledger file needs repair, run migrate check")

// DecodeError reports a ledger row that could not be decoded.
// Row is the 1-based index of the data row, the header excluded.
type DecodeError struct {
	Row   int
	Field string // empty when the row as a whole is malformed
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d: field %s: %v", e.Row, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StorageError reports a failure of the backing file. The previously
// committed content of the ledger is still valid when it is returned.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ledger %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ValidationError reports a refused operation. Nothing has been written when
// it is returned.
type ValidationError struct {
	ID     string // transaction concerned, if any
	Reason error  // one of the Err* sentinels
	Detail string
}

func (e *ValidationError) Error() string {
	msg := e.Reason.Error()
	if e.ID != "" {
		msg = fmt.Sprintf("%s %q", msg, e.ID)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Reason }

func invalid(id string, reason error, format string, args ...any) *ValidationError {
	return &ValidationError{ID: id, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
