package moneymate

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/etnz/moneymate/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the kind of a transaction.
type Type int

const (
	// Credit is an inflow.
	Credit Type = iota
	// Debit is an outflow.
	Debit
	// Debt is a liability, pending until it is cleared.
	Debt

	typeCount = 3
)

// Types lists all transaction types in their canonical order.
var Types = []Type{Credit, Debit, Debt}

func (t Type) String() string {
	switch t {
	case Credit:
		return "Credit"
	case Debit:
		return "Debit"
	case Debt:
		return "Debt"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func (t Type) valid() bool { return t >= Credit && t < typeCount }

// ParseType parses the literal name of a transaction type.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if s == t.String() {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown transaction type %q", s)
}

// MarshalJSON encodes the type by name.
func (t Type) MarshalJSON() ([]byte, error) { return []byte(`"` + t.String() + `"`), nil }

// Transaction is one entry of the ledger.
//
// ID, Type and Username never change once the transaction is stored. Amount
// and IsCleared are only changed by a debt clearing, and only on Debt
// transactions. DueDate, DebtSource and IsCleared have no meaning for other
// types.
type Transaction struct {
	ID       string
	Username string
	Type     Type
	Title    string
	Amount   decimal.Decimal // strictly positive
	Date     time.Time       // second precision
	Note     string
	Tags     []string

	DueDate    date.Date // zero when absent
	DebtSource string
	IsCleared  bool
}

// NewTransaction creates a transaction with a fresh id, dated now.
func NewTransaction(typ Type, username, title string, amount decimal.Decimal) Transaction {
	return Transaction{
		ID:       uuid.NewString(),
		Username: username,
		Type:     typ,
		Title:    title,
		Amount:   amount,
		Date:     time.Now().Truncate(time.Second),
	}
}

// Validate checks the invariants every stored transaction must hold.
func (t Transaction) Validate() error {
	switch {
	case t.ID == "":
		return invalid(t.ID, ErrInvalidTransaction, "missing id")
	case t.Username == "":
		return invalid(t.ID, ErrInvalidTransaction, "missing username")
	case !t.Type.valid():
		return invalid(t.ID, ErrInvalidTransaction, "unknown type %v", t.Type)
	case strings.TrimSpace(t.Title) == "":
		return invalid(t.ID, ErrInvalidTransaction, "title is required")
	case !t.Amount.IsPositive():
		return invalid(t.ID, ErrInvalidTransaction, "amount must be greater than 0, got %s", t.Amount)
	case t.Date.IsZero():
		return invalid(t.ID, ErrInvalidTransaction, "missing date")
	}
	for _, tag := range t.Tags {
		if tag == "" || strings.Contains(tag, tagDelimiter) {
			return invalid(t.ID, ErrInvalidTransaction, "invalid tag %q", tag)
		}
	}
	return nil
}

// normalize rewrites user input the way the ledger file stores it: line
// breaks in the note become "\n", tags are trimmed and empty ones dropped.
func (t Transaction) normalize() Transaction {
	t.Note = strings.ReplaceAll(t.Note, "\r\n", "\n")
	var tags []string
	for _, tag := range t.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	t.Tags = tags
	return t
}

// IsPending reports whether t is a debt not cleared yet.
func (t Transaction) IsPending() bool { return t.Type == Debt && !t.IsCleared }

// IsOverdue reports whether t is a pending debt whose due date is before today.
func (t Transaction) IsOverdue(today date.Date) bool {
	return t.IsPending() && !t.DueDate.IsZero() && t.DueDate.Before(today)
}

// Equal reports whether both transactions hold the same values.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Username == o.Username &&
		t.Type == o.Type &&
		t.Title == o.Title &&
		t.Amount.Equal(o.Amount) &&
		t.Date.Equal(o.Date) &&
		t.Note == o.Note &&
		slices.Equal(t.Tags, o.Tags) &&
		t.DueDate == o.DueDate &&
		t.DebtSource == o.DebtSource &&
		t.IsCleared == o.IsCleared
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("username", t.Username)
	w.Append("type", t.Type)
	w.Append("title", t.Title)
	w.Append("amount", t.Amount)
	w.Append("date", t.Date.Format(TimestampFormat))
	w.Optional("note", t.Note)
	w.Optional("tags", t.Tags)
	if t.Type == Debt {
		w.Optional("dueDate", t.DueDate.String())
		w.Optional("debtSource", t.DebtSource)
		w.Append("isCleared", t.IsCleared)
	}
	return w.MarshalJSON()
}
