package moneymate

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/etnz/moneymate/date"
	"github.com/shopspring/decimal"
)

// legacyTransaction is a transaction as stored by the JSON ledger files that
// predate the CSV ledger: a single indented JSON array.
type legacyTransaction struct {
	ID         string          `json:"Id"`
	Title      string          `json:"Title"`
	Amount     decimal.Decimal `json:"Amount"`
	Type       legacyType      `json:"Type"`
	Date       legacyTime      `json:"Date"`
	Note       *string         `json:"Note"`
	Tags       []string        `json:"Tags"`
	Username   string          `json:"Username"`
	DueDate    *legacyTime     `json:"DueDate"`
	DebtSource *string         `json:"DebtSource"`
	IsCleared  bool            `json:"IsCleared"`
}

// legacyType accepts both the numeric and the named form of a type.
type legacyType Type

func (t *legacyType) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		if !Type(n).valid() {
			return fmt.Errorf("unknown transaction type %d", n)
		}
		*t = legacyType(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid transaction type %s", b)
	}
	typ, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = legacyType(typ)
	return nil
}

// legacyTime is a timestamp with or without zone, local when absent.
type legacyTime time.Time

var legacyLayouts = []string{
	"2006-01-02T15:04:05.9999999",
	"2006-01-02",
}

func (t *legacyTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*t = legacyTime(v.Local())
		return nil
	}
	for _, layout := range legacyLayouts {
		if v, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			*t = legacyTime(v)
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

// DecodeLegacyJSON reads the transactions of a JSON ledger file. Timestamps
// are truncated to the second, tags and note line breaks are normalized as
// for AddTransaction. Transactions are not validated: missing ids are left
// empty.
func DecodeLegacyJSON(r io.Reader) ([]Transaction, error) {
	var legacy []legacyTransaction
	if err := json.NewDecoder(r).Decode(&legacy); err != nil {
		return nil, fmt.Errorf("could not decode JSON ledger: %w", err)
	}

	txs := make([]Transaction, 0, len(legacy))
	for _, l := range legacy {
		tx := Transaction{
			ID:        l.ID,
			Username:  l.Username,
			Type:      Type(l.Type),
			Title:     strings.TrimSpace(l.Title),
			Amount:    l.Amount,
			Date:      time.Time(l.Date).Truncate(time.Second),
			IsCleared: l.IsCleared,
		}
		tx.Tags = l.Tags
		if l.Note != nil {
			tx.Note = *l.Note
		}
		if tx.Type == Debt {
			if l.DueDate != nil {
				tx.DueDate = date.FromTime(time.Time(*l.DueDate))
			}
			if l.DebtSource != nil {
				tx.DebtSource = *l.DebtSource
			}
		} else {
			tx.IsCleared = false
		}
		txs = append(txs, tx.normalize())
	}
	return txs, nil
}
