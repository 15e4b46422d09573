package moneymate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/moneymate/date"
	"github.com/shopspring/decimal"
)

// Record is the persisted form of a transaction: one row of the ledger file.
type Record []string

// Header is the first row of every ledger file.
var Header = Record{"Id", "Username", "Type", "Title", "Amount", "Date", "Note", "Tags", "DueDate", "DebtSource", "IsCleared"}

// Column positions in a Record.
const (
	colID = iota
	colUsername
	colType
	colTitle
	colAmount
	colDate
	colNote
	colTags
	colDueDate
	colDebtSource
	colIsCleared

	recordLen
)

const (
	// TimestampFormat is the layout of the Date column, in local time.
	TimestampFormat = "2006-01-02 15:04:05"

	fieldDelimiter = ","
	tagDelimiter   = ";"
)

var noteReplacer = strings.NewReplacer(fieldDelimiter, tagDelimiter, "\r\n", "\n")

// EncodeRecord converts a transaction to its ledger row.
//
// Field delimiters in the note are replaced by ';' so that the note never
// spans columns, and "\r\n" line breaks are written as "\n". Both are lossy:
// a note read back holds ';' where ',' was and "\n" where "\r\n" was.
// Tags must not be empty nor hold ';', see Transaction.Validate.
func EncodeRecord(tx Transaction) Record {
	rec := make(Record, recordLen)
	rec[colID] = tx.ID
	rec[colUsername] = tx.Username
	rec[colType] = tx.Type.String()
	rec[colTitle] = tx.Title
	rec[colAmount] = tx.Amount.String()
	rec[colDate] = tx.Date.Format(TimestampFormat)
	rec[colNote] = noteReplacer.Replace(tx.Note)
	rec[colTags] = strings.Join(tx.Tags, tagDelimiter)
	rec[colDueDate] = tx.DueDate.String()
	rec[colDebtSource] = tx.DebtSource
	rec[colIsCleared] = formatBool(tx.IsCleared)
	return rec
}

// DecodeRecord converts a ledger row back to a transaction. row is only used
// to locate the failure in the returned *DecodeError.
func DecodeRecord(row int, rec Record) (Transaction, error) {
	if len(rec) < recordLen {
		return Transaction{}, &DecodeError{Row: row, Err: fmt.Errorf("got %d fields, want %d", len(rec), recordLen)}
	}
	fail := func(col int, err error) (Transaction, error) {
		return Transaction{}, &DecodeError{Row: row, Field: Header[col], Err: err}
	}

	tx := Transaction{
		ID:         rec[colID],
		Username:   rec[colUsername],
		Title:      rec[colTitle],
		Note:       rec[colNote],
		DebtSource: rec[colDebtSource],
	}
	if tx.ID == "" {
		return fail(colID, errors.New("missing id"))
	}

	var err error
	if tx.Type, err = ParseType(rec[colType]); err != nil {
		return fail(colType, err)
	}
	if tx.Amount, err = decimal.NewFromString(rec[colAmount]); err != nil {
		return fail(colAmount, err)
	}
	if !tx.Amount.IsPositive() {
		return fail(colAmount, fmt.Errorf("amount must be greater than 0, got %s", tx.Amount))
	}
	if tx.Date, err = time.ParseInLocation(TimestampFormat, rec[colDate], time.Local); err != nil {
		return fail(colDate, err)
	}
	if tx.DueDate, err = date.ParseStrict(rec[colDueDate]); err != nil {
		return fail(colDueDate, err)
	}
	if tx.IsCleared, err = strconv.ParseBool(rec[colIsCleared]); err != nil {
		return fail(colIsCleared, err)
	}
	for _, tag := range strings.Split(rec[colTags], tagDelimiter) {
		if tag != "" {
			tx.Tags = append(tx.Tags, tag)
		}
	}
	return tx, nil
}

// formatBool writes booleans the way existing ledger files spell them.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
