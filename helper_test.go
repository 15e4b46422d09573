package moneymate

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/etnz/moneymate/date"
	"github.com/shopspring/decimal"
)

// dec is a helper for test to create decimals from const
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// day returns 10:00 local time on that day of March 2025.
func day(d int) time.Time { return time.Date(2025, time.March, d, 10, 0, 0, 0, time.Local) }

// march returns the date of that day of March 2025.
func march(d int) date.Date { return date.New(2025, time.March, d) }

func credit(id, user string, amount string, on time.Time) Transaction {
	return Transaction{ID: id, Username: user, Type: Credit, Title: "credit " + id, Amount: dec(amount), Date: on}
}

func debit(id, user string, amount string, on time.Time) Transaction {
	return Transaction{ID: id, Username: user, Type: Debit, Title: "debit " + id, Amount: dec(amount), Date: on}
}

func debt(id, user string, amount string, on time.Time, due date.Date) Transaction {
	return Transaction{ID: id, Username: user, Type: Debt, Title: "debt " + id, Amount: dec(amount), Date: on, DueDate: due}
}

// sequentialIDs returns an id generator yielding prefix-1, prefix-2...
// It is safe for concurrent use.
func sequentialIDs(prefix string) func() string {
	var n atomic.Int64
	return func() string {
		return prefix + "-" + strconv.FormatInt(n.Add(1), 10)
	}
}
