package moneymate

import (
	"slices"

	"github.com/etnz/moneymate/date"
)

// Query returns the transactions of username whose day is within r, most
// recent first. Transactions at the same instant keep their ledger order.
// The time of day is ignored when comparing with the range bounds.
func Query(txs []Transaction, username string, r date.Range) []Transaction {
	out := make([]Transaction, 0)
	for _, tx := range txs {
		if tx.Username != username {
			continue
		}
		if !r.Contains(date.FromTime(tx.Date)) {
			continue
		}
		out = append(out, tx)
	}
	slices.SortStableFunc(out, func(a, b Transaction) int { return b.Date.Compare(a.Date) })
	return out
}

// byUser returns the transactions of username, in ledger order.
func byUser(txs []Transaction, username string) []Transaction {
	var out []Transaction
	for _, tx := range txs {
		if tx.Username == username {
			out = append(out, tx)
		}
	}
	return out
}
