package moneymate

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the aggregate view of a set of transactions. It is computed on
// demand and never persisted.
type Summary struct {
	// TotalInflow counts credits and the debts not cleared yet: borrowed money
	// is available to spend until it is paid back.
	TotalInflow      decimal.Decimal
	TotalOutflow     decimal.Decimal
	TotalPendingDebt decimal.Decimal
	TotalClearedDebt decimal.Decimal

	PendingDebts []Transaction // by due date, debts without one last
	Transactions []Transaction // most recent first

	TransactionCount         int
	CurrentMonthTransactions int

	highest, lowest [typeCount]*Transaction
}

// Summarize aggregates txs, as returned by Query. now is the reference for the
// current month count.
func Summarize(txs []Transaction, now time.Time) *Summary {
	s := &Summary{
		TotalInflow:      decimal.Zero,
		TotalOutflow:     decimal.Zero,
		TotalPendingDebt: decimal.Zero,
		TotalClearedDebt: decimal.Zero,
		PendingDebts:     make([]Transaction, 0),
		Transactions:     slices.Clone(txs),
		TransactionCount: len(txs),
	}
	if s.Transactions == nil {
		s.Transactions = make([]Transaction, 0)
	}

	year, month, _ := now.Date()
	for _, tx := range txs {
		switch tx.Type {
		case Credit:
			s.TotalInflow = s.TotalInflow.Add(tx.Amount)
		case Debit:
			s.TotalOutflow = s.TotalOutflow.Add(tx.Amount)
		case Debt:
			if tx.IsCleared {
				s.TotalClearedDebt = s.TotalClearedDebt.Add(tx.Amount)
			} else {
				s.TotalPendingDebt = s.TotalPendingDebt.Add(tx.Amount)
				s.TotalInflow = s.TotalInflow.Add(tx.Amount)
				s.PendingDebts = append(s.PendingDebts, tx)
			}
		default:
			continue
		}

		// ties keep the first occurrence.
		if h := s.highest[tx.Type]; h == nil || tx.Amount.GreaterThan(h.Amount) {
			s.highest[tx.Type] = &tx
		}
		if l := s.lowest[tx.Type]; l == nil || tx.Amount.LessThan(l.Amount) {
			s.lowest[tx.Type] = &tx
		}

		if y, m, _ := tx.Date.In(now.Location()).Date(); y == year && m == month {
			s.CurrentMonthTransactions++
		}
	}

	slices.SortStableFunc(s.PendingDebts, func(a, b Transaction) int {
		switch {
		case a.DueDate.IsZero() && b.DueDate.IsZero():
			return 0
		case a.DueDate.IsZero():
			return 1
		case b.DueDate.IsZero():
			return -1
		case a.DueDate.Before(b.DueDate):
			return -1
		case a.DueDate.After(b.DueDate):
			return 1
		default:
			return 0
		}
	})
	return s
}

// Balance is the inflow minus the outflow.
func (s *Summary) Balance() decimal.Decimal { return s.TotalInflow.Sub(s.TotalOutflow) }

// AvailableBalance is the balance once pending debts are paid back.
func (s *Summary) AvailableBalance() decimal.Decimal { return s.Balance().Sub(s.TotalPendingDebt) }

// RemainingDebt is the amount still owed.
func (s *Summary) RemainingDebt() decimal.Decimal { return s.TotalPendingDebt }

// HasSufficientBalanceFor reports whether the balance covers amount.
func (s *Summary) HasSufficientBalanceFor(amount decimal.Decimal) bool {
	return s.Balance().GreaterThanOrEqual(amount)
}

// Highest returns the transaction of type t with the highest amount, or nil.
func (s *Summary) Highest(t Type) *Transaction {
	if !t.valid() {
		return nil
	}
	return s.highest[t]
}

// Lowest returns the transaction of type t with the lowest amount, or nil.
func (s *Summary) Lowest(t Type) *Transaction {
	if !t.valid() {
		return nil
	}
	return s.lowest[t]
}

// MarshalJSON implements the json.Marshaler interface for Summary.
func (s *Summary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("totalInflow", s.TotalInflow)
	w.Append("totalOutflow", s.TotalOutflow)
	w.Append("totalPendingDebt", s.TotalPendingDebt)
	w.Append("totalClearedDebt", s.TotalClearedDebt)
	w.Append("balance", s.Balance())
	w.Append("availableBalance", s.AvailableBalance())
	w.Append("transactionCount", s.TransactionCount)
	w.Append("currentMonthTransactions", s.CurrentMonthTransactions)
	for _, t := range Types {
		name := t.String()
		w.Optional("highest"+name, s.highest[t])
		w.Optional("lowest"+name, s.lowest[t])
	}
	w.Append("pendingDebts", s.PendingDebts)
	w.Append("transactions", s.Transactions)
	return w.MarshalJSON()
}
