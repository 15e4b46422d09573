package renderer

import (
	"fmt"

	"github.com/etnz/moneymate"
	"github.com/etnz/moneymate/date"
	md "github.com/nao1215/markdown"
)

// debtStatus is empty for credits and debits.
func debtStatus(tx moneymate.Transaction, today date.Date) string {
	switch {
	case tx.Type != moneymate.Debt:
		return ""
	case tx.IsOverdue(today):
		return md.Bold("overdue")
	default:
		return tx.State().String()
	}
}

// periodLabel describes r, or returns "" when r is unbounded.
func periodLabel(r date.Range) string {
	switch {
	case r.IsUnbounded():
		return ""
	case r.From.IsZero():
		return fmt.Sprintf("Until %s", r.To)
	case r.To.IsZero():
		return fmt.Sprintf("Since %s", r.From)
	}
	if _, ok := r.Period(); ok {
		return fmt.Sprintf("Period %s", r.Identifier())
	}
	return fmt.Sprintf("From %s to %s", r.From, r.To)
}
