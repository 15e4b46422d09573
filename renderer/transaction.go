package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/moneymate"
	"github.com/etnz/moneymate/date"
	md "github.com/nao1215/markdown"
)

// Options holds what the reports need besides the data itself.
type Options struct {
	Username string
	Currency string     // ISO 4217 code used to format amounts
	Range    date.Range // period the report covers
	Today    date.Date  // reference for overdue debts
}

// Transaction renders a transaction to a one line string.
func Transaction(tx moneymate.Transaction, currency string) string {
	amount := moneymate.FormatAmount(tx.Amount, currency)
	switch tx.Type {
	case moneymate.Credit:
		return fmt.Sprintf("Received %s for %s", amount, tx.Title)
	case moneymate.Debit:
		return fmt.Sprintf("Spent %s on %s", amount, tx.Title)
	case moneymate.Debt:
		from := ""
		if tx.DebtSource != "" {
			from = " from " + tx.DebtSource
		}
		if tx.IsCleared {
			return fmt.Sprintf("Paid back %s%s for %s", amount, from, tx.Title)
		}
		return fmt.Sprintf("Borrowed %s%s for %s", amount, from, tx.Title)
	default:
		return tx.Title
	}
}

// TransactionsMarkdown renders the list of transactions as a markdown table,
// in the order given.
func TransactionsMarkdown(txs []moneymate.Transaction, opts Options) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Transactions of %s", opts.Username))
	if period := periodLabel(opts.Range); period != "" {
		doc.PlainText(period)
	}
	if len(txs) == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}

	table := md.TableSet{
		Header: []string{"Date", "Type", "Title", "Amount", "Tags", "Status", "Id"},
	}
	for _, tx := range txs {
		table.Rows = append(table.Rows, []string{
			tx.Date.Format(moneymate.TimestampFormat),
			tx.Type.String(),
			tx.Title,
			moneymate.FormatSignedAmount(tx, opts.Currency),
			strings.Join(tx.Tags, ", "),
			debtStatus(tx, opts.Today),
			tx.ID,
		})
	}
	doc.Table(table)
	return doc.String()
}
