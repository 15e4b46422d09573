package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/moneymate"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the summary of a user as a markdown report.
func SummaryMarkdown(s *moneymate.Summary, opts Options) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	amount := func(a moneymate.Transaction) string { return moneymate.FormatAmount(a.Amount, opts.Currency) }

	doc.H1(fmt.Sprintf("Summary of %s", opts.Username))
	if period := periodLabel(opts.Range); period != "" {
		doc.PlainText(period)
	}

	doc.H2("Balance")
	doc.Table(md.TableSet{
		Header: []string{md.Bold("Available Balance"), md.Bold(moneymate.FormatAmount(s.AvailableBalance(), opts.Currency))},
		Rows: [][]string{
			{"Total Inflow", moneymate.FormatAmount(s.TotalInflow, opts.Currency)},
			{"Total Outflow", moneymate.FormatAmount(s.TotalOutflow, opts.Currency)},
			{"Balance", moneymate.FormatAmount(s.Balance(), opts.Currency)},
			{"Pending Debt", moneymate.FormatAmount(s.TotalPendingDebt, opts.Currency)},
			{"Cleared Debt", moneymate.FormatAmount(s.TotalClearedDebt, opts.Currency)},
		},
	})

	doc.H2("Activity")
	doc.BulletList(
		fmt.Sprintf("%d transactions", s.TransactionCount),
		fmt.Sprintf("%d this month", s.CurrentMonthTransactions),
	)

	extremes := md.TableSet{Header: []string{"Type", "Highest", "Lowest"}}
	for _, t := range moneymate.Types {
		h, l := s.Highest(t), s.Lowest(t)
		if h == nil {
			continue
		}
		extremes.Rows = append(extremes.Rows, []string{
			t.String(),
			fmt.Sprintf("%s (%s)", amount(*h), h.Title),
			fmt.Sprintf("%s (%s)", amount(*l), l.Title),
		})
	}
	if len(extremes.Rows) > 0 {
		doc.H2("Extremes")
		doc.Table(extremes)
	}

	if len(s.PendingDebts) > 0 {
		doc.H2("Pending Debts")
		table := md.TableSet{Header: []string{"Due", "Title", "Source", "Amount", "Status", "Id"}}
		for _, tx := range s.PendingDebts {
			due := tx.DueDate.String()
			if due == "" {
				due = "-"
			}
			table.Rows = append(table.Rows, []string{
				due,
				tx.Title,
				tx.DebtSource,
				amount(tx),
				debtStatus(tx, opts.Today),
				tx.ID,
			})
		}
		doc.Table(table)
	}

	return doc.String()
}
