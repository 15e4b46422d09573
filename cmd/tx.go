package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/moneymate/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	period string
	start  string
	date   string
	head   int
	json   bool
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions of the current user" }
func (*txCmd) Usage() string {
	return `mm tx [-p <period> | -s <start_date>] [-d <end_date>] [-head <n>] [-json]

  Lists the transactions of the current user, most recent first, with options
  for filtering and limiting the output.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.period, "p", "", "Predefined period (day, week, month, quarter, year).")
	f.StringVar(&p.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&p.date, "d", "", "The end date for the range.")
	f.IntVar(&p.head, "head", 0, "Show only the N most recent transactions.")
	f.BoolVar(&p.json, "json", false, "Print the transactions as JSON.")
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := parseRange(p.period, p.start, p.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, ctx, err := OpenLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	transactions, err := ledger.GetUserTransactions(ctx, cfg.User, r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	if p.head > 0 && len(transactions) > p.head {
		transactions = transactions[:p.head]
	}

	if p.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(transactions); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding transactions: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.TransactionsMarkdown(transactions, renderer.Options{
		Username: cfg.User,
		Currency: cfg.Currency,
		Range:    r,
		Today:    today(),
	}))
	return subcommands.ExitSuccess
}
