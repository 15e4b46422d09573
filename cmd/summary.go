package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/moneymate/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	period string
	start  string
	date   string
	json   bool
	query  string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the balance and debts of the current user" }
func (*summaryCmd) Usage() string {
	return `mm summary [-p <period> | -s <start_date>] [-d <end_date>] [-json] [-q <jsonpath>]

  Displays the totals, balances, extremes and pending debts of the current
  user. With -json the summary is printed as JSON, -q selects a value in it
  with a JSONPath expression, for instance '$.availableBalance'.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "", "Predefined period (day, week, month, quarter, year).")
	f.StringVar(&c.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&c.date, "d", "", "The end date for the range.")
	f.BoolVar(&c.json, "json", false, "Print the summary as JSON.")
	f.StringVar(&c.query, "q", "", "JSONPath expression selecting part of the JSON summary.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := parseRange(c.period, c.start, c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, ctx, err := OpenLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	summary, err := ledger.GetSummary(ctx, cfg.User, r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing summary: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.query != "" {
		out, err := queryJSON(summary, c.query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		fmt.Println(out)
		return subcommands.ExitSuccess
	}

	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding summary: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.SummaryMarkdown(summary, renderer.Options{
		Username: cfg.User,
		Currency: cfg.Currency,
		Range:    r,
		Today:    today(),
	}))
	return subcommands.ExitSuccess
}

// queryJSON evaluates the JSONPath expression path on the JSON form of v.
// Strings are printed raw, other values as JSON.
func queryJSON(v any, path string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return "", err
	}

	val, err := jsonpath.Get(path, doc)
	if err != nil {
		return "", fmt.Errorf("invalid query %q: %w", path, err)
	}
	if s, ok := val.(string); ok {
		return s, nil
	}
	out, err := json.Marshal(val)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
