package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/etnz/moneymate"
	"github.com/etnz/moneymate/date"
	"github.com/etnz/moneymate/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// addCmd records a transaction of a given type.
type addCmd struct {
	typ    moneymate.Type
	id     string
	title  string
	amount string
	date   string
	note   string
	tags   string
	due    string
	source string
}

func (c *addCmd) Name() string { return strings.ToLower(c.typ.String()) }
func (c *addCmd) Synopsis() string {
	switch c.typ {
	case moneymate.Credit:
		return "record money received"
	case moneymate.Debit:
		return "record money spent"
	default:
		return "record money borrowed, to be paid back"
	}
}
func (c *addCmd) Usage() string {
	usage := fmt.Sprintf(`mm %s -t <title> -a <amount> [-d <date>] [-n <note>] [-tags <tag,tag>]`, c.Name())
	if c.typ == moneymate.Debt {
		usage += " [-due <date>] [-source <lender>]"
	}
	return usage + `

  Records a new transaction for the current user, dated now unless -d is set.
  Amounts are positive decimals, the type gives the direction.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Transaction id. A random one is generated by default.")
	f.StringVar(&c.title, "t", "", "Title of the transaction (required).")
	f.StringVar(&c.amount, "a", "", "Amount, strictly positive (required).")
	f.StringVar(&c.date, "d", "", "Date of the transaction. See the user manual for supported date formats.")
	f.StringVar(&c.note, "n", "", "Free text note.")
	f.StringVar(&c.tags, "tags", "", "Comma separated list of tags.")
	if c.typ == moneymate.Debt {
		f.StringVar(&c.due, "due", "", "Date the debt must be paid back by.")
		f.StringVar(&c.source, "source", "", "Who the money is owed to.")
	}
}

// transaction builds the transaction described by the flags.
func (c *addCmd) transaction() (moneymate.Transaction, error) {
	tx := moneymate.Transaction{
		ID:         c.id,
		Username:   cfg.User,
		Type:       c.typ,
		Title:      strings.TrimSpace(c.title),
		Note:       c.note,
		Tags:       splitTags(c.tags),
		DebtSource: c.source,
	}

	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return tx, fmt.Errorf("invalid amount %q: %w", c.amount, err)
	}
	tx.Amount = amount

	if c.date != "" {
		on, err := parseDate(c.date)
		if err != nil {
			return tx, err
		}
		t, err := now()
		if err != nil {
			return tx, err
		}
		// keep the time of day so that entries of the same day stay ordered.
		clock := t.Sub(date.FromTime(t).In(t.Location()))
		tx.Date = on.In(time.Local).Add(clock)
	}
	if c.due != "" {
		if tx.DueDate, err = parseDate(c.due); err != nil {
			return tx, fmt.Errorf("invalid due date: %w", err)
		}
	}
	return tx, nil
}

func splitTags(s string) []string {
	var tags []string
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tx, err := c.transaction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ledger, ctx, err := OpenLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	tx, err = ledger.AddTransaction(ctx, tx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording %s: %v\n", c.Name(), err)
		return exitStatus(err)
	}

	fmt.Printf("%s: %s\n", tx.ID, renderer.Transaction(tx, cfg.Currency))
	return subcommands.ExitSuccess
}
