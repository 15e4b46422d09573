package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/moneymate"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type clearCmd struct{}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "pay back all or part of a debt" }
func (*clearCmd) Usage() string {
	return `mm clear <debt_id> [<amount>]

  Pays back a pending debt of the current user. Without an amount, the debt
  is paid in full. A smaller amount clears the debt for that amount and
  records the rest as a new pending debt.
`
}

func (*clearCmd) SetFlags(f *flag.FlagSet) {}

func (c *clearCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "Error: clear takes a debt id and an optional amount.")
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	ledger, ctx, err := OpenLedger(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var payment decimal.Decimal
	if f.NArg() == 2 {
		if payment, err = decimal.NewFromString(f.Arg(1)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid amount %q: %v\n", f.Arg(1), err)
			return subcommands.ExitUsageError
		}
		err = ledger.ClearDebt(ctx, id, cfg.User, payment)
	} else {
		payment, err = ledger.ClearDebtInFull(ctx, id, cfg.User)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error clearing debt: %v\n", err)
		return exitStatus(err)
	}

	fmt.Printf("Paid %s on %s\n", moneymate.FormatAmount(payment, cfg.Currency), id)
	return subcommands.ExitSuccess
}

// exitStatus maps ledger errors to exit statuses: refused operations are
// usage errors.
func exitStatus(err error) subcommands.ExitStatus {
	var validationErr *moneymate.ValidationError
	if errors.As(err, &validationErr) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}
