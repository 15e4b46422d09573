// Package cmd implements the CLI application to manage a personal ledger.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/etnz/moneymate"
	"github.com/etnz/moneymate/date"
	"github.com/etnz/moneymate/internal/logger"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addCmd{typ: moneymate.Credit}, "transactions")
	c.Register(&addCmd{typ: moneymate.Debit}, "transactions")
	c.Register(&addCmd{typ: moneymate.Debt}, "transactions")
	c.Register(&clearCmd{}, "transactions")

	c.Register(&txCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")

	c.Register(&topicCmd{}, "documentation")
}

// Config is the configuration shared by all the subcommands. Values are read
// from the environment first, global flags override them.
type Config struct {
	LedgerFile string `env:"MONEYMATE_LEDGER_FILE" envDefault:"transactions.csv"`
	User       string `env:"MONEYMATE_USER"`
	Currency   string `env:"MONEYMATE_CURRENCY" envDefault:"USD"`
	Policy     string `env:"MONEYMATE_CLEARANCE_POLICY" envDefault:"face-value"`
	Verbose    bool   `env:"MONEYMATE_VERBOSE"`
	Markdown   bool   `env:"MONEYMATE_MARKDOWN"`

	// TestingNow freezes the clock, in the ledger timestamp format.
	TestingNow string `env:"MONEYMATE_TESTING_NOW"`
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
var cfg Config

// ParseConfig loads the configuration from the environment.
func ParseConfig() error {
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SetFlags registers the global flags on f, defaulting to the values read by
// ParseConfig.
func SetFlags(f *flag.FlagSet) {
	f.StringVar(&cfg.LedgerFile, "ledger-file", cfg.LedgerFile, "Path to the ledger file (CSV format)")
	f.StringVar(&cfg.User, "u", cfg.User, "User whose transactions are managed")
	f.StringVar(&cfg.Currency, "currency", cfg.Currency, "ISO 4217 code of the currency used to display amounts")
	f.StringVar(&cfg.Policy, "policy", cfg.Policy, "Debt clearance policy: face-value or balance")
	f.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Log ledger operations on stderr")
	f.BoolVar(&cfg.Markdown, "markdown", cfg.Markdown, "Print reports as raw markdown")
}

var errNoUser = errors.New("no user selected: use -u or set MONEYMATE_USER")

// now returns the current time, or the frozen one.
func now() (time.Time, error) {
	if cfg.TestingNow == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation(moneymate.TimestampFormat, cfg.TestingNow, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid MONEYMATE_TESTING_NOW: %w", err)
	}
	return t, nil
}

// OpenLedger is the central function to open the ledger of the configured
// file. The returned context carries the logger.
func OpenLedger(ctx context.Context) (*moneymate.Ledger, context.Context, error) {
	level := zerolog.WarnLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	log := logger.WithFields(logger.New(level), map[string]interface{}{"user": cfg.User})
	ctx = logger.WithContext(ctx, log)

	if cfg.User == "" {
		return nil, ctx, errNoUser
	}
	policy, err := moneymate.ParseClearancePolicy(cfg.Policy)
	if err != nil {
		return nil, ctx, err
	}
	opts := []moneymate.Option{moneymate.WithPolicy(policy)}
	if cfg.TestingNow != "" {
		t, err := now()
		if err != nil {
			return nil, ctx, err
		}
		opts = append(opts, moneymate.WithClock(func() time.Time { return t }))
	}

	ledger, err := moneymate.OpenLedger(cfg.LedgerFile, opts...)
	if err != nil {
		return nil, ctx, err
	}
	return ledger, ctx, nil
}

// today is the reference day for relative dates and overdue debts.
func today() date.Date {
	t, err := now()
	if err != nil {
		return date.Today()
	}
	return date.FromTime(t)
}

// parseRange computes the range selected by the -p, -s and -d flags. No flag
// at all selects every transaction.
func parseRange(period, start, end string) (date.Range, error) {
	if period == "" && start == "" && end == "" {
		return date.Range{}, nil
	}

	var r date.Range
	if end != "" {
		to, err := parseDate(end)
		if err != nil {
			return r, fmt.Errorf("invalid end date: %w", err)
		}
		r.To = to
	}

	switch {
	case start != "":
		from, err := parseDate(start)
		if err != nil {
			return r, fmt.Errorf("invalid start date: %w", err)
		}
		r.From = from
	case period != "":
		p, err := date.ParsePeriod(period)
		if err != nil {
			return r, err
		}
		on := r.To
		if on.IsZero() {
			on = today()
		}
		r = p.Range(on)
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return r, fmt.Errorf("end date %s is before start date %s", r.To, r.From)
	}
	return r, nil
}

// parseDate parses absolute or relative dates, relative to today.
func parseDate(s string) (date.Date, error) { return date.ParseFrom(s, today()) }
