package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/moneymate"
	"github.com/etnz/moneymate/date"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfig installs c as the global configuration for the test.
func withConfig(t *testing.T, c Config) {
	t.Helper()
	old := cfg
	cfg = c
	t.Cleanup(func() { cfg = old })
}

func testConfig(t *testing.T) Config {
	return Config{
		LedgerFile: filepath.Join(t.TempDir(), "transactions.csv"),
		User:       "alice",
		Currency:   "USD",
		Policy:     "face-value",
		Markdown:   true,
		TestingNow: "2025-03-15 18:00:00",
	}
}

// run parses args for c and executes it.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return c.Execute(context.Background(), f)
}

func TestParseConfig(t *testing.T) {
	withConfig(t, Config{})
	t.Setenv("MONEYMATE_USER", "bob")
	t.Setenv("MONEYMATE_CURRENCY", "EUR")
	t.Setenv("MONEYMATE_VERBOSE", "true")

	require.NoError(t, ParseConfig())
	assert.Equal(t, "transactions.csv", cfg.LedgerFile)
	assert.Equal(t, "bob", cfg.User)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, "face-value", cfg.Policy)
	assert.True(t, cfg.Verbose)

	f := flag.NewFlagSet("test", flag.ContinueOnError)
	SetFlags(f)
	require.NoError(t, f.Parse([]string{"-u", "carol", "-ledger-file", "other.csv"}))
	assert.Equal(t, "carol", cfg.User)
	assert.Equal(t, "other.csv", cfg.LedgerFile)
	assert.Equal(t, "EUR", cfg.Currency)
}

func TestParseConfig_Invalid(t *testing.T) {
	withConfig(t, Config{})
	t.Setenv("MONEYMATE_VERBOSE", "loud")

	err := ParseConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestOpenLedger(t *testing.T) {
	c := testConfig(t)
	c.User = ""
	withConfig(t, c)

	_, _, err := OpenLedger(context.Background())
	assert.ErrorIs(t, err, errNoUser)

	cfg.User = "alice"
	cfg.Policy = "strict"
	_, _, err = OpenLedger(context.Background())
	assert.Error(t, err)

	cfg.Policy = "balance"
	ledger, _, err := OpenLedger(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.LedgerFile, ledger.Store().Path())
	_, err = os.Stat(cfg.LedgerFile)
	assert.NoError(t, err)
}

func TestParseRange(t *testing.T) {
	withConfig(t, testConfig(t))
	d := func(m time.Month, day int) date.Date { return date.New(2025, m, day) }

	testCases := []struct {
		name               string
		period, start, end string
		want               date.Range
		wantErr            bool
	}{
		{name: "everything", want: date.Range{}},
		{name: "month of today", period: "month", want: date.NewRange(d(3, 1), d(3, 31))},
		{name: "month of end date", period: "month", end: "2025-02-10", want: date.NewRange(d(2, 1), d(2, 28))},
		{name: "start overrides period", period: "year", start: "2025-03-01", want: date.Range{From: d(3, 1)}},
		{name: "custom", start: "2025-03-01", end: "-1d", want: date.NewRange(d(3, 1), d(3, 14))},
		{name: "until", end: "2025-03-01", want: date.Range{To: d(3, 1)}},
		{name: "bad period", period: "fortnight", wantErr: true},
		{name: "bad date", start: "yesterday", wantErr: true},
		{name: "reversed", start: "2025-03-10", end: "2025-03-01", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseRange(tc.period, tc.start, tc.end)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExitStatus(t *testing.T) {
	assert.Equal(t, subcommands.ExitUsageError, exitStatus(&moneymate.ValidationError{Reason: moneymate.ErrDebtNotFound}))
	assert.Equal(t, subcommands.ExitFailure, exitStatus(&moneymate.StorageError{Op: "load", Err: os.ErrPermission}))
}
