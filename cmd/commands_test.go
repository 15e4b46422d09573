package cmd

import (
	"context"
	"flag"
	"testing"
	"time"

	"github.com/etnz/moneymate"
	"github.com/etnz/moneymate/date"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// transactions loads the transactions of the configured user.
func transactions(t *testing.T) []moneymate.Transaction {
	t.Helper()
	ledger, ctx, err := OpenLedger(context.Background())
	require.NoError(t, err)
	txs, err := ledger.GetUserTransactions(ctx, cfg.User, date.Range{})
	require.NoError(t, err)
	return txs
}

func TestAddCmd(t *testing.T) {
	withConfig(t, testConfig(t))

	status := run(t, &addCmd{typ: moneymate.Credit}, "-id", "c1", "-t", "salary", "-a", "1500", "-tags", "work, monthly,")
	require.Equal(t, subcommands.ExitSuccess, status)

	status = run(t, &addCmd{typ: moneymate.Debt}, "-id", "x1", "-t", "loan", "-a", "500.50", "-d", "2025-03-02", "-due", "+1m", "-source", "Bob", "-n", "car, repair")
	require.Equal(t, subcommands.ExitSuccess, status)

	txs := transactions(t)
	require.Len(t, txs, 2)

	salary := txs[0]
	assert.Equal(t, "c1", salary.ID)
	assert.Equal(t, "alice", salary.Username)
	assert.Equal(t, moneymate.Credit, salary.Type)
	assert.Equal(t, []string{"work", "monthly"}, salary.Tags)
	assert.Equal(t, time.Date(2025, time.March, 15, 18, 0, 0, 0, time.Local), salary.Date)

	loan := txs[1]
	assert.Equal(t, moneymate.Debt, loan.Type)
	assert.True(t, loan.Amount.Equal(decimal.RequireFromString("500.50")))
	assert.Equal(t, time.Date(2025, time.March, 2, 18, 0, 0, 0, time.Local), loan.Date)
	assert.Equal(t, date.New(2025, time.April, 15), loan.DueDate)
	assert.Equal(t, "Bob", loan.DebtSource)
	assert.Equal(t, "car; repair", loan.Note)
}

func TestAddCmd_Refused(t *testing.T) {
	withConfig(t, testConfig(t))

	testCases := []struct {
		name string
		typ  moneymate.Type
		args []string
		want subcommands.ExitStatus
	}{
		{"missing amount", moneymate.Credit, []string{"-t", "salary"}, subcommands.ExitUsageError},
		{"bad amount", moneymate.Debit, []string{"-t", "rent", "-a", "1,000"}, subcommands.ExitUsageError},
		{"bad date", moneymate.Debit, []string{"-t", "rent", "-a", "10", "-d", "someday"}, subcommands.ExitUsageError},
		{"zero amount", moneymate.Debit, []string{"-t", "rent", "-a", "0"}, subcommands.ExitUsageError},
		{"missing title", moneymate.Credit, []string{"-a", "10"}, subcommands.ExitUsageError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, run(t, &addCmd{typ: tc.typ}, tc.args...))
		})
	}
	assert.Empty(t, transactions(t))
}

func TestClearCmd(t *testing.T) {
	withConfig(t, testConfig(t))
	require.Equal(t, subcommands.ExitSuccess, run(t, &addCmd{typ: moneymate.Debt}, "-id", "x1", "-t", "loan", "-a", "500"))

	assert.Equal(t, subcommands.ExitUsageError, run(t, &clearCmd{}))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &clearCmd{}, "x1", "600"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &clearCmd{}, "nope", "10"))

	require.Equal(t, subcommands.ExitSuccess, run(t, &clearCmd{}, "x1", "300"))
	txs := transactions(t)
	require.Len(t, txs, 2)

	var rest moneymate.Transaction
	for _, tx := range txs {
		if tx.ID != "x1" {
			rest = tx
		}
	}
	assert.Equal(t, "loan (remaining)", rest.Title)

	// without amount the debt is paid in full
	require.Equal(t, subcommands.ExitSuccess, run(t, &clearCmd{}, rest.ID))
	for _, tx := range transactions(t) {
		assert.True(t, tx.IsCleared, tx.ID)
	}
}

func TestReportCmds(t *testing.T) {
	withConfig(t, testConfig(t))
	require.Equal(t, subcommands.ExitSuccess, run(t, &addCmd{typ: moneymate.Credit}, "-t", "salary", "-a", "1500"))

	assert.Equal(t, subcommands.ExitSuccess, run(t, &txCmd{}))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &txCmd{}, "-p", "month", "-json"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &txCmd{}, "-p", "fortnight"))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &summaryCmd{}))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &summaryCmd{}, "-json"))
	assert.Equal(t, subcommands.ExitSuccess, run(t, &summaryCmd{}, "-q", "$.balance"))
	assert.Equal(t, subcommands.ExitUsageError, run(t, &summaryCmd{}, "-q", "$.["))
}

func TestQueryJSON(t *testing.T) {
	txs := []moneymate.Transaction{{
		ID: "c1", Username: "alice", Type: moneymate.Credit, Title: "salary",
		Amount: decimal.RequireFromString("1500"),
		Date:   time.Date(2025, time.March, 1, 9, 0, 0, 0, time.Local),
	}}
	s := moneymate.Summarize(txs, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.Local))

	got, err := queryJSON(s, "$.availableBalance")
	require.NoError(t, err)
	assert.Equal(t, "1500", got)

	got, err = queryJSON(s, "$.highestCredit.title")
	require.NoError(t, err)
	assert.Equal(t, "salary", got)

	got, err = queryJSON(s, "$.transactions[*].id")
	require.NoError(t, err)
	assert.Equal(t, `["c1"]`, got)
}

func TestCompletion(t *testing.T) {
	withConfig(t, testConfig(t))
	global := flag.NewFlagSet("mm", flag.ContinueOnError)
	SetFlags(global)
	commander := subcommands.NewCommander(global, "mm")
	commander.Register(commander.HelpCommand(), "")
	Register(commander)

	c := Completion(commander)
	for _, name := range []string{"credit", "debit", "debt", "clear", "tx", "summary", "topic", "help"} {
		assert.Contains(t, c.Sub, name)
	}
	assert.Contains(t, c.Flags, "ledger-file")
	assert.Contains(t, c.Sub["debt"].Flags, "due")
	assert.NotContains(t, c.Sub["credit"].Flags, "due")
	assert.Contains(t, c.Sub["summary"].Flags, "q")
	assert.NotNil(t, c.Sub["topic"].Args)
}
