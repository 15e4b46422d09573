package moneymate

import (
	"testing"
	"time"

	"github.com/etnz/moneymate/date"
	"github.com/stretchr/testify/assert"
)

func ids(txs []Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.ID)
	}
	return out
}

func TestQuery(t *testing.T) {
	late := time.Date(2025, time.March, 10, 23, 59, 59, 0, time.Local)
	ledger := []Transaction{
		credit("a1", "alice", "1000", day(1)),
		debit("b1", "bob", "10", day(2)),
		debit("a2", "alice", "200", day(5)),
		debt("a3", "alice", "500", day(5), march(30)),
		credit("a4", "alice", "50", late),
		credit("a5", "alice", "70", day(11)),
	}

	testCases := []struct {
		name string
		user string
		r    date.Range
		want []string
	}{
		{"unbounded", "alice", date.Range{}, []string{"a5", "a4", "a2", "a3", "a1"}},
		{"other user", "bob", date.Range{}, []string{"b1"}},
		{"unknown user", "carol", date.Range{}, []string{}},
		{"from only", "alice", date.Range{From: march(5)}, []string{"a5", "a4", "a2", "a3"}},
		{"to only is inclusive of the whole day", "alice", date.Range{To: march(10)}, []string{"a4", "a2", "a3", "a1"}},
		{"closed", "alice", date.NewRange(march(2), march(10)), []string{"a4", "a2", "a3"}},
		{"single day", "alice", date.NewRange(march(5), march(5)), []string{"a2", "a3"}},
		{"empty range", "alice", date.NewRange(march(20), march(25)), []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Query(ledger, tc.user, tc.r)
			assert.NotNil(t, got)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestQuery_DoesNotModifyInput(t *testing.T) {
	ledger := []Transaction{
		credit("a1", "alice", "1", day(1)),
		credit("a2", "alice", "2", day(2)),
	}
	Query(ledger, "alice", date.Range{})
	assert.Equal(t, []string{"a1", "a2"}, ids(ledger))
}
