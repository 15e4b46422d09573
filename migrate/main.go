// Command migrate imports legacy JSON ledgers into the CSV ledger and checks
// ledger files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"sort"

	"github.com/etnz/moneymate"
	"github.com/etnz/moneymate/internal/logger"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	// The migrate tool needs its own set of flags, independent of the main mm tool.
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	commander := subcommands.NewCommander(flag.CommandLine, "migrate")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(&jsonCmd{}, "")
	commander.Register(&checkCmd{}, "")
	flag.Parse()

	ctx := logger.WithContext(context.Background(), logger.New(zerolog.InfoLevel))
	os.Exit(int(commander.Execute(ctx)))
}

// --- jsonCmd ---

type jsonCmd struct {
	in  string
	out string
}

func (*jsonCmd) Name() string { return "json" }
func (*jsonCmd) Synopsis() string {
	return "imports a JSON ledger file into a CSV ledger file"
}
func (*jsonCmd) Usage() string {
	return `migrate json -in <transactions.json> -out <transactions.csv>

Appends the transactions of a JSON ledger file to a CSV ledger file, creating
it if needed. Transactions whose id is already in the CSV ledger are skipped,
so that the import can be run again. Transactions without id get a new one.
Invalid transactions abort the import before anything is written.
`
}
func (c *jsonCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in, "in", "", "The path to the source JSON ledger file.")
	f.StringVar(&c.out, "out", "transactions.csv", "The path to the destination CSV ledger file.")
}

func (c *jsonCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.in == "" {
		fmt.Fprintln(os.Stderr, "Error: -in flag is required.")
		return subcommands.ExitUsageError
	}

	file, err := os.Open(c.in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening JSON ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	legacy, err := moneymate.DecodeLegacyJSON(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	store, err := moneymate.OpenStore(c.out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening CSV ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	imported, skipped, err := Import(ctx, store, legacy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing transactions: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d transactions into %s, %d already present\n", imported, c.out, skipped)
	return subcommands.ExitSuccess
}

// Import appends txs to the store in a single rewrite, skipping the ids
// already present. It returns the number of imported and skipped
// transactions.
func Import(ctx context.Context, store *moneymate.Store, txs []moneymate.Transaction) (imported, skipped int, err error) {
	err = store.Update(ctx, func(existing []moneymate.Transaction) ([]moneymate.Transaction, error) {
		imported, skipped = 0, 0
		seen := make(map[string]bool, len(existing))
		for _, tx := range existing {
			seen[tx.ID] = true
		}

		next := slices.Clone(existing)
		for _, tx := range txs {
			if tx.ID == "" {
				tx.ID = uuid.NewString()
			}
			if seen[tx.ID] {
				skipped++
				continue
			}
			if err := tx.Validate(); err != nil {
				return nil, err
			}
			seen[tx.ID] = true
			next = append(next, tx)
			imported++
		}
		return next, nil
	})
	return imported, skipped, err
}

// --- checkCmd ---

type checkCmd struct {
	ledgerFile string
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verifies that every row of a ledger file is readable" }
func (*checkCmd) Usage() string {
	return `migrate check [-ledger-file <path>]

Reads a CSV ledger file and reports the rows that cannot be decoded, the
duplicated ids and the number of transactions of each user. Exits with a
failure if the ledger has any problem.
`
}
func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledgerFile, "ledger-file", "transactions.csv", "Path to the ledger file to check.")
}

func (c *checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if _, err := os.Stat(c.ledgerFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	store, err := moneymate.OpenStore(c.ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := Check(ctx, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println(" User                 | Transactions")
	fmt.Println("----------------------------------------")
	for _, user := range report.Users() {
		fmt.Printf(" %-20s | %d\n", user, report.PerUser[user])
	}
	fmt.Printf("\n%d rows, %d skipped, %d duplicated ids, %d invalid\n", report.Stats.Rows, report.Stats.Skipped, len(report.Duplicates), len(report.Invalid))
	for _, id := range report.Duplicates {
		fmt.Printf("  duplicated id %q\n", id)
	}
	for _, id := range report.Invalid {
		fmt.Printf("  invalid transaction %q\n", id)
	}

	if !report.OK() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// CheckReport describes the content of a ledger file.
type CheckReport struct {
	Stats      moneymate.LoadStats
	PerUser    map[string]int
	Duplicates []string
	Invalid    []string // ids of decoded transactions failing validation
}

// OK reports whether every row was decoded and valid, and ids are unique.
func (r CheckReport) OK() bool {
	return r.Stats.Skipped == 0 && len(r.Duplicates) == 0 && len(r.Invalid) == 0
}

// Users returns the users of the ledger, sorted.
func (r CheckReport) Users() []string {
	users := make([]string, 0, len(r.PerUser))
	for user := range r.PerUser {
		users = append(users, user)
	}
	sort.Strings(users)
	return users
}

// Check loads the ledger of store and reports its problems.
func Check(ctx context.Context, store *moneymate.Store) (CheckReport, error) {
	txs, stats, err := store.LoadAllWithStats(ctx)
	if err != nil {
		return CheckReport{}, err
	}
	report := CheckReport{Stats: stats, PerUser: make(map[string]int)}
	seen := make(map[string]bool, len(txs))
	for _, tx := range txs {
		report.PerUser[tx.Username]++
		if seen[tx.ID] && !slices.Contains(report.Duplicates, tx.ID) {
			report.Duplicates = append(report.Duplicates, tx.ID)
		}
		seen[tx.ID] = true
		if err := tx.Validate(); err != nil {
			report.Invalid = append(report.Invalid, tx.ID)
		}
	}
	return report, nil
}
