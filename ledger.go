package moneymate

import (
	"context"
	"slices"
	"time"

	"github.com/etnz/moneymate/date"
	"github.com/etnz/moneymate/internal/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger is the entry point of the ledger engine. It records transactions in
// a Store and answers the per-user queries.
//
// Callers pass the authenticated username to every call; the ledger holds no
// notion of a current user.
type Ledger struct {
	store  *Store
	policy ClearancePolicy
	now    func() time.Time
	newID  func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPolicy sets the policy authorizing debt payments. The default is
// FaceValuePolicy.
func WithPolicy(p ClearancePolicy) Option { return func(l *Ledger) { l.policy = p } }

// WithClock sets the clock used to date new transactions and summaries.
func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

// WithIDGenerator sets the generator of transaction ids.
func WithIDGenerator(newID func() string) Option { return func(l *Ledger) { l.newID = newID } }

// NewLedger creates a ledger on top of store.
func NewLedger(store *Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		policy: FaceValuePolicy{},
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OpenLedger opens, or creates, the ledger file at path.
func OpenLedger(path string, opts ...Option) (*Ledger, error) {
	store, err := OpenStore(path)
	if err != nil {
		return nil, err
	}
	return NewLedger(store, opts...), nil
}

// Store returns the underlying store.
func (l *Ledger) Store() *Store { return l.store }

// AddTransaction records tx and returns it as stored. A missing id or date is
// filled in; the date is truncated to the second, the ledger precision. Note
// line breaks and tags are normalized as the ledger file stores them.
func (l *Ledger) AddTransaction(ctx context.Context, tx Transaction) (Transaction, error) {
	tx = tx.normalize()
	if tx.ID == "" {
		tx.ID = l.newID()
	}
	if tx.Date.IsZero() {
		tx.Date = l.now()
	}
	tx.Date = tx.Date.Truncate(time.Second)

	if err := l.store.Add(ctx, tx); err != nil {
		return Transaction{}, err
	}
	log := logger.FromContext(ctx)
	log.Info().
		Str("id", tx.ID).
		Str("user", tx.Username).
		Stringer("type", tx.Type).
		Stringer("amount", tx.Amount).
		Msg("transaction added")
	return tx, nil
}

// GetUserTransactions returns the transactions of username within r, most
// recent first.
func (l *Ledger) GetUserTransactions(ctx context.Context, username string, r date.Range) ([]Transaction, error) {
	txs, err := l.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return Query(txs, username, r), nil
}

// GetSummary aggregates the transactions of username within r.
func (l *Ledger) GetSummary(ctx context.Context, username string, r date.Range) (*Summary, error) {
	txs, err := l.GetUserTransactions(ctx, username, r)
	if err != nil {
		return nil, err
	}
	return Summarize(txs, l.now()), nil
}

// ClearDebt pays payment on the debt debtID of username. The ledger is
// rewritten once, whether the debt is split or not. A refused payment
// returns a *ValidationError and leaves the ledger file untouched.
func (l *Ledger) ClearDebt(ctx context.Context, debtID, username string, payment decimal.Decimal) error {
	_, err := l.clearDebt(ctx, debtID, username, func([]Transaction) decimal.Decimal { return payment })
	return err
}

// ClearDebtInFull pays the whole amount of the debt debtID of username and
// returns the amount paid. The amount is read in the same critical section
// as the payment, so that concurrent partial payments cannot turn it into an
// overpayment.
func (l *Ledger) ClearDebtInFull(ctx context.Context, debtID, username string) (decimal.Decimal, error) {
	return l.clearDebt(ctx, debtID, username, func(txs []Transaction) decimal.Decimal {
		i := slices.IndexFunc(txs, func(tx Transaction) bool { return tx.ID == debtID && tx.Username == username })
		if i < 0 {
			// ClearDebt reports the missing debt.
			return decimal.Zero
		}
		return txs[i].Amount
	})
}

// clearDebt clears the debt debtID for the payment computed from the ledger
// content.
func (l *Ledger) clearDebt(ctx context.Context, debtID, username string, amount func([]Transaction) decimal.Decimal) (decimal.Decimal, error) {
	c := Clearing{Policy: l.policy, Now: l.now, NewID: l.newID}
	payment := decimal.Zero
	err := l.store.Update(ctx, func(txs []Transaction) ([]Transaction, error) {
		payment = amount(txs)
		return ClearDebt(txs, debtID, username, payment, c)
	})
	log := logger.FromContext(ctx)
	if err != nil {
		log.Warn().Err(err).Str("id", debtID).Str("user", username).Stringer("payment", payment).Msg("debt clearing failed")
		return decimal.Zero, err
	}
	log.Info().Str("id", debtID).Str("user", username).Stringer("payment", payment).Msg("debt cleared")
	return payment, nil
}
