package moneymate

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtState is the clearing state of a Debt transaction.
type DebtState int

const (
	// Pending debts are still owed.
	Pending DebtState = iota
	// Cleared debts have been paid. It is a final state.
	Cleared
)

func (s DebtState) String() string {
	if s == Cleared {
		return "cleared"
	}
	return "pending"
}

// State returns the clearing state of a debt.
func (t Transaction) State() DebtState {
	if t.IsCleared {
		return Cleared
	}
	return Pending
}

// ClearancePolicy decides whether a payment may be applied to a debt, once
// the payment is known to be within the debt amount. owned holds all the
// transactions of the debt owner.
type ClearancePolicy interface {
	Authorize(debt Transaction, payment decimal.Decimal, owned []Transaction) error
}

// FaceValuePolicy accepts any payment up to the debt amount.
type FaceValuePolicy struct{}

func (FaceValuePolicy) Authorize(Transaction, decimal.Decimal, []Transaction) error { return nil }

func (FaceValuePolicy) String() string { return "face-value" }

// BalancePolicy only accepts a payment covered by the owner's credits minus
// debits. Debts are not counted as funds.
type BalancePolicy struct{}

func (BalancePolicy) Authorize(debt Transaction, payment decimal.Decimal, owned []Transaction) error {
	funds := decimal.Zero
	for _, tx := range owned {
		switch tx.Type {
		case Credit:
			funds = funds.Add(tx.Amount)
		case Debit:
			funds = funds.Sub(tx.Amount)
		}
	}
	if funds.LessThan(payment) {
		return invalid(debt.ID, ErrInsufficientBalance, "balance %s does not cover payment %s", funds, payment)
	}
	return nil
}

func (BalancePolicy) String() string { return "balance" }

// ParseClearancePolicy returns the policy named s: "face-value" or "balance".
func ParseClearancePolicy(s string) (ClearancePolicy, error) {
	switch s {
	case "", "face-value":
		return FaceValuePolicy{}, nil
	case "balance":
		return BalancePolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown clearance policy %q", s)
	}
}

// Clearing holds what a debt clearing needs besides the ledger content.
// Zero fields take defaults: FaceValuePolicy, time.Now and random UUIDs.
type Clearing struct {
	Policy ClearancePolicy
	Now    func() time.Time
	NewID  func() string
}

func (c Clearing) withDefaults() Clearing {
	if c.Policy == nil {
		c.Policy = FaceValuePolicy{}
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.NewID == nil {
		c.NewID = uuid.NewString
	}
	return c
}

// ClearDebt applies a payment on the debt debtID owned by username and
// returns the new ledger content. txs is left unchanged.
//
// Paying the full amount marks the debt cleared. Paying less splits it: the
// debt is cleared for the amount paid, and a new pending debt holding the
// rest is appended. Refused payments return a *ValidationError.
func ClearDebt(txs []Transaction, debtID, username string, payment decimal.Decimal, c Clearing) ([]Transaction, error) {
	c = c.withDefaults()

	i := slices.IndexFunc(txs, func(tx Transaction) bool { return tx.ID == debtID && tx.Username == username })
	if i < 0 {
		return nil, &ValidationError{ID: debtID, Reason: ErrDebtNotFound}
	}
	debt := txs[i]
	switch {
	case debt.Type != Debt:
		return nil, invalid(debtID, ErrNotADebt, "found a %s", debt.Type)
	case debt.State() == Cleared:
		return nil, &ValidationError{ID: debtID, Reason: ErrDebtAlreadyCleared}
	case !payment.IsPositive():
		return nil, invalid(debtID, ErrInvalidPayment, "payment must be greater than 0, got %s", payment)
	case payment.GreaterThan(debt.Amount):
		return nil, invalid(debtID, ErrInvalidPayment, "payment %s exceeds the debt amount %s", payment, debt.Amount)
	}
	if err := c.Policy.Authorize(debt, payment, byUser(txs, username)); err != nil {
		return nil, err
	}

	next := slices.Clone(txs)
	cleared := debt
	cleared.IsCleared = true
	if payment.Equal(debt.Amount) {
		next[i] = cleared
		return next, nil
	}

	cleared.Amount = payment
	next[i] = cleared
	next = append(next, Transaction{
		ID:         c.NewID(),
		Username:   debt.Username,
		Type:       Debt,
		Title:      debt.Title + " (remaining)",
		Amount:     debt.Amount.Sub(payment),
		Date:       c.Now().Truncate(time.Second),
		Tags:       slices.Clone(debt.Tags),
		DueDate:    debt.DueDate,
		DebtSource: debt.DebtSource,
	})
	return next, nil
}
