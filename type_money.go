package moneymate

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatAmount formats amount in the conventions of the ISO 4217 currency
// code: symbol, grouping and number of decimals. Unknown codes fall back to
// two decimals followed by the code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		if currency == "" {
			return amount.StringFixed(2)
		}
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatSignedAmount is like FormatAmount with an explicit sign for inflows
// and outflows. Debts are shown as inflows while pending.
func FormatSignedAmount(tx Transaction, currency string) string {
	s := FormatAmount(tx.Amount, currency)
	switch {
	case tx.Type == Debit:
		return "-" + s
	case tx.Type == Debt && tx.IsCleared:
		return s
	default:
		return "+" + s
	}
}
