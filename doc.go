// Package moneymate is the ledger engine of a personal money tracker. It
// records the inflows, outflows and debts of its users in a single local
// file and derives summaries from them on demand.
//
// The engine is made of:
//   - Record codec: EncodeRecord and DecodeRecord convert a Transaction to
//     and from one row of the ledger file (comma separated, header first).
//   - Store: owns the ledger file. New transactions are appended, and the
//     only rewrite (debt clearing) replaces the file atomically. Rows that
//     cannot be decoded are skipped, not fatal, and kept as they are by a
//     rewrite.
//   - Query: filters the transactions of a user by date range, most recent
//     first.
//   - Summarize: totals, balances, extremes and pending debts of a set of
//     transactions.
//   - ClearDebt: pays a debt, in full or in part. A partial payment splits
//     the debt into a cleared part and a pending remainder.
//
// Ledger ties them together and is what the `mm` command line uses.
package moneymate
