// Package tracker provides the bookkeeping engine of a personal investment
// portfolio split into two accounts:
//   - ISA: a domestic tax-advantaged account holding cash, stocks and funds.
//   - Foreign: a foreign-direct account holding cash and stocks, where
//     positive realized gains are taxed on each sale.
//
// The core functionalities include:
//   - Ledger: deposits, buys, sells and quote updates, each validated before
//     any change, with an append-only transaction history.
//   - Cost accounting: weighted-average cost per position, exact decimal
//     arithmetic, conversion of foreign amounts through one exchange rate.
//   - Reports: valuation, returns on cost and on deposits, and allocation
//     by holding, by account and by instrument kind.
//   - Scripts: JSONL instruction scripts to drive a ledger, and JSONL
//     encoding of the transaction history.
//
// This package serves as the foundational logic for the `trk` command-line
// tool.
package tracker
