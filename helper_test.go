package tracker

import (
	"testing"

	"github.com/etnz/tracker/date"
)

// krw is a helper for test to create domestic money from const
func krw(v float64) Money { return M(v, KRW) }

// usd is a helper for test to create usd money from const
func usd(v float64) Money { return M(v, USD) }

// testDay is the date every test ledger books its transactions on.
var testDay = date.New(2025, 1, 10)

// newTestLedger returns a ledger with the default rate and a fixed clock.
func newTestLedger(t *testing.T, opts ...Option) *Ledger {
	t.Helper()
	opts = append([]Option{WithClock(func() date.Date { return testDay })}, opts...)
	return NewLedger(opts...)
}

// deposit deposits v domestic units into account or fails the test.
func deposit(t *testing.T, l *Ledger, account AccountKind, v float64) {
	t.Helper()
	if _, err := l.DepositCash(account, krw(v)); err != nil {
		t.Fatalf("DepositCash(%v, %v) unexpected error: %v", account, v, err)
	}
}

// buy buys or fails the test.
func buy(t *testing.T, l *Ledger, account AccountKind, ticker, name string, price Money, qty float64) Buy {
	t.Helper()
	tx, err := l.Buy(account, ticker, name, price, Q(qty))
	if err != nil {
		t.Fatalf("Buy(%v, %q, %v, %v) unexpected error: %v", account, ticker, price, qty, err)
	}
	return tx
}
