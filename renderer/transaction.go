package renderer

import (
	"fmt"

	"github.com/etnz/tracker"
)

// Transaction renders a transaction to a string.
func Transaction(tx tracker.Transaction) string {
	switch v := tx.(type) {
	case tracker.Buy:
		if v.Currency().IsDomestic() {
			return fmt.Sprintf("Bought %s of %s for %s", v.Quantity, v.Ticker, v.Total)
		}
		return fmt.Sprintf("Bought %s of %s for %s (%s at %s)", v.Quantity, v.Ticker, v.Total, v.NativeTotal(), v.Rate)
	case tracker.Sell:
		if v.Tax.IsZero() {
			return fmt.Sprintf("Sold %s of %s for %s", v.Quantity, v.Ticker, v.Proceeds)
		}
		return fmt.Sprintf("Sold %s of %s for %s, %s tax withheld", v.Quantity, v.Ticker, v.Proceeds, v.Tax)
	case tracker.Deposit:
		return fmt.Sprintf("Deposited %s", v.Amount)
	default:
		return string(tx.What())
	}
}
