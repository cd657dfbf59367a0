package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/tracker"
)

// LogMarkdown renders the transaction history as a markdown table, followed
// by the realized gains when there are any sales.
func LogMarkdown(txs []tracker.Transaction) string {
	r := &logRenderer{Builder: &strings.Builder{}}

	r.Printf("## Transactions\n\n")
	if len(txs) == 0 {
		r.Printf("No transactions.\n")
		return r.String()
	}
	r.Printf("| Date | Account | Operation |\n")
	r.Printf("|:---|:---|:---|\n")
	for _, tx := range txs {
		r.Printf("| %s | %s | %s |\n", tx.When(), tx.Account(), Transaction(tx))
	}

	ConditionalBlock(r, func(w io.Writer) bool {
		fmt.Fprintf(w, "\n## Realized Gains\n\n")
		fmt.Fprintf(w, "| Date | Account | Ticker | Quantity | Gain | Tax | Net |\n")
		fmt.Fprintf(w, "|:---|:---|:---|---:|---:|---:|---:|\n")
		sold := false
		for _, tx := range txs {
			sell, ok := tx.(tracker.Sell)
			if !ok {
				continue
			}
			sold = true
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s |\n",
				sell.When(), sell.Account(), sell.Ticker, sell.Quantity,
				sell.Gain.SignedString(), sell.Tax, sell.Net())
		}
		return sold
	})
	return r.String()
}

// logRenderer formats the transaction log into a markdown string.
type logRenderer struct {
	*strings.Builder
}

// Printf formats according to a format specifier and writes to the renderer's buffer.
func (r *logRenderer) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}
