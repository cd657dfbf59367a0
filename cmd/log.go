package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/date"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type logCmd struct {
	scriptFlags
	start    string
	end      string
	markdown bool
	raw      bool
}

func (*logCmd) Name() string { return "log" }
func (*logCmd) Synopsis() string {
	return "display the transactions recorded while replaying a script"
}
func (*logCmd) Usage() string {
	return `trk log [-f <script.jsonl>] [-s <start_date>] [-d <end_date>] [-md [-raw]]

  Replays the instruction script and prints the recorded transactions as
  JSONL, one per line. Dates are inclusive, and an empty date leaves that
  side of the range open.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	c.scriptFlags.SetFlags(f)
	f.StringVar(&c.start, "s", "", "The start date of the log.")
	f.StringVar(&c.end, "d", "", "The end date of the log.")
	f.BoolVar(&c.markdown, "md", false, "Print a markdown table instead of JSONL.")
	f.BoolVar(&c.raw, "raw", false, "With -md, print the markdown source instead of rendering it.")
}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := parseRange(c.start, c.end)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}

	ledger, _, err := c.load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}

	txs := ledger.TransactionsIn(r)
	if c.markdown {
		printMarkdown(renderer.LogMarkdown(txs), c.raw)
		return subcommands.ExitSuccess
	}
	if err := tracker.EncodeTransactions(stdout, txs); err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// parseRange parses optional start and end dates.
func parseRange(start, end string) (date.Range, error) {
	var r date.Range
	var err error
	if start != "" {
		if r.From, err = date.Parse(start); err != nil {
			return r, fmt.Errorf("error parsing start date: %w", err)
		}
	}
	if end != "" {
		if r.To, err = date.Parse(end); err != nil {
			return r, fmt.Errorf("error parsing end date: %w", err)
		}
	}
	return r, nil
}
