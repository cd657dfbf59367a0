package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tracker/date"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type runCmd struct {
	scriptFlags
	raw bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "replay an instruction script and print the portfolio report" }
func (*runCmd) Usage() string {
	return `trk run [-f <script.jsonl>] [-config <file>] [-raw]

  Replays the instruction script on an empty ledger and prints the
  valuation, returns and allocation reports. Instructions that fail are
  listed on stderr and skipped.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	c.scriptFlags.SetFlags(f)
	f.BoolVar(&c.raw, "raw", false, "Print the markdown source instead of rendering it.")
}

func (c *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, err := c.load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderReport(renderer.NewReport(ledger, date.Today())), c.raw)
	return subcommands.ExitSuccess
}
