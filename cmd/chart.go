package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/chart"
	"github.com/google/subcommands"
)

type chartCmd struct {
	scriptFlags
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "draw the allocation charts as PNG files" }
func (*chartCmd) Usage() string {
	return `trk chart [-f <script.jsonl>] [-config <file>] [-o <dir>]

  Replays the instruction script and writes three charts into the output
  folder: allocation.png (by holding), accounts.png and kinds.png.
  Chart size and the grouping threshold come from the [chart] section of
  the configuration.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	c.scriptFlags.SetFlags(f)
	f.StringVar(&c.output, "o", ".", "Output folder.")
}

func (c *chartCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, cfg, err := c.load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}

	opts := chart.Options{
		Width:          cfg.Chart.Width,
		Height:         cfg.Chart.Height,
		OtherThreshold: tracker.Percent(cfg.Chart.OtherThreshold),
	}
	written, err := chart.WriteAll(c.output, ledger.Allocate(), opts)
	for _, path := range written {
		fmt.Fprintf(stdout, "Wrote %s\n", path)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
