package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/config"
	"github.com/google/subcommands"
)

type classifyCmd struct {
	config string
}

func (*classifyCmd) Name() string     { return "classify" }
func (*classifyCmd) Synopsis() string { return "show how instrument names are booked in the ISA account" }
func (*classifyCmd) Usage() string {
	return `trk classify [-config <file>] <name>...

  Prints the instrument kind ("etf" or "stock") an ISA purchase of each
  name would be booked as.

Usage Examples:
$ trk classify "KODEX 200 ETF" "Samsung Electronics"
`
}

func (c *classifyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "", "Path to a TOML configuration file, merged over "+DefaultConfigFile+".")
}

func (c *classifyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(stderr, "classify requires at least one name")
		return subcommands.ExitUsageError
	}
	cfg, err := config.LoadConfig(DefaultConfigFile, c.config)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	for _, name := range f.Args() {
		fmt.Fprintf(stdout, "%s\t%s\n", tracker.Classify(name, cfg.Ledger.FundMarker), name)
	}
	return subcommands.ExitSuccess
}
