// Package cmd implements the CLI application to run and report on a portfolio.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tracker"
	"github.com/etnz/tracker/config"
	"github.com/google/subcommands"
)

// Commands lists every subcommand, in help order.
var Commands = []subcommands.Command{
	&runCmd{},
	&reportCmd{},
	&logCmd{},
	&chartCmd{},
	&classifyCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// DefaultConfigFile is read when it exists, before any -config file.
const DefaultConfigFile = "trk.toml"

// scriptFlags are the flags of every command that replays a script.
type scriptFlags struct {
	script string
	config string
}

func (s *scriptFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.script, "f", "portfolio.jsonl", "Path to the instruction script (JSONL format).")
	f.StringVar(&s.config, "config", "", "Path to a TOML configuration file, merged over "+DefaultConfigFile+".")
}

// load reads the configuration and replays the script on a fresh ledger.
//
// Instructions that fail are reported on stderr and skipped, they do not
// make load fail.
func (s *scriptFlags) load() (*tracker.Ledger, *config.Config, error) {
	cfg, err := config.LoadConfig(DefaultConfigFile, s.config)
	if err != nil {
		return nil, nil, err
	}
	log, err := config.NewLogger(cfg.Logging, stderr)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(s.script)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open script: %w", err)
	}
	defer f.Close()

	instructions, err := tracker.DecodeInstructions(f)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read script %q: %w", s.script, err)
	}

	ledger := tracker.NewLedger(append(cfg.LedgerOptions(), tracker.WithLogger(log))...)
	if err := tracker.Run(ledger, instructions); err != nil {
		fmt.Fprintf(stderr, "Some instructions in %q were skipped:\n%v\n", s.script, err)
	}
	log.Debug().Str("script", s.script).Int("instructions", len(instructions)).
		Int("transactions", len(ledger.Transactions())).Msg("script replayed")
	return ledger, cfg, nil
}

// printMarkdown renders md for the terminal, or prints it as is when raw is
// set or rendering fails.
func printMarkdown(md string, raw bool) {
	if !raw {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
		if err == nil {
			if out, err := r.Render(md); err == nil {
				fmt.Fprint(stdout, out)
				return
			}
		}
	}
	fmt.Fprint(stdout, md)
}
