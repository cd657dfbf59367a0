package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/tracker/date"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	scriptFlags
	query string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print the portfolio reports as JSON" }
func (*reportCmd) Usage() string {
	return `trk report [-f <script.jsonl>] [-config <file>] [-q <jsonpath>]

  Replays the instruction script and prints the reports as JSON. With -q,
  only the result of the JSONPath query is printed.

Usage Examples:
# Total value of the portfolio.
$ trk report -q '$.valuation.Total.amount'

# Share of every holding.
$ trk report -q '$.allocation.Rows[*].Share'
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.scriptFlags.SetFlags(f)
	f.StringVar(&c.query, "q", "", "JSONPath query applied to the report.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, _, err := c.load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}

	out, err := queryReport(renderer.NewReport(ledger, date.Today()), c.query)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, string(out))
	return subcommands.ExitSuccess
}

// queryReport marshals the report and applies the JSONPath query to it, if any.
func queryReport(report *renderer.Report, query string) ([]byte, error) {
	raw, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("cannot encode report: %w", err)
	}
	var jobj any
	if err := json.Unmarshal(raw, &jobj); err != nil {
		return nil, fmt.Errorf("cannot decode report: %w", err)
	}
	if query != "" {
		jobj, err = jsonpath.Get(query, jobj)
		if err != nil {
			return nil, fmt.Errorf("error evaluating %q: %w", query, err)
		}
	}
	return json.MarshalIndent(jobj, "", "  ")
}
