// Command trk replays portfolio instruction scripts and reports on them.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/tracker/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	completion().Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion. Flags are
// read from each command's own SetFlags.
func completion() *complete.Command {
	root := &complete.Command{Sub: map[string]*complete.Command{}}
	for _, c := range cmd.Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		fs.VisitAll(func(f *flag.Flag) {
			sub.Flags[f.Name] = predictFlag(f.Name)
		})
		root.Sub[c.Name()] = sub
	}
	root.Sub["help"] = &complete.Command{Args: predict.Set(commandNames())}
	return root
}

func predictFlag(name string) complete.Predictor {
	switch name {
	case "f":
		return predict.Files("*.jsonl")
	case "config":
		return predict.Files("*.toml")
	case "o":
		return predict.Dirs("*")
	case "raw", "md":
		return predict.Nothing
	default:
		return predict.Something
	}
}

func commandNames() []string {
	var names []string
	for _, c := range cmd.Commands {
		names = append(names, c.Name())
	}
	return names
}
