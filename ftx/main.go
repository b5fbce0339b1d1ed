package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/mzawisa/fifotax/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])

	// Shell completion; returns immediately unless invoked by the shell.
	completion := &complete.Command{
		Sub: map[string]*complete.Command{
			"convert": {
				Flags: map[string]complete.Predictor{
					"source": predict.Set{"mbank", "ibkr"},
					"o":      predict.Files("*.json"),
				},
				Args: predict.Files("*"),
			},
			"compute": {
				Flags: map[string]complete.Predictor{
					"log": predict.Nothing,
					"o":   predict.Files("*.json"),
				},
				Args: predict.Files("*.json"),
			},
		},
	}
	completion.Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(subcommands.HelpCommand(), "")
	commander.Register(subcommands.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
