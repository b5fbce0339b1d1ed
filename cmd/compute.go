package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mzawisa/fifotax"
	"github.com/mzawisa/fifotax/renderer"
)

// computeCmd holds the flags for the 'compute' subcommand.
type computeCmd struct {
	log    bool
	output string
}

func (*computeCmd) Name() string     { return "compute" }
func (*computeCmd) Synopsis() string { return "compute yearly tax returns from activity documents" }
func (*computeCmd) Usage() string {
	return `ftx compute [-log] [-o <file>] <document-glob>...

  Loads one or more activity documents (glob patterns are expanded),
  resolves any missing NBP exchange rates, replays the activities
  through a FIFO lot ledger, and prints per-year, per-symbol tax
  returns with a final aggregate row per year.

Usage Examples:
# Compute over every document in the current directory.
$ ftx compute '*.json'

`
}

func (c *computeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.log, "log", false, "Also print the processed activity log")
	f.StringVar(&c.output, "o", "", "Write the merged, normalized document (with its rate cache) to this file")
}

func (c *computeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "compute takes at least one document path or glob")
		return subcommands.ExitUsageError
	}

	doc, err := fifotax.LoadDocuments(f.Args()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading documents: %v\n", err)
		return subcommands.ExitFailure
	}

	resolver := fifotax.NewResolver(fifotax.NewNBPSource(nil), nil)
	if err := doc.Normalize(resolver); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	years, err := fifotax.Compute(doc.Activities)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.log {
		printMarkdown(renderer.ActivityMarkdown(doc.Activities))
	}
	printMarkdown(renderer.TaxMarkdown(years))

	if c.output != "" {
		if err := fifotax.WriteDocument(c.output, doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Wrote normalized document to %s\n", c.output)
	}
	return subcommands.ExitSuccess
}
