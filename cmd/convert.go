package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/mzawisa/fifotax"
)

// convertCmd holds the flags for the 'convert' subcommand.
type convertCmd struct {
	source string
	output string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert a broker export into an activity document" }
func (*convertCmd) Usage() string {
	return `ftx convert -source <mbank|ibkr> <export-file>

  Parses a broker transaction export, resolves the NBP exchange rate of
  every foreign amount, and writes a JSON activity document named
  <first-date>_<last-date>_<source>.json (override with -o).

`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", "", "Broker export format: mbank or ibkr")
	f.StringVar(&c.output, "o", "", "Output document file (defaults to <begin>_<end>_<source>.json)")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "convert takes exactly one export file")
		return subcommands.ExitUsageError
	}

	importer, err := importerFor(c.source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	filename := f.Arg(0)
	export, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening export %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer export.Close()

	resolver := fifotax.NewResolver(fifotax.NewNBPSource(nil), nil)
	activities, err := importer(export, resolver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	if len(activities) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no activities found in %q\n", filename)
		return subcommands.ExitFailure
	}

	doc := fifotax.NewDocument()
	doc.Activities = activities
	doc.Rates = resolver.Cache()

	output := c.output
	if output == "" {
		begin := activities[0].Date()
		end := activities[len(activities)-1].Date()
		output = fmt.Sprintf("%s_%s_%s.json", begin, end, c.source)
	}
	if err := fifotax.WriteDocument(output, doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Converted %d activities into %s\n", len(activities), output)
	return subcommands.ExitSuccess
}

type importerFunc func(r *os.File, resolver *fifotax.Resolver) ([]fifotax.Activity, error)

func importerFor(source string) (importerFunc, error) {
	switch source {
	case "mbank":
		return func(r *os.File, resolver *fifotax.Resolver) ([]fifotax.Activity, error) {
			return fifotax.ImportMBank(r, resolver)
		}, nil
	case "ibkr":
		return func(r *os.File, resolver *fifotax.Resolver) ([]fifotax.Activity, error) {
			return fifotax.ImportIBKR(r, resolver)
		}, nil
	default:
		return nil, fmt.Errorf("unknown source %q: want mbank or ibkr", source)
	}
}
