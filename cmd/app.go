// Package cmd implements the CLI application to convert broker exports
// and compute yearly tax returns.
package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register(), and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&convertCmd{}, "activities")
	c.Register(&computeCmd{}, "tax")
}

// printMarkdown renders a markdown report to the terminal, falling back
// to the raw text when the terminal cannot be styled.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
