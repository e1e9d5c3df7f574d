// Command esparse parses ECMAScript sources and prints their syntax tree,
// their tokens or their import graph as JSON.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitSuccess     = 0
	ExitSyntaxError = 1
	ExitUsage       = 2
)

// errReported is returned by commands whose errors were already printed.
var errReported = errors.New("errors reported")

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		if errors.Is(err, errReported) {
			os.Exit(ExitSyntaxError)
		}
		fmt.Fprintln(os.Stderr, "esparse:", err)
		os.Exit(ExitUsage)
	}
}

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "esparse",
		Short:         "Parse ECMAScript sources",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.register(root)
	root.AddCommand(
		newParseCommand(flags),
		newTokenizeCommand(flags),
		newDepsCommand(flags),
	)
	return root
}
