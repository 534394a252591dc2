// Package cli wires the command tree: init, graph, csv, and path. Exit
// codes: 0 success, 1 operation failure, 2 invalid usage.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type usageError struct {
	err error
}

func (err *usageError) Error() string {
	return err.err.Error()
}

// exactArgs is cobra.ExactArgs returning a usage error, so bad arguments
// exit 2 instead of 1.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &usageError{
				err: fmt.Errorf("%s: expected %d argument(s), got %d", cmd.Name(), n,
					len(args)),
			}
		}
		return nil
	}
}

func rangeArgs(min, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min || len(args) > max {
			return &usageError{
				err: fmt.Errorf("%s: expected between %d and %d argument(s), got %d",
					cmd.Name(), min, max, len(args)),
			}
		}
		return nil
	}
}

func minArgs(min int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min {
			return &usageError{
				err: fmt.Errorf("%s: expected at least %d argument(s), got %d", cmd.Name(),
					min, len(args)),
			}
		}
		return nil
	}
}

var (
	infoColor = color.New(color.FgCyan)
	warnColor = color.New(color.FgYellow)
)

// printInfo prints progress chatter, suppressed when stdout is a pipe so
// command output stays machine readable.
func printInfo(msg string) {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		infoColor.Println(msg)
	}
}

// printWarnings surfaces recoverable problems on stderr; they never abort
// anything.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		warnColor.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "csvg",
		Short:         "SQL schema analysis and CSV manipulation tool",
		Long: "csvg turns a SQL schema into a graph of tables connected by foreign keys,\n" +
			"answers structural queries over it (shortest path, spanning forest), and\n" +
			"joins CSV data across a computed table path.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(newInitCommand())
	root.AddCommand(newGraphCommand())
	root.AddCommand(newCSVCommand())
	root.AddCommand(newPathCommand())
	return root
}

// Main runs the command tree and maps errors to exit codes.
func Main(args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return 0
	}

	fmt.Fprintf(os.Stderr, "csvg: %s\n", err)
	var uerr *usageError
	if errors.As(err, &uerr) || strings.HasPrefix(err.Error(), "unknown command") {
		return 2
	}
	return 1
}

func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show path to the config directory",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
}
