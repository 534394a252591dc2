package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MaxwellKnight/csvg/pkg/config"
	"github.com/MaxwellKnight/csvg/pkg/dataframe"
)

func newCSVCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Handle CSV files",
	}
	cmd.AddCommand(newCSVHeadCommand(false))
	cmd.AddCommand(newCSVHeadCommand(true))
	cmd.AddCommand(newCSVSelectCommand(false))
	cmd.AddCommand(newCSVSelectCommand(true))
	cmd.AddCommand(newCSVConcatCommand())
	cmd.AddCommand(newCSVJoinCommand())
	return cmd
}

func loadTable(tbl string) (*dataframe.Frame, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Read(dir)
	if err != nil {
		return nil, err
	}
	return dataframe.Load(tbl, cfg.CSVPath(tbl))
}

func newCSVHeadCommand(tail bool) *cobra.Command {
	var lines int

	nam, short := "head", "Display the first n rows of a CSV file"
	if tail {
		nam, short = "tail", "Display the last n rows of a CSV file"
	}

	cmd := &cobra.Command{
		Use:   nam + " <table>",
		Short: short,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if lines < 0 {
				return &usageError{
					err: fmt.Errorf("%s: invalid line count %d", cmd.Name(), lines),
				}
			}

			f, err := loadTable(args[0])
			if err != nil {
				return err
			}
			if tail {
				f = f.Tail(lines)
			} else {
				f = f.Head(lines)
			}
			renderFrame(f)
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 10, "number of lines to display")
	return cmd
}

func newCSVSelectCommand(drop bool) *cobra.Command {
	nam, short := "select", "Select specific columns from a CSV file"
	if drop {
		nam, short = "drop", "Drop specific columns from a CSV file"
	}

	return &cobra.Command{
		Use:   nam + " <table> <columns...>",
		Short: short,
		Args:  minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadTable(args[0])
			if err != nil {
				return err
			}

			if drop {
				f, err = f.Drop(args[1:])
			} else {
				f, err = f.Select(args[1:])
			}
			if err != nil {
				return err
			}
			return f.Write(os.Stdout)
		},
	}
}

func newCSVConcatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "concat <tables...>",
		Short: "Concatenate CSV files vertically",
		Args:  minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			frames := make([]*dataframe.Frame, 0, len(args))
			for _, tbl := range args {
				f, err := loadTable(tbl)
				if err != nil {
					return err
				}
				frames = append(frames, f)
			}

			f, err := dataframe.Concat(frames...)
			if err != nil {
				return err
			}
			printInfo(fmt.Sprintf("concatenated %d files", len(args)))
			return f.Write(os.Stdout)
		},
	}
}

func newCSVJoinCommand() *cobra.Command {
	var kindName string

	cmd := &cobra.Command{
		Use:   "join <table1> <table2> <left-column> <right-column>",
		Short: "Join two CSV files",
		Args:  exactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := dataframe.ParseJoinKind(kindName)
			if err != nil {
				return &usageError{err: err}
			}

			left, err := loadTable(args[0])
			if err != nil {
				return err
			}
			right, err := loadTable(args[1])
			if err != nil {
				return err
			}

			// Qualified columns keep same named columns from colliding.
			f, err := dataframe.Join(left.Qualify(), right.Qualify(),
				args[0]+"."+args[2], args[1]+"."+args[3], kind, nil)
			if err != nil {
				return err
			}
			return f.Write(os.Stdout)
		},
	}
	cmd.Flags().StringVarP(&kindName, "type", "t", "inner",
		"join type (inner, left, right, full)")
	return cmd
}
