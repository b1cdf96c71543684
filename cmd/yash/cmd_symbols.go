package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/yash/format"
	"github.com/spf13/cobra"
)

func newSymbolsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols <file>",
		Short: "Show the symbols declared in a grammar as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := flags.settings(cmd)
			if err != nil {
				return err
			}
			file, err := readFile(args[0], settings)
			if err != nil {
				return err
			}
			if err := format.NewTreeEncoder(os.Stdout).Encode(file); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}
}
