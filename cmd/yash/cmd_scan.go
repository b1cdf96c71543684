package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dhamidi/yash/lex"
	"github.com/dhamidi/yash/workspace"
	"github.com/dhamidi/yash/yacc"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var trivia bool

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Print the tokens of a .y or .l file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read grammar: %w", err)
			}

			rows := pterm.TableData{{"offset", "end", "kind", "text", "error"}}
			row := func(offset, end int, kind fmt.Stringer, text, errorMessage string) {
				rows = append(rows, []string{strconv.Itoa(offset), strconv.Itoa(end), kind.String(), strconv.Quote(text), errorMessage})
			}

			switch workspace.LanguageOf(path) {
			case workspace.LanguageYacc:
				for _, tok := range yacc.ScanAll(string(data)) {
					if trivia || tok.Kind != yacc.TokenWhitespace {
						row(tok.Offset, tok.End, tok.Kind, tok.Text, tok.Error)
					}
				}
			case workspace.LanguageLex:
				for _, tok := range lex.ScanAll(string(data)) {
					if trivia || tok.Kind != lex.TokenWhitespace {
						row(tok.Offset, tok.End, tok.Kind, tok.Text, tok.Error)
					}
				}
			default:
				return fmt.Errorf("unsupported file extension: %s", path)
			}

			return pterm.DefaultTable.WithHasHeader().WithData(rows).WithWriter(os.Stdout).Render()
		},
	}

	cmd.Flags().BoolVar(&trivia, "whitespace", false, "include whitespace tokens")

	return cmd
}
