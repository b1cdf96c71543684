package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/yash/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

type globalFlags struct {
	configPath  string
	verbosity   int
	fieldName   string
	defaultType string
	maxNesting  int
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:           "yash",
		Short:         "Inspect and check Yacc/Bison and Lex/Flex grammars",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(flags.verbosity, nil)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "settings file (default: nearest "+config.FileName+")")
	pf.CountVarP(&flags.verbosity, "verbose", "v", "log more, repeat for more detail")
	pf.StringVar(&flags.fieldName, "field-name", "", `position of %union member names: "last" (C) or "first" (Go)`)
	pf.StringVar(&flags.defaultType, "default-type", "", "semantic value type assumed for untyped symbols")
	pf.IntVar(&flags.maxNesting, "max-nesting", 0, "maximum depth of nested start condition scopes in lex files")

	rootCmd.AddCommand(newParseCmd(&flags))
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newCheckCmd(&flags))
	rootCmd.AddCommand(newSymbolsCmd(&flags))
	rootCmd.AddCommand(newLSPCmd(&flags))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "yash:", err)
		os.Exit(1)
	}
}

// settings loads the settings file and applies the command line overrides.
func (f *globalFlags) settings(cmd *cobra.Command) (config.Settings, error) {
	var (
		s   config.Settings
		err error
	)
	if f.configPath != "" {
		s, err = config.ReadFile(f.configPath)
	} else {
		s, err = config.Load()
	}
	if err != nil {
		return s, err
	}

	overrides := map[string]any{}
	pf := cmd.Flags()
	if pf.Changed("field-name") {
		overrides["fieldName"] = f.fieldName
	}
	if pf.Changed("default-type") {
		overrides["defaultType"] = f.defaultType
	}
	if pf.Changed("max-nesting") {
		overrides["maxNesting"] = f.maxNesting
	}
	if len(overrides) == 0 {
		return s, nil
	}
	s, err = s.FromMap(overrides)
	if err != nil {
		return s, fmt.Errorf("flags: %w", err)
	}
	return s, nil
}
