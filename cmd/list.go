package cmd

import (
	"github.com/spf13/cobra"

	"testkit/internal/formatting"
	"testkit/internal/harness"
)

type listOptions struct {
	output string
	quiet  bool
}

// newListCmd creates the command listing the registered suites.
func newListCmd() *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list [pattern...]",
		Short: "List the registered test suites",
		Long: `List the registered test suites with the number of test cases each one
expands to. Patterns use shell glob syntax and filter by suite name.

Examples:
  testkit list
  testkit list 'stack-*' --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, opts)
		},
		ValidArgsFunction: completeSuiteNames,
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", string(formatting.FormatTable), "Output format (console, json, yaml, table)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress decorative output")
	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"console", "json", "yaml", "table"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runList(cmd *cobra.Command, args []string, opts *listOptions) error {
	format, err := formatting.ParseFormat(opts.output)
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	entries, err := reg.Select(args)
	if err != nil {
		return err
	}

	suites := make([]formatting.SuiteInfo, 0, len(entries))
	for _, e := range entries {
		suites = append(suites, describeSuite(e))
	}

	formatter := formatting.NewFactory().CreateFormatter(formatting.Options{Format: format, Quiet: opts.quiet})
	return formatter.FormatSuites(cmd.OutOrStdout(), suites)
}

func describeSuite(e harness.Entry) formatting.SuiteInfo {
	info := formatting.SuiteInfo{Name: e.Name, Description: e.Description, Tests: -1}
	test, err := e.Build()
	switch {
	case err != nil:
		info.Error = err.Error()
	case test == nil:
		info.Error = "build returned no test"
	default:
		info.Tests = test.CountTestCases()
	}
	return info
}

// completeSuiteNames provides shell completion with the registered suite names.
func completeSuiteNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	reg, err := newRegistry()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, e := range reg.Entries() {
		names = append(names, e.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
