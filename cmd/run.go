package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"testkit/internal/harness"
	"testkit/pkg/logging"
)

type runOptions struct {
	configPath string
	timeout    time.Duration
	parallel   int
	failFast   bool
	verbose    bool
	debug      bool
	output     string
	reportPath string
	noClass    bool
	suites     []string
	env        map[string]string
	watch      bool
}

// newRunCmd creates the command that runs the registered suites.
func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [pattern...]",
		Short: "Run registered test suites",
		Long: `Run the registered test suites and report the outcome of every test case.

Suites are selected with shell glob patterns, given as arguments or with
--suite. Without any pattern every suite runs. Flags override the values of
the configuration file given with --config.

Example usage:
  testkit run                              # Run all suites
  testkit run 'stack-*'                    # Run matching suites
  testkit run --parallel=4 --fail-fast     # Four suites at a time, stop on first failure
  testkit run --output=json                # Machine readable result
  testkit run --env STACK_SIZE=64          # Set environment for the run
  testkit run --config testkit.yaml --watch  # Re-run whenever the configuration changes

The command exits with code 2 when tests failed and 1 on any other error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
		ValidArgsFunction: completeSuiteNames,
	}

	defaults := harness.DefaultConfiguration()
	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML run configuration")
	flags.DurationVar(&opts.timeout, "timeout", defaults.Timeout, "Overall run timeout (0 for none)")
	flags.IntVar(&opts.parallel, "parallel", defaults.Parallel, "Number of suites run at the same time")
	flags.BoolVar(&opts.failFast, "fail-fast", false, "Stop execution on the first failing test")
	flags.BoolVar(&opts.verbose, "verbose", false, "List every test case")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVarP(&opts.output, "output", "o", string(defaults.Output), "Output format (text, json, quiet)")
	flags.StringVar(&opts.reportPath, "report-path", "", "Directory to save a detailed JSON report in")
	flags.BoolVar(&opts.noClass, "no-classname", false, "Drop the type name from interface test names")
	flags.StringSliceVar(&opts.suites, "suite", nil, "Glob pattern of suites to run (repeatable)")
	flags.StringToStringVar(&opts.env, "env", nil, "Environment variable to set during the run (KEY=VALUE, repeatable)")
	flags.BoolVar(&opts.watch, "watch", false, "Re-run whenever the configuration file changes (requires --config)")

	_ = cmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "quiet"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("suite", completeSuiteNames)

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if opts.watch && opts.configPath == "" {
			return fmt.Errorf("--watch requires --config")
		}
		return nil
	}
	return cmd
}

func runRun(cmd *cobra.Command, args []string, opts *runOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := newRegistry()
	if err != nil {
		return err
	}

	if !opts.watch {
		cfg, err := buildConfiguration(cmd, args, opts)
		if err != nil {
			return err
		}
		return runOnce(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, reg)
	}
	return runWatch(ctx, cmd, args, opts, reg)
}

// buildConfiguration layers the flags the user set over the configuration
// file, or over the defaults when there is none.
func buildConfiguration(cmd *cobra.Command, args []string, opts *runOptions) (harness.Configuration, error) {
	cfg := harness.DefaultConfiguration()
	if opts.configPath != "" {
		loaded, err := harness.LoadConfiguration(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if flags.Changed("parallel") {
		cfg.Parallel = opts.parallel
	}
	if flags.Changed("fail-fast") {
		cfg.FailFast = opts.failFast
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
	if flags.Changed("output") {
		cfg.Output = harness.OutputFormat(opts.output)
	}
	if flags.Changed("report-path") {
		cfg.ReportPath = opts.reportPath
	}
	if flags.Changed("no-classname") {
		cfg.NoClassName = opts.noClass
	}
	if patterns := append(append([]string{}, opts.suites...), args...); len(patterns) > 0 {
		cfg.Suites = patterns
	}
	if len(opts.env) > 0 {
		merged := make(map[string]string, len(cfg.Env)+len(opts.env))
		for k, v := range cfg.Env {
			merged[k] = v
		}
		for k, v := range opts.env {
			merged[k] = v
		}
		cfg.Env = merged
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func logLevel(cfg harness.Configuration) logging.LogLevel {
	switch {
	case cfg.Debug:
		return logging.LevelDebug
	case cfg.Verbose:
		return logging.LevelInfo
	default:
		return logging.LevelWarn
	}
}

func runOnce(ctx context.Context, out, errOut io.Writer, cfg harness.Configuration, reg *harness.Registry) error {
	logging.InitForCLI(logLevel(cfg), errOut)

	reporter, err := harness.NewReporter(cfg.Output, out, cfg.Verbose)
	if err != nil {
		return err
	}
	if cfg.Output == harness.OutputText && !color.NoColor {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Writer = out
		s.Suffix = " Running test suites..."
		reporter = &spinnerReporter{Reporter: reporter, spinner: s}
	}

	run, err := harness.NewRunner(reporter).Run(ctx, cfg, reg)
	if err != nil {
		if run == nil {
			return fmt.Errorf("test execution failed: %w", err)
		}
		return fmt.Errorf("test execution interrupted: %w", err)
	}
	if !run.Successful() {
		return &TestsFailedError{Failed: run.FailedTests, Errors: run.ErrorTests}
	}
	return nil
}

// runWatch runs once, then again every time the configuration file changes,
// until the context is cancelled.
func runWatch(ctx context.Context, cmd *cobra.Command, args []string, opts *runOptions, reg *harness.Registry) error {
	changes, err := harness.WatchFile(ctx, opts.configPath, harness.DefaultDebounceInterval)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for {
		cfg, err := buildConfiguration(cmd, args, opts)
		if err == nil {
			err = runOnce(ctx, out, cmd.ErrOrStderr(), cfg, reg)
		}
		var failed *TestsFailedError
		if err != nil && !errors.As(err, &failed) {
			fmt.Fprintf(out, "%s %v\n", color.RedString("Error:"), err)
		}

		fmt.Fprintf(out, "\n👀 Watching %s for changes (Ctrl+C to stop)\n", opts.configPath)
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "🔄 %s changed, running again\n\n", opts.configPath)
		}
	}
}

// spinnerReporter shows a spinner between suite reports.
type spinnerReporter struct {
	harness.Reporter
	spinner *spinner.Spinner
}

func (r *spinnerReporter) ReportStart(runID string, cfg harness.Configuration, suites []string) {
	r.Reporter.ReportStart(runID, cfg, suites)
	r.spinner.Start()
}

func (r *spinnerReporter) ReportSuiteResult(s harness.SuiteResult) {
	r.spinner.Stop()
	r.Reporter.ReportSuiteResult(s)
	r.spinner.Start()
}

func (r *spinnerReporter) ReportRunResult(run harness.RunResult) {
	r.spinner.Stop()
	r.Reporter.ReportRunResult(run)
}
