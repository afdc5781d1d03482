package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"testkit/internal/harness"
	"testkit/internal/sample"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeTestsFailed indicates the run completed but some tests failed.
	ExitCodeTestsFailed = 2
)

// TestsFailedError is returned by the run command when the run finished with
// failing or erroring tests.
type TestsFailedError struct {
	Failed int
	Errors int
}

func (e *TestsFailedError) Error() string {
	return fmt.Sprintf("%d tests failed, %d tests errored", e.Failed, e.Errors)
}

// rootCmd represents the base command for the testkit application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "testkit",
	Short: "Run the registered test suites of the testkit framework",
	Long: `testkit runs suites built with the testkit test framework: interface
contract suites run against every implementation factory, multi-goroutine
stress tests and soft-assertion scenarios.

Suites are selected by name, run in parallel if asked, and reported as text,
JSON or a quiet one-line summary.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// newRegistry builds the suite registry the commands work on.
var newRegistry = func() (*harness.Registry, error) {
	reg := harness.NewRegistry()
	if err := sample.Register(reg); err != nil {
		return nil, fmt.Errorf("failed to register suites: %w", err)
	}
	return reg, nil
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "testkit version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var failed *TestsFailedError
	if errors.As(err, &failed) {
		return ExitCodeTestsFailed
	}
	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newRunCmd())
}
