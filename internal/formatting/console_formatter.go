package formatting

import (
	"fmt"
	"io"
)

// ConsoleFormatter provides simple console output formatting
type ConsoleFormatter struct {
	options Options
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(options Options) Formatter {
	return &ConsoleFormatter{options: options}
}

// FormatSuites writes one numbered line per suite.
func (f *ConsoleFormatter) FormatSuites(w io.Writer, suites []SuiteInfo) error {
	if len(suites) == 0 {
		_, err := fmt.Fprintln(w, "No suites registered.")
		return err
	}

	if !f.options.Quiet {
		if _, err := fmt.Fprintf(w, "Registered suites (%d):\n", len(suites)); err != nil {
			return err
		}
	}
	for i, s := range suites {
		line := fmt.Sprintf("  %d. %-24s %s", i+1, s.Name, describe(s))
		if f.options.Quiet {
			line = s.Name
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func describe(s SuiteInfo) string {
	if s.Error != "" {
		return "(cannot build: " + s.Error + ")"
	}
	if s.Description == "" {
		return fmt.Sprintf("(%d tests)", s.Tests)
	}
	return fmt.Sprintf("- %s (%d tests)", s.Description, s.Tests)
}
