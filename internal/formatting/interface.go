// Package formatting renders listings of registered test suites in the
// formats the CLI offers (console, JSON, YAML, table).
package formatting

import (
	"fmt"
	"io"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatConsole OutputFormat = "console" // Simple console output
	FormatJSON    OutputFormat = "json"    // JSON output
	FormatYAML    OutputFormat = "yaml"    // YAML output
	FormatTable   OutputFormat = "table"   // Rich table output
)

// ParseFormat validates a format name given on the command line.
func ParseFormat(name string) (OutputFormat, error) {
	switch f := OutputFormat(name); f {
	case FormatConsole, FormatJSON, FormatYAML, FormatTable:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want console, json, yaml or table)", name)
	}
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool // Suppress decorative elements
}

// SuiteInfo describes one registered suite.
type SuiteInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Tests is the number of test cases the suite expands to, or -1 when
	// the suite could not be built.
	Tests int    `json:"tests" yaml:"tests"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Formatter writes suite listings.
type Formatter interface {
	FormatSuites(w io.Writer, suites []SuiteInfo) error
}

// Factory creates formatters for different output formats
type Factory interface {
	CreateFormatter(options Options) Formatter
}

// NewFactory creates a new formatter factory
func NewFactory() Factory {
	return &factory{}
}

type factory struct{}

// CreateFormatter creates the appropriate formatter based on options
func (f *factory) CreateFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		return NewTableFormatter(options)
	case FormatConsole:
		fallthrough
	default:
		return NewConsoleFormatter(options)
	}
}
