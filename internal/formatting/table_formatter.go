package formatting

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DescriptionMaxLen caps the description column of the table output.
const DescriptionMaxLen = 60

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{options: options}
}

// FormatSuites renders the suites as a table followed by a total line.
func (f *TableFormatter) FormatSuites(w io.Writer, suites []SuiteInfo) error {
	if len(suites) == 0 {
		_, err := fmt.Fprint(w, f.formatEmptyMessage("📋", "No suites registered"))
		return err
	}

	t := f.createTable(w)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("SUITE"),
		text.FgHiCyan.Sprint("TESTS"),
		text.FgHiCyan.Sprint("DESCRIPTION"),
	})
	total := 0
	for _, s := range suites {
		tests := fmt.Sprint(s.Tests)
		desc := s.Description
		if s.Error != "" {
			tests = text.FgRed.Sprint("-")
			desc = text.FgRed.Sprint(s.Error)
		} else {
			total += s.Tests
		}
		t.AppendRow(table.Row{text.FgHiCyan.Sprint(s.Name), tests, desc})
	}
	t.Render()

	if f.options.Quiet {
		return nil
	}
	_, err := fmt.Fprintf(w, "\n%s %s %s\n",
		text.FgHiBlue.Sprint("Total:"),
		text.FgHiWhite.Sprint(total),
		text.FgHiBlue.Sprint("tests"))
	return err
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: DescriptionMaxLen, WidthMaxEnforcer: text.Trim},
	})
	return t
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(icon, message string) string {
	return fmt.Sprintf("%s %s\n", text.FgYellow.Sprint(icon), text.FgYellow.Sprint(message))
}
