package harness

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"testkit/internal/formatting"
)

// MessageMaxLen caps failure messages in the summary table.
const MessageMaxLen = 80

// Reporter receives the progress of a run.
type Reporter interface {
	// ReportStart is called once before any suite runs
	ReportStart(runID string, cfg Configuration, suites []string)
	// ReportSuiteResult is called as each suite completes
	ReportSuiteResult(result SuiteResult)
	// ReportRunResult is called once after every suite completed
	ReportRunResult(result RunResult)
}

// NewReporter returns the reporter for format, writing to out.
func NewReporter(format OutputFormat, out io.Writer, verbose bool) (Reporter, error) {
	switch format {
	case OutputText, "":
		return NewTextReporter(out, verbose), nil
	case OutputJSON:
		return NewJSONReporter(out), nil
	case OutputQuiet:
		return NewQuietReporter(out), nil
	default:
		return nil, fmt.Errorf("unknown output %q", format)
	}
}

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	errColor  = color.New(color.FgRed, color.Bold)
	skipColor = color.New(color.FgYellow)
	dimColor  = color.New(color.FgHiBlack)
)

func resultSymbol(result TestResult) string {
	switch result {
	case ResultPassed:
		return "✅"
	case ResultFailed:
		return "❌"
	case ResultError:
		return "💥"
	case ResultSkipped:
		return "⏭️"
	default:
		return "❓"
	}
}

func colorFor(result TestResult) *color.Color {
	switch result {
	case ResultPassed:
		return passColor
	case ResultFailed:
		return failColor
	case ResultError:
		return errColor
	default:
		return skipColor
	}
}

// textReporter writes human readable progress and a summary table.
type textReporter struct {
	out     io.Writer
	verbose bool
}

// NewTextReporter creates the default human readable reporter.
func NewTextReporter(out io.Writer, verbose bool) Reporter {
	return &textReporter{out: out, verbose: verbose}
}

func (r *textReporter) ReportStart(runID string, cfg Configuration, suites []string) {
	fmt.Fprintf(r.out, "🧪 Starting testkit run %s\n", dimColor.Sprint(runID))
	fmt.Fprintf(r.out, "📋 Suites: %s\n", strings.Join(suites, ", "))

	if r.verbose {
		fmt.Fprintf(r.out, "\n⚙️  Configuration:\n")
		fmt.Fprintf(r.out, "   • Parallel suites: %d\n", cfg.Parallel)
		fmt.Fprintf(r.out, "   • Fail fast: %t\n", cfg.FailFast)
		fmt.Fprintf(r.out, "   • Timeout: %v\n", cfg.Timeout)
		fmt.Fprintf(r.out, "   • Class name in test names: %t\n", !cfg.NoClassName)
		if cfg.ReportPath != "" {
			fmt.Fprintf(r.out, "   • Report path: %s\n", cfg.ReportPath)
		}
		for _, k := range sortedKeys(cfg.Env) {
			fmt.Fprintf(r.out, "   • Env %s=%s\n", k, cfg.Env[k])
		}
	}
	fmt.Fprintln(r.out)
}

func (r *textReporter) ReportSuiteResult(s SuiteResult) {
	c := colorFor(s.Result)
	fmt.Fprintf(r.out, "%s %s %s\n",
		resultSymbol(s.Result),
		c.Sprint(s.Name),
		dimColor.Sprintf("(%d tests, %v)", len(s.Tests), s.Duration.Round(time.Millisecond)))

	if s.Error != "" {
		fmt.Fprintf(r.out, "   %s\n", errColor.Sprint(s.Error))
	}
	for _, tc := range s.Tests {
		if tc.Result == ResultPassed && !r.verbose {
			continue
		}
		fmt.Fprintf(r.out, "   %s %s", resultSymbol(tc.Result), tc.Name)
		if tc.Message != "" {
			fmt.Fprintf(r.out, ": %s", colorFor(tc.Result).Sprint(tc.Message))
		}
		fmt.Fprintln(r.out)
	}
}

func (r *textReporter) ReportRunResult(run RunResult) {
	fmt.Fprintf(r.out, "\n🏁 Run Complete\n")

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"SUITE", "RESULT", "PASSED", "FAILED", "ERRORS", "DURATION"})
	for _, s := range run.Suites {
		t.AppendRow(table.Row{
			s.Name,
			colorFor(s.Result).Sprint(s.Result),
			s.Passed, s.Failed, s.Errors,
			s.Duration.Round(time.Millisecond),
		})
	}
	t.AppendFooter(table.Row{
		"TOTAL", "",
		run.TotalTests - run.FailedTests - run.ErrorTests, run.FailedTests, run.ErrorTests,
		run.Duration.Round(time.Millisecond),
	})
	t.Render()

	if failures := failedTests(run); len(failures) > 0 {
		ft := table.NewWriter()
		ft.SetOutputMirror(r.out)
		ft.SetStyle(table.StyleRounded)
		ft.SetColumnConfigs([]table.ColumnConfig{
			{Number: 3, WidthMax: MessageMaxLen, WidthMaxEnforcer: text.Trim},
		})
		ft.AppendHeader(table.Row{"SUITE", "TEST", "MESSAGE"})
		for _, f := range failures {
			ft.AppendRow(table.Row{f.suite, f.test.Name, singleLine(f.test.Message)})
		}
		fmt.Fprintln(r.out)
		ft.Render()
	}

	if run.Successful() {
		fmt.Fprintf(r.out, "\n🎉 %s\n", passColor.Sprint("All tests passed!"))
	} else {
		fmt.Fprintf(r.out, "\n💔 %s\n", failColor.Sprint("Some tests failed"))
	}
}

type failure struct {
	suite string
	test  TestCaseResult
}

func failedTests(run RunResult) []failure {
	var out []failure
	for _, s := range run.Suites {
		for _, tc := range s.Tests {
			if tc.Result != ResultPassed {
				out = append(out, failure{suite: s.Name, test: tc})
			}
		}
	}
	return out
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// jsonReporter prints the whole run as one JSON document at the end.
type jsonReporter struct {
	out io.Writer
}

// NewJSONReporter creates a reporter for machine consumption.
func NewJSONReporter(out io.Writer) Reporter {
	return &jsonReporter{out: out}
}

func (r *jsonReporter) ReportStart(string, Configuration, []string) {}

func (r *jsonReporter) ReportSuiteResult(SuiteResult) {}

func (r *jsonReporter) ReportRunResult(run RunResult) {
	fmt.Fprintln(r.out, formatting.PrettyJSON(run))
}

// quietReporter only reports failures and a one line summary.
type quietReporter struct {
	out io.Writer
}

// NewQuietReporter creates a reporter for CI logs.
func NewQuietReporter(out io.Writer) Reporter {
	return &quietReporter{out: out}
}

func (r *quietReporter) ReportStart(string, Configuration, []string) {}

func (r *quietReporter) ReportSuiteResult(s SuiteResult) {
	if s.Result == ResultPassed {
		return
	}
	if s.Error != "" {
		fmt.Fprintf(r.out, "%s %s: %s\n", resultSymbol(s.Result), s.Name, s.Error)
	}
	for _, tc := range s.Tests {
		if tc.Result != ResultPassed {
			fmt.Fprintf(r.out, "%s %s/%s: %s\n", resultSymbol(tc.Result), s.Name, tc.Name, singleLine(tc.Message))
		}
	}
}

func (r *quietReporter) ReportRunResult(run RunResult) {
	if run.Successful() {
		fmt.Fprintf(r.out, "✅ All %d tests passed (%v)\n", run.TotalTests, run.Duration.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(r.out, "❌ %d/%d tests failed (%v)\n",
		run.FailedTests+run.ErrorTests, run.TotalTests, run.Duration.Round(time.Millisecond))
}
