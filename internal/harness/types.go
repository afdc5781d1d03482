package harness

import (
	"time"
)

// TestResult is the outcome of a test case or suite.
type TestResult string

const (
	// ResultPassed indicates the test passed successfully
	ResultPassed TestResult = "PASSED"
	// ResultFailed indicates an assertion failed
	ResultFailed TestResult = "FAILED"
	// ResultError indicates the test raised an unexpected error
	ResultError TestResult = "ERROR"
	// ResultSkipped indicates the suite never ran
	ResultSkipped TestResult = "SKIPPED"
)

// OutputFormat selects the reporter.
type OutputFormat string

const (
	OutputText  OutputFormat = "text"
	OutputJSON  OutputFormat = "json"
	OutputQuiet OutputFormat = "quiet"
)

// Configuration defines a harness run.
type Configuration struct {
	// Timeout bounds the whole run; zero means no limit
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// Parallel is the number of suites run at the same time
	Parallel int `yaml:"parallel" json:"parallel"`
	// FailFast stops execution on first failure
	FailFast bool `yaml:"fail_fast" json:"fail_fast"`
	// Verbose lists every test case in the text output
	Verbose bool `yaml:"verbose" json:"verbose"`
	// Debug enables debug logging
	Debug bool `yaml:"debug" json:"debug"`
	// ReportPath is a directory for a detailed JSON report
	ReportPath string `yaml:"report_path,omitempty" json:"report_path,omitempty"`
	// Output selects the reporter
	Output OutputFormat `yaml:"output" json:"output"`
	// NoClassName drops the class name prefix from interface test names
	NoClassName bool `yaml:"no_classname" json:"no_classname"`
	// Suites holds glob patterns of suite names to run; empty runs all
	Suites []string `yaml:"suites,omitempty" json:"suites,omitempty"`
	// Env is applied to the process environment during the run
	Env map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// TestCaseResult is the outcome of a single test case.
type TestCaseResult struct {
	Name     string        `json:"name"`
	Result   TestResult    `json:"result"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// SuiteResult is the outcome of one registered suite.
type SuiteResult struct {
	Name      string           `json:"name"`
	Result    TestResult       `json:"result"`
	Error     string           `json:"error,omitempty"`
	StartTime time.Time        `json:"start_time"`
	Duration  time.Duration    `json:"duration"`
	Tests     []TestCaseResult `json:"tests"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Errors    int              `json:"errors"`
}

// RunResult is the outcome of a harness run.
type RunResult struct {
	RunID         string        `json:"run_id"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	Duration      time.Duration `json:"duration"`
	TotalSuites   int           `json:"total_suites"`
	PassedSuites  int           `json:"passed_suites"`
	FailedSuites  int           `json:"failed_suites"`
	SkippedSuites int           `json:"skipped_suites"`
	TotalTests    int           `json:"total_tests"`
	FailedTests   int           `json:"failed_tests"`
	ErrorTests    int           `json:"error_tests"`
	Suites        []SuiteResult `json:"suites"`
	Configuration Configuration `json:"configuration"`
}

// Successful reports whether every test of every suite passed.
func (r *RunResult) Successful() bool {
	return r.FailedSuites == 0 && r.SkippedSuites == 0
}

func (s *SuiteResult) add(tc TestCaseResult) {
	s.Tests = append(s.Tests, tc)
	switch tc.Result {
	case ResultPassed:
		s.Passed++
	case ResultFailed:
		s.Failed++
	case ResultError:
		s.Errors++
	}
}

// settle derives the suite outcome from its test cases.
func (s *SuiteResult) settle() {
	switch {
	case s.Result == ResultSkipped:
	case s.Error != "" || s.Errors > 0:
		s.Result = ResultError
	case s.Failed > 0:
		s.Result = ResultFailed
	default:
		s.Result = ResultPassed
	}
}

func (r *RunResult) add(s SuiteResult) {
	switch s.Result {
	case ResultPassed:
		r.PassedSuites++
	case ResultSkipped:
		r.SkippedSuites++
	default:
		r.FailedSuites++
	}
	r.TotalTests += len(s.Tests)
	r.FailedTests += s.Failed
	r.ErrorTests += s.Errors
}
