// Package harness runs registered test suites outside of go test and
// reports their results.
//
// Suites are registered by name in a Registry. The Runner builds each
// selected suite, runs it against its own unit.Result, converts the result
// listener events into TestCaseResults and hands them to a Reporter. Top
// level suites run concurrently up to Configuration.Parallel; FailFast stops
// the run at the first failing suite.
//
// # Configuration
//
// Configuration can be loaded from YAML:
//
//	timeout: 2m
//	parallel: 2
//	fail_fast: false
//	output: text
//	report_path: ./reports
//	suites:
//	  - stack-*
//	env:
//	  STACK_CAPACITY: "64"
//
// Entries under env are applied to the process environment for the duration
// of the run and restored afterwards.
package harness
