package unit

import (
	"errors"
	"fmt"
	"sync"
)

// Listener is notified of the progress of a Result. Callbacks may arrive
// concurrently when tests run on several goroutines.
type Listener interface {
	StartTest(test Test)
	AddError(test Test, err error)
	AddFailure(test Test, failure *AssertionFailedError)
	EndTest(test Test)
}

// TestFailure pairs a failed test with what went wrong.
type TestFailure struct {
	Test Test
	Err  error
}

// TestName returns the display name of the failed test
func (f TestFailure) TestName() string {
	return Describe(f.Test)
}

// String implements fmt.Stringer
func (f TestFailure) String() string {
	return fmt.Sprintf("%s: %v", f.TestName(), f.Err)
}

// Result collects the outcome of a test run. It is safe for concurrent use.
type Result struct {
	mu        sync.Mutex
	failures  []TestFailure
	errors    []TestFailure
	listeners []Listener
	runs      int
	stop      bool
}

// NewResult creates an empty result.
func NewResult() *Result {
	return &Result{}
}

// AddListener registers a listener.
func (r *Result) AddListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// RemoveListener unregisters a listener.
func (r *Result) RemoveListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.listeners {
		if existing == l {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

func (r *Result) snapshotListeners() []Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Listener, len(r.listeners))
	copy(out, r.listeners)
	return out
}

// StartTest counts a run and notifies listeners.
func (r *Result) StartTest(test Test) {
	r.mu.Lock()
	r.runs += test.CountTestCases()
	r.mu.Unlock()

	for _, l := range r.snapshotListeners() {
		l.StartTest(test)
	}
}

// EndTest notifies listeners that test has finished.
func (r *Result) EndTest(test Test) {
	for _, l := range r.snapshotListeners() {
		l.EndTest(test)
	}
}

// AddError records an error of test.
func (r *Result) AddError(test Test, err error) {
	r.mu.Lock()
	r.errors = append(r.errors, TestFailure{Test: test, Err: err})
	r.mu.Unlock()

	for _, l := range r.snapshotListeners() {
		l.AddError(test, err)
	}
}

// AddFailure records an assertion failure of test.
func (r *Result) AddFailure(test Test, failure *AssertionFailedError) {
	r.mu.Lock()
	r.failures = append(r.failures, TestFailure{Test: test, Err: failure})
	r.mu.Unlock()

	for _, l := range r.snapshotListeners() {
		l.AddFailure(test, failure)
	}
}

// Run runs a single test case: SetUp, RunTest, TearDown. TearDown always runs
// once SetUp succeeded; the first error encountered is the one recorded.
// Thread-death errors are recorded and then re-raised.
func (r *Result) Run(test TestCase) {
	r.StartTest(test)
	defer r.EndTest(test)

	err := runBare(test)
	if err == nil {
		return
	}
	r.record(test, err)
	if IsThreadDeath(err) {
		panic(err)
	}
}

// RunProtected runs fn and records whatever it raises against test.
func (r *Result) RunProtected(test Test, fn func() error) {
	err := Capture(fn)
	if err == nil {
		return
	}
	r.record(test, err)
	if IsThreadDeath(err) {
		panic(err)
	}
}

func (r *Result) record(test Test, err error) {
	var afe *AssertionFailedError
	if errors.As(err, &afe) {
		r.AddFailure(test, afe)
		return
	}
	r.AddError(test, err)
}

func runBare(test TestCase) error {
	fixture, ok := test.(Fixture)
	if !ok {
		return fmt.Errorf("test %s does not implement the fixture life cycle", Describe(test))
	}

	if err := Capture(fixture.SetUp); err != nil {
		return err
	}
	runErr := Capture(fixture.RunTest)
	tearErr := Capture(fixture.TearDown)
	if runErr != nil {
		return runErr
	}
	return tearErr
}

// RunCount returns the number of tests run so far.
func (r *Result) RunCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// FailureCount returns the number of recorded failures.
func (r *Result) FailureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures)
}

// ErrorCount returns the number of recorded errors.
func (r *Result) ErrorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

// Failures returns a copy of the recorded failures.
func (r *Result) Failures() []TestFailure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TestFailure, len(r.failures))
	copy(out, r.failures)
	return out
}

// Errors returns a copy of the recorded errors.
func (r *Result) Errors() []TestFailure {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TestFailure, len(r.errors))
	copy(out, r.errors)
	return out
}

// WasSuccessful reports whether no failures and no errors were recorded.
func (r *Result) WasSuccessful() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures) == 0 && len(r.errors) == 0
}

// Stop asks suites to stop running further tests.
func (r *Result) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stop = true
}

// ShouldStop reports whether Stop was called.
func (r *Result) ShouldStop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stop
}
