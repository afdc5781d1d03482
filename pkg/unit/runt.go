package unit

import (
	"fmt"
	"sync"
	"testing"
)

// RunT runs test and reports every failure and error through t.
func RunT(t testing.TB, test Test) *Result {
	t.Helper()

	result := NewResult()
	test.Run(result)

	for _, f := range result.Failures() {
		t.Errorf("failure in %s: %v", f.TestName(), f.Err)
	}
	for _, e := range result.Errors() {
		t.Errorf("error in %s: %v", e.TestName(), e.Err)
	}
	return result
}

// Recorder is a Listener that keeps a transcript of the events it receives,
// one entry per event, e.g. "start(TestPush)" or "failure(TestPush)".
type Recorder struct {
	mu     sync.Mutex
	events []string
}

// StartTest implements Listener
func (r *Recorder) StartTest(test Test) {
	r.add("start", test)
}

// AddError implements Listener
func (r *Recorder) AddError(test Test, err error) {
	r.add("error", test)
}

// AddFailure implements Listener
func (r *Recorder) AddFailure(test Test, failure *AssertionFailedError) {
	r.add("failure", test)
}

// EndTest implements Listener
func (r *Recorder) EndTest(test Test) {
	r.add("end", test)
}

func (r *Recorder) add(kind string, test Test) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("%s(%s)", kind, Describe(test)))
}

// Events returns a copy of the transcript.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}
