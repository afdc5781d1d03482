package harness

import (
	"sync"
	"time"

	"testkit/pkg/unit"
)

// collector is a unit.Listener turning result events into TestCaseResults.
// Tests of one result start and end in nested order, so open tests are kept
// on a stack.
type collector struct {
	mu      sync.Mutex
	open    []*TestCaseResult
	starts  []time.Time
	results []TestCaseResult
	onFail  func()
}

func (c *collector) StartTest(test unit.Test) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = append(c.open, &TestCaseResult{Name: unit.Describe(test), Result: ResultPassed})
	c.starts = append(c.starts, time.Now())
}

func (c *collector) AddError(test unit.Test, err error) {
	c.mark(ResultError, err.Error())
}

func (c *collector) AddFailure(test unit.Test, failure *unit.AssertionFailedError) {
	c.mark(ResultFailed, failure.Error())
}

func (c *collector) mark(result TestResult, message string) {
	c.mu.Lock()
	if n := len(c.open); n > 0 {
		top := c.open[n-1]
		// the first problem wins
		if top.Result == ResultPassed {
			top.Result = result
			top.Message = message
		}
	}
	onFail := c.onFail
	c.mu.Unlock()

	if onFail != nil {
		onFail()
	}
}

func (c *collector) EndTest(test unit.Test) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.open)
	if n == 0 {
		return
	}
	tc := c.open[n-1]
	tc.Duration = time.Since(c.starts[n-1])
	c.open = c.open[:n-1]
	c.starts = c.starts[:n-1]
	c.results = append(c.results, *tc)
}

func (c *collector) Results() []TestCaseResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]TestCaseResult, len(c.results))
	copy(out, c.results)
	return out
}
