package subtest

import (
	"sync"

	"testkit/pkg/logging"
	"testkit/pkg/unit"
)

const subsystem = "SubTest"

// SubTestTestCase is a test case that can queue tests from inside its own
// run. Every goroutine running the case keeps its own queue.
type SubTestTestCase struct {
	unit.Case
	queues sync.Map // goroutine id -> *[]unit.Test
}

// NewSubTestTestCase creates a stand-alone case. Embedding types call Bind.
func NewSubTestTestCase(name string) *SubTestTestCase {
	c := &SubTestTestCase{}
	c.Bind(c, name)
	return c
}

// AddSubTest queues test to run once the current run has finished. Tests
// added outside of Run, and nil tests, are dropped with a warning.
func (c *SubTestTestCase) AddSubTest(test unit.Test) {
	if test == nil {
		logging.Warn(subsystem, "Attempted to add nil test to test [%s]", c.Name())
		return
	}
	v, ok := c.queues.Load(goroutineID())
	if !ok {
		logging.Warn(subsystem, "Attempted to add test [%s] to test [%s] without calling the run method", unit.Describe(test), c.Name())
		return
	}
	logging.Debug(subsystem, "Adding test [%s] to test [%s]", unit.Describe(test), c.Name())
	queue := v.(*[]unit.Test)
	*queue = append(*queue, test)
}

// Run runs the case, then every test queued during the outermost call on
// this goroutine. Nested calls leave their queued tests to the outer one.
func (c *SubTestTestCase) Run(result *unit.Result) {
	id := goroutineID()
	v, nested := c.queues.LoadOrStore(id, &[]unit.Test{})
	if nested {
		logging.Debug(subsystem, "Run of [%s] was re-entered, queued tests run with the outer call", c.Name())
		c.Case.Run(result)
		return
	}
	defer c.queues.Delete(id)

	c.Case.Run(result)

	queue := v.(*[]unit.Test)
	logging.Debug(subsystem, "Running %d queued tests of [%s]; %d tests run so far", len(*queue), c.Name(), result.RunCount())
	// queued tests may queue more
	for i := 0; i < len(*queue); i++ {
		test := (*queue)[i]
		logging.Debug(subsystem, "Running test [%s] from test [%s]", unit.Describe(test), c.Name())
		test.Run(result)
	}
}
