// Package softassert builds assertions as stand-alone tests, so that a
// failing check can be reported without stopping the test that made it.
package softassert

import (
	"strconv"
	"sync"

	"testkit/pkg/unit"
)

// AssertTestFactory creates one named test per assertion. When index mode is
// on, every created test gets the factory name followed by a sequence number
// starting at 1.
type AssertTestFactory struct {
	mu       sync.Mutex
	name     string
	useIndex bool
	index    int
}

// NewAssertTestFactory creates a factory naming its tests name.
func NewAssertTestFactory(name string, useIndexWithName bool) *AssertTestFactory {
	return &AssertTestFactory{name: name, useIndex: useIndexWithName}
}

// Name returns the base name given to created tests.
func (f *AssertTestFactory) Name() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.name
}

// SetName changes the base name for tests created from now on.
func (f *AssertTestFactory) SetName(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = name
}

// UseIndexWithName reports whether created tests get a sequence number.
func (f *AssertTestFactory) UseIndexWithName() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.useIndex
}

// SetUseIndexWithName switches sequence numbering of test names on or off.
func (f *AssertTestFactory) SetUseIndexWithName(useIndexWithName bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.useIndex = useIndexWithName
}

func (f *AssertTestFactory) nextTestName() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.useIndex {
		return f.name
	}
	f.index++
	return f.name + strconv.Itoa(f.index)
}

func (f *AssertTestFactory) newTest(message string, check func(msg string)) *InnerTest {
	t := &InnerTest{message: message, check: check}
	t.Bind(t, f.nextTestName())
	return t
}

// CreateAssertTrue returns a test that fails unless condition holds.
func (f *AssertTestFactory) CreateAssertTrue(message string, condition bool) *InnerTest {
	return f.newTest(message, func(msg string) {
		unit.AssertTrue(msg, condition)
	})
}

// CreateAssertFalse returns a test that fails if condition holds.
func (f *AssertTestFactory) CreateAssertFalse(message string, condition bool) *InnerTest {
	return f.CreateAssertTrue(message, !condition)
}

// CreateFail returns a test that always fails.
func (f *AssertTestFactory) CreateFail(message string) *InnerTest {
	return f.newTest(message, unit.Fail)
}

// CreateAssertEquals returns a test that fails unless expected and actual
// are equal by value.
func (f *AssertTestFactory) CreateAssertEquals(message string, expected, actual interface{}) *InnerTest {
	return f.newTest(message, func(msg string) {
		unit.AssertEquals(msg, expected, actual)
	})
}

// CreateAssertEqualsFloat64 returns a test that fails unless expected and
// actual are within delta.
func (f *AssertTestFactory) CreateAssertEqualsFloat64(message string, expected, actual, delta float64) *InnerTest {
	return f.newTest(message, func(msg string) {
		unit.AssertInDelta(msg, expected, actual, delta)
	})
}

// CreateAssertEqualsFloat32 is CreateAssertEqualsFloat64 for float32.
func (f *AssertTestFactory) CreateAssertEqualsFloat32(message string, expected, actual, delta float32) *InnerTest {
	return f.CreateAssertEqualsFloat64(message, float64(expected), float64(actual), float64(delta))
}

// CreateAssertEqualsInt returns a test that fails unless the ints are equal.
func (f *AssertTestFactory) CreateAssertEqualsInt(message string, expected, actual int) *InnerTest {
	return f.CreateAssertEquals(message, expected, actual)
}

// CreateAssertEqualsInt64 returns a test that fails unless the int64s are equal.
func (f *AssertTestFactory) CreateAssertEqualsInt64(message string, expected, actual int64) *InnerTest {
	return f.CreateAssertEquals(message, expected, actual)
}

// CreateAssertEqualsInt16 returns a test that fails unless the int16s are equal.
func (f *AssertTestFactory) CreateAssertEqualsInt16(message string, expected, actual int16) *InnerTest {
	return f.CreateAssertEquals(message, expected, actual)
}

// CreateAssertEqualsBool returns a test that fails unless the bools are equal.
func (f *AssertTestFactory) CreateAssertEqualsBool(message string, expected, actual bool) *InnerTest {
	return f.CreateAssertEquals(message, expected, actual)
}

// CreateAssertEqualsByte returns a test that fails unless the bytes are equal.
func (f *AssertTestFactory) CreateAssertEqualsByte(message string, expected, actual byte) *InnerTest {
	return f.CreateAssertEquals(message, expected, actual)
}

// CreateAssertEqualsRune returns a test that fails unless the runes are equal.
func (f *AssertTestFactory) CreateAssertEqualsRune(message string, expected, actual rune) *InnerTest {
	return f.CreateAssertEquals(message, expected, actual)
}

// CreateAssertEqualsString returns a test that fails unless the strings are equal.
func (f *AssertTestFactory) CreateAssertEqualsString(message string, expected, actual string) *InnerTest {
	return f.CreateAssertEquals(message, expected, actual)
}

// CreateAssertNull returns a test that fails unless object is nil.
func (f *AssertTestFactory) CreateAssertNull(message string, object interface{}) *InnerTest {
	return f.newTest(message, func(msg string) {
		unit.AssertNull(msg, object)
	})
}

// CreateAssertNotNull returns a test that fails if object is nil.
func (f *AssertTestFactory) CreateAssertNotNull(message string, object interface{}) *InnerTest {
	return f.newTest(message, func(msg string) {
		unit.AssertNotNull(msg, object)
	})
}

// CreateAssertSame returns a test that fails unless expected and actual are
// the same instance.
func (f *AssertTestFactory) CreateAssertSame(message string, expected, actual interface{}) *InnerTest {
	return f.newTest(message, func(msg string) {
		unit.AssertSame(msg, expected, actual)
	})
}

// CreateAssertNotSame returns a truth test on "expected is not actual".
func (f *AssertTestFactory) CreateAssertNotSame(message string, expected, actual interface{}) *InnerTest {
	msg := "expected not same"
	if message != "" {
		msg = message + " " + msg
	}
	return f.CreateAssertTrue(msg, !unit.Same(expected, actual))
}
