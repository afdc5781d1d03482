package unit

import (
	"fmt"
	"reflect"
)

// Test is anything that can be run against a Result.
type Test interface {
	// CountTestCases returns the number of test cases Run will execute
	CountTestCases() int
	// Run executes the test and records its outcome in result
	Run(result *Result)
}

// TestCase is a single named test.
type TestCase interface {
	Test
	// Name returns the display name of the test
	Name() string
	// SetName sets the name of the test method to run
	SetName(name string)
}

// Fixture is the life cycle Result drives for every TestCase. Case provides
// no-op SetUp and TearDown and a reflective RunTest; embedding types override
// whichever they need.
type Fixture interface {
	SetUp() error
	RunTest() error
	TearDown() error
}

// Case is the embeddable base of a test case.
type Case struct {
	name string
	self TestCase
}

// NewCase creates a stand-alone case whose test method is looked up on the
// case itself. Embedding types use Bind instead.
func NewCase(name string) *Case {
	return &Case{name: name}
}

// Bind makes self the receiver of fixture dispatch and method lookup and sets
// the test method name.
func (c *Case) Bind(self TestCase, name string) {
	c.self = self
	c.name = name
}

// Self returns the value this case dispatches to.
func (c *Case) Self() TestCase {
	if c.self == nil {
		return c
	}
	return c.self
}

// Name returns the name of the test method.
func (c *Case) Name() string {
	return c.name
}

// MethodName returns the name of the test method, independently of any
// display-name override of an embedding type.
func (c *Case) MethodName() string {
	return c.name
}

// SetName sets the name of the test method.
func (c *Case) SetName(name string) {
	c.name = name
}

// CountTestCases always returns 1.
func (c *Case) CountTestCases() int {
	return 1
}

// Run runs the bound test case against result.
func (c *Case) Run(result *Result) {
	result.Run(c.Self())
}

// SetUp is a no-op.
func (c *Case) SetUp() error {
	return nil
}

// TearDown is a no-op.
func (c *Case) TearDown() error {
	return nil
}

// RunTest invokes the exported method named after the test on the bound
// value. The method must take no arguments and return nothing.
func (c *Case) RunTest() error {
	if c.name == "" {
		Fail("TestCase.name cannot be empty")
	}

	target := reflect.ValueOf(c.Self())
	method := target.MethodByName(c.name)
	if !method.IsValid() {
		Fail(fmt.Sprintf("Method %q not found", c.name))
	}
	if method.Type().NumIn() != 0 || method.Type().NumOut() != 0 {
		Fail(fmt.Sprintf("Method %q should take no arguments and return nothing", c.name))
	}

	method.Call(nil)
	return nil
}

// String returns the display name of the bound case.
func (c *Case) String() string {
	return c.Self().Name()
}

// FuncCase is a test case whose body is a plain function.
type FuncCase struct {
	Case
	body func() error
}

// NewFuncCase creates a test case named name that runs body.
func NewFuncCase(name string, body func() error) *FuncCase {
	fc := &FuncCase{body: body}
	fc.Bind(fc, name)
	return fc
}

// RunTest runs the function body.
func (fc *FuncCase) RunTest() error {
	if fc.body == nil {
		return nil
	}
	return fc.body()
}

// Describe returns a human readable name for any test.
func Describe(test Test) string {
	switch t := test.(type) {
	case nil:
		return "<nil>"
	case interface{ Name() string }:
		return t.Name()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%T", test)
	}
}

// WarningTest returns a test named "warning" whose only action is to fail
// with message.
func WarningTest(message string) TestCase {
	return NewFuncCase("warning", func() error {
		Fail(message)
		return nil
	})
}
