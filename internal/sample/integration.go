package sample

import (
	"reflect"

	"testkit/pkg/assertctor"
	"testkit/pkg/parser"
	"testkit/pkg/subtest"
)

// StackScenario walks a LinkedStack through a scenario, reporting every
// check as its own test.
type StackScenario struct {
	subtest.IntegrationTestCase
}

// NewStackScenario creates the scenario for the named method.
func NewStackScenario(name string) *StackScenario {
	t := &StackScenario{}
	t.Bind(t, name)
	return t
}

// StackScenarioClass describes StackScenario to the suite machinery.
var StackScenarioClass = parser.ClassOf(reflect.TypeOf(StackScenario{}),
	assertctor.New("NewStackScenario", NewStackScenario))

func (t *StackScenario) TestRoundTrip() {
	s := NewLinkedStack()
	for _, v := range []int{3, 1, 4} {
		s.Push(v)
	}
	t.SoftAssertEquals("length after pushes", 3, s.Len())

	top, ok := s.Peek()
	t.SoftAssertTrue("peek on non-empty stack", ok)
	t.SoftAssertEquals("top", 4, top)

	var drained []int
	for v, ok := s.Pop(); ok; v, ok = s.Pop() {
		drained = append(drained, v)
	}
	t.SoftAssertEquals("drain order", []int{4, 1, 3}, drained)
	t.SoftAssertEquals("length after drain", 0, s.Len())
}

func (t *StackScenario) TestDistinctInstances() {
	a, b := NewLinkedStack(), NewLinkedStack()
	t.SoftAssertNotNull("first stack", a)
	t.SoftAssertNotSame("constructors share state", a, b)
	t.SoftAssertSame("stack identity", a, a)
}
