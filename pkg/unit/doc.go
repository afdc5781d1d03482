// Package unit provides the host test-framework contracts the rest of testkit
// builds on.
//
// The model is the classic xUnit one:
//
//   - Test is anything that can be run against a Result.
//   - TestCase is a single named test. Concrete test types embed Case and bind
//     themselves so that SetUp, the named test method and TearDown dispatch to
//     the outer value.
//   - Result collects failures (assertion failures) and errors (everything
//     else), counts runs and notifies Listeners.
//   - Suite is the composite.
//
// Assertions fail by panicking with *AssertionFailedError. Result recovers
// those panics and records them as failures, so a test body reads like a list
// of checks:
//
//	type StackTests struct {
//		unit.Case
//	}
//
//	func NewStackTests(name string) *StackTests {
//		t := &StackTests{}
//		t.Bind(t, name)
//		return t
//	}
//
//	func (t *StackTests) TestPushPop() {
//		s := NewStack()
//		s.Push(1)
//		unit.AssertEquals("popped value", 1, s.Pop())
//	}
//
// Test trees are driven from go test with RunT.
package unit
