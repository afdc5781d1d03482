package softassert

import "testkit/pkg/unit"

// InnerTest is a test whose body is a single assertion.
type InnerTest struct {
	unit.Case
	message string
	check   func(msg string)
}

// Message returns the assertion message without the test name.
func (t *InnerTest) Message() string {
	return t.message
}

// SetMessage replaces the assertion message.
func (t *InnerTest) SetMessage(msg string) {
	t.message = msg
}

// FullMessage prefixes the message with the test name.
func (t *InnerTest) FullMessage() string {
	if t.Name() == "" {
		return t.message
	}
	return t.Name() + ": " + t.message
}

// RunTest performs the assertion.
func (t *InnerTest) RunTest() error {
	t.check(t.FullMessage())
	return nil
}
