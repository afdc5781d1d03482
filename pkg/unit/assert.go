package unit

import (
	"fmt"
	"reflect"

	"github.com/stretchr/testify/assert"
)

// Fail raises an assertion failure with message.
func Fail(message string) {
	panic(&AssertionFailedError{Message: message})
}

// AssertTrue fails with message unless condition holds.
func AssertTrue(message string, condition bool) {
	if !condition {
		Fail(message)
	}
}

// AssertFalse fails with message if condition holds.
func AssertFalse(message string, condition bool) {
	AssertTrue(message, !condition)
}

// AssertEquals fails unless expected and actual are equal by value.
func AssertEquals(message string, expected, actual interface{}) {
	if assert.ObjectsAreEqual(expected, actual) {
		return
	}
	Fail(FormatExpected(message, expected, actual))
}

// AssertInDelta fails unless expected and actual are within delta.
func AssertInDelta(message string, expected, actual, delta float64) {
	var rec recorder
	if assert.InDelta(&rec, expected, actual, delta) {
		return
	}
	Fail(FormatExpected(message, expected, actual))
}

// AssertNull fails unless object is nil, including typed nils.
func AssertNull(message string, object interface{}) {
	var rec recorder
	if assert.Nil(&rec, object) {
		return
	}
	Fail(message)
}

// AssertNotNull fails if object is nil, including typed nils.
func AssertNotNull(message string, object interface{}) {
	var rec recorder
	if assert.NotNil(&rec, object) {
		return
	}
	Fail(message)
}

// AssertSame fails unless expected and actual are the same instance.
func AssertSame(message string, expected, actual interface{}) {
	if Same(expected, actual) {
		return
	}
	prefix := ""
	if message != "" {
		prefix = message + " "
	}
	Fail(fmt.Sprintf("%sexpected same:<%v> was not:<%v>", prefix, expected, actual))
}

// AssertNotSame fails if expected and actual are the same instance.
func AssertNotSame(message string, expected, actual interface{}) {
	if !Same(expected, actual) {
		return
	}
	prefix := ""
	if message != "" {
		prefix = message + " "
	}
	Fail(prefix + "expected not same")
}

// Same reports whether a and b refer to the same instance. Pointers are
// compared by address; other comparable values by ==.
func Same(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Ptr:
		var rec recorder
		return assert.Same(&rec, a, b)
	case reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Comparable() {
		return a == b
	}
	return false
}

// FormatExpected renders the classic "expected:<e> but was:<a>" message.
func FormatExpected(message string, expected, actual interface{}) string {
	prefix := ""
	if message != "" {
		prefix = message + " "
	}
	return fmt.Sprintf("%sexpected:<%v> but was:<%v>", prefix, expected, actual)
}

// recorder satisfies assert.TestingT and swallows testify's own report; the
// caller produces the failure message.
type recorder struct {
	messages []string
}

func (r *recorder) Errorf(format string, args ...interface{}) {
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}
