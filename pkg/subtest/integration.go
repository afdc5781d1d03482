package subtest

import (
	"sync"

	"testkit/pkg/softassert"
)

// IntegrationTestCase is a SubTestTestCase with soft assertions. Every soft
// assertion queues one test, named after this test plus a sequence number.
type IntegrationTestCase struct {
	SubTestTestCase
	factoryOnce sync.Once
	factory     *softassert.AssertTestFactory
}

// NewIntegrationTestCase creates a stand-alone case. Embedding types call
// Bind.
func NewIntegrationTestCase(name string) *IntegrationTestCase {
	c := &IntegrationTestCase{}
	c.Bind(c, name)
	return c
}

func (c *IntegrationTestCase) assertions() *softassert.AssertTestFactory {
	c.factoryOnce.Do(func() {
		c.factory = softassert.NewAssertTestFactory(c.Name(), true)
	})
	return c.factory
}

// SoftAssertTrue queues a test that fails unless condition holds.
func (c *IntegrationTestCase) SoftAssertTrue(message string, condition bool) {
	c.AddSubTest(c.assertions().CreateAssertTrue(message, condition))
}

// SoftAssertFalse queues a test that fails if condition holds.
func (c *IntegrationTestCase) SoftAssertFalse(message string, condition bool) {
	c.AddSubTest(c.assertions().CreateAssertFalse(message, condition))
}

// SoftFail queues a test that always fails.
func (c *IntegrationTestCase) SoftFail(message string) {
	c.AddSubTest(c.assertions().CreateFail(message))
}

// SoftAssertEquals queues a test that fails unless expected equals actual.
func (c *IntegrationTestCase) SoftAssertEquals(message string, expected, actual interface{}) {
	c.AddSubTest(c.assertions().CreateAssertEquals(message, expected, actual))
}

// SoftAssertEqualsFloat64 queues a test that fails unless the values are within delta.
func (c *IntegrationTestCase) SoftAssertEqualsFloat64(message string, expected, actual, delta float64) {
	c.AddSubTest(c.assertions().CreateAssertEqualsFloat64(message, expected, actual, delta))
}

// SoftAssertEqualsFloat32 is SoftAssertEqualsFloat64 for float32.
func (c *IntegrationTestCase) SoftAssertEqualsFloat32(message string, expected, actual, delta float32) {
	c.AddSubTest(c.assertions().CreateAssertEqualsFloat32(message, expected, actual, delta))
}

// SoftAssertNull queues a test that fails unless object is nil.
func (c *IntegrationTestCase) SoftAssertNull(message string, object interface{}) {
	c.AddSubTest(c.assertions().CreateAssertNull(message, object))
}

// SoftAssertNotNull queues a test that fails if object is nil.
func (c *IntegrationTestCase) SoftAssertNotNull(message string, object interface{}) {
	c.AddSubTest(c.assertions().CreateAssertNotNull(message, object))
}

// SoftAssertSame queues a test that fails unless expected and actual are the same instance.
func (c *IntegrationTestCase) SoftAssertSame(message string, expected, actual interface{}) {
	c.AddSubTest(c.assertions().CreateAssertSame(message, expected, actual))
}

// SoftAssertNotSame queues a test that fails if expected and actual are the same instance.
func (c *IntegrationTestCase) SoftAssertNotSame(message string, expected, actual interface{}) {
	c.AddSubTest(c.assertions().CreateAssertNotSame(message, expected, actual))
}
