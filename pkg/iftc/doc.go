// Package iftc runs one abstract contract test against many implementations.
//
// A contract test embeds InterfaceTestCase instead of unit.Case. Every test
// instance is bound to one ImplFactory and obtains the objects under test
// through CreateImplObject. Factories that can also release what they create
// (CxFactory) get every created object handed back to TearDown, newest
// first, when the test instance tears down.
//
// Factory is the usual base for factories: it gives them a stable,
// readable identifier that shows up in test names such as
// "StackContract.TestPush[StackTests-slice]".
package iftc
