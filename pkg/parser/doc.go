// Package parser turns test types into runnable tests.
//
// A Class describes a test type together with its registered constructors.
// TestClassParser walks the class and its embedding chain and collects the
// test methods: names starting with "Test", no parameters, no results. A
// TestCreator knows one constructor shape and builds a test for a (class,
// method) pair:
//
//   - LegacyCreator: func(name string) T
//   - DefaultCreator: func() T, followed by SetName(method)
//   - FactoryCreator: func(name string, f iftc.ImplFactory) T, once per factory
//
// DelegateTestCreator tries creators in order and TestClassCreator combines a
// creator with a parser, turning every problem it meets into a warning test
// that fails with the warning message when run.
package parser
