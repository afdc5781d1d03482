// Package suite aggregates contract test classes and implementation
// factories into a flat suite.
//
// Classes and factories are registered first. The first query of the suite
// contents (TestCount, TestAt, Tests, CountTestCases or Run) expands every
// class through the standard creator into one test per method, or one test
// per method and factory for contract tests. Registration after that point
// fails with unit.ErrIllegalState.
package suite

import (
	"fmt"
	"sync"

	"testkit/pkg/iftc"
	"testkit/pkg/logging"
	"testkit/pkg/parser"
	"testkit/pkg/unit"
)

const subsystem = "Suite"

// InterfaceTestSuite is a lazily expanded suite of contract tests.
type InterfaceTestSuite struct {
	unit.Suite

	mu        sync.Mutex
	factories []iftc.ImplFactory
	classes   []*parser.Class
	loaded    bool
}

// New creates an empty suite named name.
func New(name string) *InterfaceTestSuite {
	s := &InterfaceTestSuite{}
	s.SetName(name)
	return s
}

// NewForClass creates a suite named after class with class and factories
// registered.
func NewForClass(class *parser.Class, factories ...iftc.ImplFactory) (*InterfaceTestSuite, error) {
	if class == nil {
		return nil, fmt.Errorf("no nil arguments: %w", unit.ErrIllegalArgument)
	}
	s := New(class.Name)
	if err := s.AddTestSuite(class); err != nil {
		return nil, err
	}
	if err := s.AddFactories(factories...); err != nil {
		return nil, err
	}
	return s, nil
}

// AddFactory registers an implementation factory.
func (s *InterfaceTestSuite) AddFactory(f iftc.ImplFactory) error {
	if f == nil {
		return fmt.Errorf("no nil factories: %w", unit.ErrIllegalArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return fmt.Errorf("factory %s added after the suite was expanded: %w", f, unit.ErrIllegalState)
	}
	s.factories = append(s.factories, f)
	return nil
}

// AddFactories registers factories in order.
func (s *InterfaceTestSuite) AddFactories(factories ...iftc.ImplFactory) error {
	for _, f := range factories {
		if err := s.AddFactory(f); err != nil {
			return err
		}
	}
	return nil
}

// AddTestSuite registers a test class.
func (s *InterfaceTestSuite) AddTestSuite(class *parser.Class) error {
	if class == nil {
		return fmt.Errorf("no nil classes: %w", unit.ErrIllegalArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return fmt.Errorf("class %s added after the suite was expanded: %w", class.Name, unit.ErrIllegalState)
	}
	s.classes = append(s.classes, class)
	return nil
}

// AddInterfaceTestSuite registers the classes of other. Factories are never
// shared between suites: if other has factories of its own nothing is added
// and a warning is logged. Add such a suite with AddTest instead.
func (s *InterfaceTestSuite) AddInterfaceTestSuite(other *InterfaceTestSuite) error {
	if other == nil {
		return nil
	}

	other.mu.Lock()
	if other.loaded || len(other.classes) == 0 {
		other.mu.Unlock()
		return nil
	}
	if len(other.factories) > 0 {
		other.mu.Unlock()
		logging.Warn(subsystem, "Passed in InterfaceTestSuite %s with factories registered; add it through AddTest or drop its factories", other.Name())
		return nil
	}
	classes := make([]*parser.Class, len(other.classes))
	copy(classes, other.classes)
	other.mu.Unlock()

	for _, c := range classes {
		if err := s.AddTestSuite(c); err != nil {
			return err
		}
	}
	return nil
}

// AddTests appends ready-made tests ahead of the expanded ones. Once the suite
// was expanded it fails with unit.ErrIllegalState and adds nothing.
func (s *InterfaceTestSuite) AddTests(tests ...unit.Test) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return fmt.Errorf("%d tests added after the suite was expanded: %w", len(tests), unit.ErrIllegalState)
	}
	for _, t := range tests {
		s.Suite.AddTest(t)
	}
	return nil
}

// TestAt expands the suite and returns the test at index i.
func (s *InterfaceTestSuite) TestAt(i int) unit.Test {
	s.load()
	return s.Suite.TestAt(i)
}

// TestCount expands the suite and returns the number of tests.
func (s *InterfaceTestSuite) TestCount() int {
	s.load()
	return s.Suite.TestCount()
}

// Tests expands the suite and returns its tests.
func (s *InterfaceTestSuite) Tests() []unit.Test {
	s.load()
	return s.Suite.Tests()
}

// CountTestCases expands the suite and counts its test cases.
func (s *InterfaceTestSuite) CountTestCases() int {
	s.load()
	return s.Suite.CountTestCases()
}

// Run expands the suite and runs it.
func (s *InterfaceTestSuite) Run(result *unit.Result) {
	s.load()
	s.Suite.Run(result)
}

// Loaded reports whether the suite was expanded.
func (s *InterfaceTestSuite) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *InterfaceTestSuite) load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	s.loaded = true

	factories := append([]iftc.ImplFactory{}, s.factories...)
	creator, err := parser.NewStandardCreator(factories)
	if err != nil {
		s.Suite.AddTest(parser.CreateWarningTest(fmt.Sprintf("Could not set up the test creator: %v", err)))
		return
	}
	tcc, err := parser.NewTestClassCreator(creator)
	if err != nil {
		s.Suite.AddTest(parser.CreateWarningTest(fmt.Sprintf("Could not set up the test creator: %v", err)))
		return
	}

	for _, class := range s.classes {
		s.loadClass(class, tcc)
	}
	s.factories = nil
	s.classes = nil
}

func (s *InterfaceTestSuite) loadClass(class *parser.Class, tcc *parser.TestClassCreator) {
	p, err := parser.NewTestClassParser(class)
	if err != nil {
		s.Suite.AddTest(parser.CreateWarningTest(err.Error()))
		return
	}

	tcc.ClearWarnings()
	tests := tcc.CreateTests(p)
	if len(tests) == 0 {
		logging.Info(subsystem, "No tests for class %s discovered", class.Name)
		s.Suite.AddTest(parser.CreateWarningTest("No tests found in test class " + class.Name))
	}
	for _, t := range tests {
		s.addFlattened(t)
	}
	for _, t := range tcc.CreateWarningTests(p) {
		s.Suite.AddTest(t)
	}
	tcc.ClearWarnings()
}

// addFlattened adds the per-factory tests of a factory group individually.
func (s *InterfaceTestSuite) addFlattened(t unit.Test) {
	if group, ok := t.(*unit.Suite); ok {
		for _, child := range group.Tests() {
			s.Suite.AddTest(child)
		}
		return
	}
	s.Suite.AddTest(t)
}
