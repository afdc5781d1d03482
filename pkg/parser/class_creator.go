package parser

import (
	"errors"
	"fmt"

	"testkit/pkg/logging"
	"testkit/pkg/unit"
)

// TestClassCreator combines a creator with a parser and turns whatever goes
// wrong into warnings.
type TestClassCreator struct {
	creator  TestCreator
	warnings []string
}

// NewTestClassCreator creates a class creator around creator.
func NewTestClassCreator(creator TestCreator) (*TestClassCreator, error) {
	if creator == nil {
		return nil, fmt.Errorf("no nil arguments: %w", unit.ErrIllegalArgument)
	}
	return &TestClassCreator{creator: creator}, nil
}

// CreateWarningTest returns a test that fails with message when run.
func CreateWarningTest(message string) unit.Test {
	return unit.WarningTest(message)
}

// Warnings returns the warnings recorded so far.
func (tcc *TestClassCreator) Warnings() []string {
	out := make([]string, len(tcc.warnings))
	copy(out, tcc.warnings)
	return out
}

// ClearWarnings drops the recorded warnings.
func (tcc *TestClassCreator) ClearWarnings() {
	tcc.warnings = nil
}

// CreateTests builds one test per test method found by p.
func (tcc *TestClassCreator) CreateTests(p *TestClassParser) []unit.Test {
	class := p.TestClass()
	if !tcc.creator.CanCreate(class) {
		tcc.warning(fmt.Sprintf("TestCreator does not know how to handle class %s.", class.Name))
		return nil
	}

	var tests []unit.Test
	for _, m := range p.TestMethods() {
		test, err := tcc.creator.CreateTest(class, m)
		switch {
		case err != nil:
			tcc.warning(creationWarning(class, m, err))
		case test == nil:
			tcc.warning(fmt.Sprintf("Could not create test for class %s and method %s.", class.Name, m.Name))
		default:
			tests = append(tests, test)
		}
	}
	return tests
}

func creationWarning(class *Class, m Method, err error) string {
	var ce *CreateError
	if !errors.As(err, &ce) {
		return fmt.Sprintf("Method %s could not be added as a test: %v", m.Name, err)
	}
	switch ce.Kind {
	case KindNoConstructor, KindWrongArgCount:
		return fmt.Sprintf("No valid constructor for %s: %v", class.Name, ce.Err)
	case KindInvocation:
		return fmt.Sprintf("Construction of class %s caused an exception: %v", class.Name, ce.Err)
	case KindProtection:
		return fmt.Sprintf("Protection on constructor for class %s was invalid: %v", class.Name, ce.Err)
	case KindCast:
		return fmt.Sprintf("Class %s is not of Test type.", class.Name)
	default:
		return fmt.Sprintf("Method %s could not be added as a test: %v", m.Name, ce.Err)
	}
}

// CreateWarningTests returns one warning test per creator warning followed
// by one per parser warning.
func (tcc *TestClassCreator) CreateWarningTests(p *TestClassParser) []unit.Test {
	var tests []unit.Test
	for _, w := range tcc.Warnings() {
		tests = append(tests, CreateWarningTest(w))
	}
	for _, w := range p.Warnings() {
		tests = append(tests, CreateWarningTest(w))
	}
	return tests
}

// CreateTestSuite returns a suite named after the class holding the created
// tests.
func (tcc *TestClassCreator) CreateTestSuite(p *TestClassParser) *unit.Suite {
	return unit.NewSuite(p.Name(), tcc.CreateTests(p)...)
}

// CreateAllTestSuite returns CreateTestSuite followed by the warning tests.
func (tcc *TestClassCreator) CreateAllTestSuite(p *TestClassParser) *unit.Suite {
	suite := tcc.CreateTestSuite(p)
	for _, t := range tcc.CreateWarningTests(p) {
		suite.AddTest(t)
	}
	return suite
}

func (tcc *TestClassCreator) warning(message string) {
	logging.Info(creatorSubsystem, "WARNING: %s", message)
	tcc.warnings = append(tcc.warnings, message)
}
