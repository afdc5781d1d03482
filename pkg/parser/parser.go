package parser

import (
	"fmt"

	"testkit/pkg/logging"
	"testkit/pkg/unit"
)

const parserSubsystem = "Parser"

// TestClassParser collects the test methods of a class.
type TestClassParser struct {
	class    *Class
	methods  []Method
	warnings []string
}

// NewTestClassParser parses class.
func NewTestClassParser(class *Class) (*TestClassParser, error) {
	if class == nil {
		return nil, fmt.Errorf("no nil arguments: %w", unit.ErrIllegalArgument)
	}
	p := &TestClassParser{class: class}
	if p.isTestClass(class) {
		p.discoverTestMethods(class)
	}
	return p, nil
}

// Warnings returns the warnings recorded while parsing.
func (p *TestClassParser) Warnings() []string {
	out := make([]string, len(p.warnings))
	copy(out, p.warnings)
	return out
}

// ClearWarnings drops the recorded warnings.
func (p *TestClassParser) ClearWarnings() {
	p.warnings = nil
}

// TestMethods returns the test methods in discovery order.
func (p *TestClassParser) TestMethods() []Method {
	out := make([]Method, len(p.methods))
	copy(out, p.methods)
	return out
}

// Name returns the class name.
func (p *TestClassParser) Name() string {
	return p.class.Name
}

// TestClass returns the parsed class.
func (p *TestClassParser) TestClass() *Class {
	return p.class
}

func (p *TestClassParser) isTestClass(class *Class) bool {
	ok := true
	if !class.Public {
		p.warning(fmt.Sprintf("Class %s is not public.", class.Name))
		ok = false
	}
	if !class.IsTest {
		p.warning(fmt.Sprintf("Class %s does not implement unit.Test", class.Name))
		ok = false
	}
	return ok
}

// discoverTestMethods walks class and its embedded test types. The first
// declaration of a name wins.
func (p *TestClassParser) discoverTestMethods(class *Class) {
	seen := map[string]bool{}
	for c := class; c != nil && c.IsTest; c = c.Super {
		for _, m := range c.Methods {
			p.addTestMethod(m, seen)
		}
	}
}

func (p *TestClassParser) addTestMethod(m Method, seen map[string]bool) {
	if seen[m.Name] {
		return
	}
	if m.IsPublicTestMethod() {
		seen[m.Name] = true
		p.methods = append(p.methods, m)
		return
	}
	if m.IsTestMethod() {
		p.warning("Test method isn't public: " + m.Name)
	}
}

func (p *TestClassParser) warning(message string) {
	logging.Debug(parserSubsystem, "WARNING: %s", message)
	p.warnings = append(p.warnings, message)
}
