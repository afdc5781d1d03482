package unit

import "sync"

// Suite is an ordered composite of tests.
type Suite struct {
	mu    sync.Mutex
	name  string
	tests []Test
}

// NewSuite creates a suite with the given name and initial tests.
func NewSuite(name string, tests ...Test) *Suite {
	s := &Suite{name: name}
	for _, t := range tests {
		s.AddTest(t)
	}
	return s
}

// Name returns the suite name.
func (s *Suite) Name() string {
	return s.name
}

// SetName renames the suite.
func (s *Suite) SetName(name string) {
	s.name = name
}

// AddTest appends a test. Nil tests are ignored.
func (s *Suite) AddTest(test Test) {
	if test == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tests = append(s.tests, test)
}

// TestAt returns the test at index i.
func (s *Suite) TestAt(i int) Test {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tests[i]
}

// TestCount returns the number of direct children.
func (s *Suite) TestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tests)
}

// Tests returns a copy of the direct children.
func (s *Suite) Tests() []Test {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Test, len(s.tests))
	copy(out, s.tests)
	return out
}

// CountTestCases sums the test cases of all children.
func (s *Suite) CountTestCases() int {
	count := 0
	for _, t := range s.Tests() {
		count += t.CountTestCases()
	}
	return count
}

// Run runs every child in order until the result is stopped.
func (s *Suite) Run(result *Result) {
	RunAll(s.Tests(), result)
}

// RunAll runs tests in order against result until the result is stopped.
func RunAll(tests []Test, result *Result) {
	for _, t := range tests {
		if result.ShouldStop() {
			return
		}
		t.Run(result)
	}
}

// String returns the suite name.
func (s *Suite) String() string {
	return s.name
}
