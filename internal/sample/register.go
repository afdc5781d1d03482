package sample

import (
	"go.uber.org/multierr"

	"testkit/internal/harness"
	"testkit/pkg/parser"
	"testkit/pkg/suite"
	"testkit/pkg/unit"
)

// Register adds the sample suites to reg.
func Register(reg *harness.Registry) error {
	return multierr.Combine(
		reg.Register("stack-contract", "Stack contract against every Stack implementation", buildContract),
		reg.Register("stack-concurrency", "SyncStack under concurrent workers and a monitor", buildClass("stack-concurrency", ConcurrencyTestsClass)),
		reg.Register("stack-integration", "Soft-assertion scenario over LinkedStack", buildClass("stack-integration", StackScenarioClass)),
	)
}

func buildContract() (unit.Test, error) {
	s, err := suite.NewForClass(StackContractClass, Factories()...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func buildClass(name string, class *parser.Class) harness.BuildFunc {
	return func() (unit.Test, error) {
		s := suite.New(name)
		if err := s.AddTestSuite(class); err != nil {
			return nil, err
		}
		return s, nil
	}
}
