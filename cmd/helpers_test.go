package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"testkit/internal/harness"
	"testkit/pkg/unit"
)

// useRegistry replaces the suite registry for the duration of the test.
func useRegistry(t *testing.T, build func(reg *harness.Registry) error) {
	t.Helper()
	original := newRegistry
	t.Cleanup(func() { newRegistry = original })
	newRegistry = func() (*harness.Registry, error) {
		reg := harness.NewRegistry()
		if err := build(reg); err != nil {
			return nil, err
		}
		return reg, nil
	}
}

func suiteOf(name string, tests ...unit.Test) harness.BuildFunc {
	return func() (unit.Test, error) {
		return unit.NewSuite(name, tests...), nil
	}
}

func passing(name string) unit.Test {
	return unit.NewFuncCase(name, nil)
}

func failing(name string) unit.Test {
	return unit.NewFuncCase(name, func() error {
		unit.Fail("expected failure")
		return nil
	})
}

func broken(string) harness.BuildFunc {
	return func() (unit.Test, error) {
		return nil, errors.New("cannot build")
	}
}

// execute runs cmd with args and returns what it printed.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
