package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"testkit/internal/formatting"
	"testkit/internal/harness"
)

func listRegistry(reg *harness.Registry) error {
	if err := reg.Register("alpha", "first suite", suiteOf("alpha", passing("a1"), passing("a2"))); err != nil {
		return err
	}
	if err := reg.Register("beta", "second suite", suiteOf("beta", passing("b1"))); err != nil {
		return err
	}
	return reg.Register("gamma", "does not build", broken("gamma"))
}

func TestListCommand_JSON(t *testing.T) {
	useRegistry(t, listRegistry)

	out, err := execute(t, newListCmd(), "--output", "json")
	require.NoError(t, err)

	var listing struct {
		Suites []formatting.SuiteInfo `json:"suites"`
		Count  int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	assert.Equal(t, 3, listing.Count)
	assert.Equal(t, []formatting.SuiteInfo{
		{Name: "alpha", Description: "first suite", Tests: 2},
		{Name: "beta", Description: "second suite", Tests: 1},
		{Name: "gamma", Description: "does not build", Tests: -1, Error: "cannot build"},
	}, listing.Suites)
}

func TestListCommand_Pattern(t *testing.T) {
	useRegistry(t, listRegistry)

	out, err := execute(t, newListCmd(), "b*", "-o", "yaml")
	require.NoError(t, err)

	var listing struct {
		Suites []formatting.SuiteInfo `yaml:"suites"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &listing))
	require.Len(t, listing.Suites, 1)
	assert.Equal(t, "beta", listing.Suites[0].Name)
}

func TestListCommand_Table(t *testing.T) {
	useRegistry(t, listRegistry)

	out, err := execute(t, newListCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "first suite")
	assert.Contains(t, out, "gamma")
}

func TestListCommand_Errors(t *testing.T) {
	useRegistry(t, listRegistry)

	_, err := execute(t, newListCmd(), "--output", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = execute(t, newListCmd(), "nothing-*")
	assert.ErrorContains(t, err, "no suite matches")
}

func TestListCommand_DefaultRegistry(t *testing.T) {
	out, err := execute(t, newListCmd(), "-o", "console", "-q")
	require.NoError(t, err)
	assert.Contains(t, out, "stack-contract")
	assert.Contains(t, out, "stack-concurrency")
	assert.Contains(t, out, "stack-integration")
}

func TestCompleteSuiteNames(t *testing.T) {
	useRegistry(t, listRegistry)

	names, _ := completeSuiteNames(newListCmd(), nil, "")
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names)
}
