package sysprops

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testkit/pkg/unit"
)

func TestSnapshot_SetAndReset(t *testing.T) {
	t.Setenv("TESTKIT_SYSPROPS_KEEP", "original")

	snap := New()
	require.NoError(t, snap.SetValue("TESTKIT_SYSPROPS_KEEP", "changed"))
	require.NoError(t, snap.SetValue("TESTKIT_SYSPROPS_NEW", "added"))

	assert.Equal(t, "changed", os.Getenv("TESTKIT_SYSPROPS_KEEP"))
	assert.Equal(t, "added", os.Getenv("TESTKIT_SYSPROPS_NEW"))
	v, ok := snap.Value("TESTKIT_SYSPROPS_NEW")
	assert.True(t, ok)
	assert.Equal(t, "added", v)
	orig, _ := snap.Original("TESTKIT_SYSPROPS_KEEP")
	assert.Equal(t, "original", orig)

	require.NoError(t, snap.Reset())

	assert.Equal(t, "original", os.Getenv("TESTKIT_SYSPROPS_KEEP"))
	_, present := os.LookupEnv("TESTKIT_SYSPROPS_NEW")
	assert.False(t, present)
}

func TestSnapshot_EmptyValueUnsets(t *testing.T) {
	t.Setenv("TESTKIT_SYSPROPS_GONE", "x")
	snap := New()

	require.NoError(t, snap.SetValue("TESTKIT_SYSPROPS_GONE", ""))

	_, present := os.LookupEnv("TESTKIT_SYSPROPS_GONE")
	assert.False(t, present)
	_, ok := snap.Value("TESTKIT_SYSPROPS_GONE")
	assert.False(t, ok)

	require.NoError(t, snap.Reset())
	assert.Equal(t, "x", os.Getenv("TESTKIT_SYSPROPS_GONE"))
}

func TestSnapshot_InvalidKey(t *testing.T) {
	snap := New()

	assert.ErrorIs(t, snap.SetValue("", "v"), unit.ErrIllegalArgument)
	assert.ErrorIs(t, snap.SetValue("A=B", "v"), unit.ErrIllegalArgument)
}

func TestSnapshot_SetValues(t *testing.T) {
	t.Setenv("TESTKIT_SYSPROPS_A", "")
	t.Setenv("TESTKIT_SYSPROPS_B", "")
	snap := New()
	defer func() { require.NoError(t, snap.Reset()) }()

	require.NoError(t, snap.SetValues(map[string]string{
		"TESTKIT_SYSPROPS_A": "1",
		"TESTKIT_SYSPROPS_B": "2",
	}))

	assert.Equal(t, "1", os.Getenv("TESTKIT_SYSPROPS_A"))
	assert.Equal(t, "2", os.Getenv("TESTKIT_SYSPROPS_B"))
	assert.Error(t, snap.SetValues(map[string]string{"": "x"}))
}
