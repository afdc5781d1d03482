package unit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lifecycleTests struct {
	Case
	calls       []string
	setUpErr    error
	tearDownErr error
}

func newLifecycleTests(name string) *lifecycleTests {
	t := &lifecycleTests{}
	t.Bind(t, name)
	return t
}

func (t *lifecycleTests) SetUp() error {
	t.calls = append(t.calls, "setUp")
	return t.setUpErr
}

func (t *lifecycleTests) TearDown() error {
	t.calls = append(t.calls, "tearDown")
	return t.tearDownErr
}

func (t *lifecycleTests) TestPasses() {
	t.calls = append(t.calls, "TestPasses")
}

func (t *lifecycleTests) TestFails() {
	t.calls = append(t.calls, "TestFails")
	AssertEquals("value", 1, 2)
}

func (t *lifecycleTests) TestPanics() {
	t.calls = append(t.calls, "TestPanics")
	panic("kaboom")
}

func (t *lifecycleTests) TestWithArg(int) {}

func TestCase_LifecycleOrder(t *testing.T) {
	tc := newLifecycleTests("TestPasses")
	result := NewResult()

	tc.Run(result)

	assert.Equal(t, []string{"setUp", "TestPasses", "tearDown"}, tc.calls)
	assert.True(t, result.WasSuccessful())
	assert.Equal(t, 1, result.RunCount())
}

func TestCase_AssertionIsFailure(t *testing.T) {
	tc := newLifecycleTests("TestFails")
	result := NewResult()

	tc.Run(result)

	require.Equal(t, 1, result.FailureCount())
	assert.Equal(t, 0, result.ErrorCount())
	assert.Equal(t, "value expected:<1> but was:<2>", result.Failures()[0].Err.Error())
	assert.Equal(t, []string{"setUp", "TestFails", "tearDown"}, tc.calls)
}

func TestCase_PanicIsError(t *testing.T) {
	tc := newLifecycleTests("TestPanics")
	result := NewResult()

	tc.Run(result)

	require.Equal(t, 1, result.ErrorCount())
	var pe *PanicError
	require.ErrorAs(t, result.Errors()[0].Err, &pe)
	assert.Equal(t, "kaboom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
}

func TestCase_SetUpErrorSkipsTest(t *testing.T) {
	tc := newLifecycleTests("TestPasses")
	tc.setUpErr = errors.New("no fixture")
	result := NewResult()

	tc.Run(result)

	assert.Equal(t, []string{"setUp"}, tc.calls)
	require.Equal(t, 1, result.ErrorCount())
	assert.EqualError(t, result.Errors()[0].Err, "no fixture")
}

func TestCase_FirstErrorWins(t *testing.T) {
	tc := newLifecycleTests("TestFails")
	tc.tearDownErr = errors.New("tear down broke")
	result := NewResult()

	tc.Run(result)

	assert.Equal(t, 1, result.FailureCount())
	assert.Equal(t, 0, result.ErrorCount())
}

func TestCase_TearDownErrorRecorded(t *testing.T) {
	tc := newLifecycleTests("TestPasses")
	tc.tearDownErr = errors.New("tear down broke")
	result := NewResult()

	tc.Run(result)

	require.Equal(t, 1, result.ErrorCount())
	assert.EqualError(t, result.Errors()[0].Err, "tear down broke")
}

func TestCase_MissingMethod(t *testing.T) {
	result := NewResult()
	newLifecycleTests("TestNothing").Run(result)

	require.Equal(t, 1, result.FailureCount())
	assert.Contains(t, result.Failures()[0].Err.Error(), `Method "TestNothing" not found`)
}

func TestCase_WrongSignature(t *testing.T) {
	result := NewResult()
	newLifecycleTests("TestWithArg").Run(result)

	require.Equal(t, 1, result.FailureCount())
	assert.Contains(t, result.Failures()[0].Err.Error(), "should take no arguments")
}

func TestCase_ThreadDeathIsReraised(t *testing.T) {
	fc := NewFuncCase("dies", func() error {
		return ErrThreadDeath
	})
	result := NewResult()

	assert.PanicsWithError(t, ErrThreadDeath.Error(), func() {
		fc.Run(result)
	})
	assert.Equal(t, 1, result.ErrorCount())
}

func TestFuncCase(t *testing.T) {
	ran := false
	fc := NewFuncCase("body", func() error {
		ran = true
		return nil
	})

	assert.Equal(t, "body", fc.Name())
	assert.Equal(t, 1, fc.CountTestCases())

	result := NewResult()
	fc.Run(result)
	assert.True(t, ran)
	assert.True(t, result.WasSuccessful())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "<nil>", Describe(nil))
	assert.Equal(t, "body", Describe(NewFuncCase("body", nil)))
	assert.Equal(t, "suite", Describe(NewSuite("suite")))
}

func TestCapture(t *testing.T) {
	t.Run("returns error", func(t *testing.T) {
		err := Capture(func() error { return errors.New("plain") })
		assert.EqualError(t, err, "plain")
	})

	t.Run("keeps error panics", func(t *testing.T) {
		sentinel := errors.New("sentinel")
		err := Capture(func() error { panic(sentinel) })
		assert.Same(t, sentinel, err)
	})

	t.Run("wraps runtime errors", func(t *testing.T) {
		err := Capture(func() error {
			var m map[string]int
			m["x"] = 1
			return nil
		})
		var pe *PanicError
		require.ErrorAs(t, err, &pe)
		assert.NotEmpty(t, pe.Stack)
	})
}

func TestWarningTest(t *testing.T) {
	wt := WarningTest("something is off")
	result := NewResult()

	wt.Run(result)

	assert.Equal(t, "warning", wt.Name())
	require.Equal(t, 1, result.FailureCount())
	assert.EqualError(t, result.Failures()[0].Err, "something is off")
}
