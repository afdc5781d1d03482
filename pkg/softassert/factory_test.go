package softassert

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"testkit/pkg/unit"
)

func runOne(t *testing.T, test *InnerTest) *unit.Result {
	t.Helper()
	result := unit.NewResult()
	test.Run(result)
	return result
}

func failureMessage(t *testing.T, test *InnerTest) string {
	t.Helper()
	result := runOne(t, test)
	require.Equal(t, 1, result.FailureCount(), "expected %s to fail", test.Name())
	return result.Failures()[0].Err.Error()
}

func TestAssertTestFactory_Naming(t *testing.T) {
	f := NewAssertTestFactory("check", false)

	assert.Equal(t, "check", f.CreateAssertTrue("", true).Name())
	assert.Equal(t, "check", f.CreateFail("").Name())

	f.SetUseIndexWithName(true)
	assert.Equal(t, "check1", f.CreateAssertTrue("", true).Name())
	assert.Equal(t, "check2", f.CreateAssertNull("", nil).Name())

	f.SetName("other")
	assert.Equal(t, "other3", f.CreateAssertFalse("", false).Name())
}

func TestAssertTestFactory_Passing(t *testing.T) {
	f := NewAssertTestFactory("pass", true)
	x := new(int)

	tests := []*InnerTest{
		f.CreateAssertTrue("t", true),
		f.CreateAssertFalse("f", false),
		f.CreateAssertEquals("eq", []int{1}, []int{1}),
		f.CreateAssertEqualsFloat64("f64", 1.0, 1.05, 0.1),
		f.CreateAssertEqualsFloat32("f32", 1.0, 1.05, 0.1),
		f.CreateAssertEqualsInt("i", 3, 3),
		f.CreateAssertEqualsInt64("i64", 3, 3),
		f.CreateAssertEqualsInt16("i16", 3, 3),
		f.CreateAssertEqualsBool("b", true, true),
		f.CreateAssertEqualsByte("by", 'a', 'a'),
		f.CreateAssertEqualsRune("r", 'ä', 'ä'),
		f.CreateAssertEqualsString("s", "x", "x"),
		f.CreateAssertNull("null", nil),
		f.CreateAssertNotNull("notnull", x),
		f.CreateAssertSame("same", x, x),
		f.CreateAssertNotSame("notsame", x, new(int)),
	}
	for _, test := range tests {
		result := runOne(t, test)
		assert.True(t, result.WasSuccessful(), "%s: %v", test.Name(), result.Failures())
	}
}

func TestAssertTestFactory_FailureMessages(t *testing.T) {
	f := NewAssertTestFactory("soft", true)
	x := new(int)

	assert.Equal(t, "soft1: must hold", failureMessage(t, f.CreateAssertTrue("must hold", false)))
	assert.Equal(t, "soft2: must not hold", failureMessage(t, f.CreateAssertFalse("must not hold", true)))
	assert.Equal(t, "soft3: always", failureMessage(t, f.CreateFail("always")))
	assert.Equal(t, "soft4: size expected:<1> but was:<2>", failureMessage(t, f.CreateAssertEqualsInt("size", 1, 2)))
	assert.Equal(t, "soft5: nil", failureMessage(t, f.CreateAssertNull("nil", x)))
	assert.Equal(t, "soft6: ptr expected not same", failureMessage(t, f.CreateAssertNotSame("ptr", x, x)))
	assert.Equal(t, "soft7: expected not same", failureMessage(t, f.CreateAssertNotSame("", x, x)))
	failureMessage(t, f.CreateAssertEqualsFloat64("far", 1, 2, 0.5))
	failureMessage(t, f.CreateAssertSame("same", x, new(int)))
	failureMessage(t, f.CreateAssertNotNull("notnull", nil))
}

func TestInnerTest_Message(t *testing.T) {
	test := NewAssertTestFactory("n", false).CreateAssertTrue("first", true)
	test.SetMessage("second")

	assert.Equal(t, "second", test.Message())
	assert.Equal(t, "n: second", test.FullMessage())
}

func TestAssertTestFactory_ConsecutiveIndexNames(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z]{1,12}`).Draw(t, "name")
		skip := rapid.IntRange(0, 20).Draw(t, "skip")

		f := NewAssertTestFactory(name, true)
		for i := 0; i < skip; i++ {
			f.CreateFail("")
		}
		a := f.CreateAssertTrue("", true).Name()
		b := f.CreateAssertTrue("", true).Name()

		if a != name+strconv.Itoa(skip+1) || b != name+strconv.Itoa(skip+2) {
			t.Fatalf("unexpected names %q, %q", a, b)
		}
	})
}
