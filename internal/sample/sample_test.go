package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"testkit/internal/harness"
	"testkit/pkg/iftc"
	"testkit/pkg/suite"
	"testkit/pkg/unit"
)

// fifo pops from the wrong end.
type fifo struct {
	items []int
}

func (q *fifo) Push(v int) { q.items = append(q.items, v) }

func (q *fifo) Pop() (int, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	v := q.items[0]
	q.items = q.items[1:]
	return v, true
}

func (q *fifo) Peek() (int, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	return q.items[0], true
}

func (q *fifo) Len() int { return len(q.items) }

func TestStackContract_AllImplementations(t *testing.T) {
	s, err := suite.NewForClass(StackContractClass, Factories()...)
	require.NoError(t, err)
	assert.Equal(t, 15, s.CountTestCases())

	result := unit.RunT(t, s)
	assert.Equal(t, 15, result.RunCount())
}

func TestStackContract_CatchesBrokenImplementation(t *testing.T) {
	broken := iftc.NewFactory("fifo", false, func() (interface{}, error) {
		return &fifo{}, nil
	})
	s, err := suite.NewForClass(StackContractClass, broken)
	require.NoError(t, err)

	result := unit.NewResult()
	s.Run(result)

	assert.Equal(t, 5, result.RunCount())
	assert.Equal(t, 0, result.ErrorCount())
	require.Len(t, result.Failures(), 1)
	assert.Equal(t, "StackContract.TestLastInFirstOut[fifo]", result.Failures()[0].TestName())
}

func TestStackContract_SyncStackTornDown(t *testing.T) {
	var closed []*SyncStack
	f := iftc.NewFactory("sync", false, func() (interface{}, error) {
		return NewSyncStack(), nil
	}).WithTearDown(func(obj interface{}) error {
		s := obj.(*SyncStack)
		closed = append(closed, s)
		return s.Close()
	})

	s, err := suite.NewForClass(StackContractClass, f)
	require.NoError(t, err)
	unit.RunT(t, s)
	assert.Len(t, closed, 5)
}

func TestStackContract_RejectsWrongType(t *testing.T) {
	wrong := iftc.NewFactory("string", false, func() (interface{}, error) {
		return "not a stack", nil
	})
	s, err := suite.NewForClass(StackContractClass, wrong)
	require.NoError(t, err)

	result := unit.NewResult()
	s.Run(result)
	assert.Equal(t, 5, result.FailureCount())
}

func TestSyncStack_CloseTwice(t *testing.T) {
	s := NewSyncStack()
	s.Push(1)
	require.NoError(t, s.Close())
	assert.Equal(t, 0, s.Len())
	assert.ErrorIs(t, s.Close(), ErrClosed)
}

func TestStacks_AgreeWithModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		stacks := []Stack{NewSliceStack(), NewSyncStack(), NewLinkedStack()}
		var model []int

		ops := rapid.SliceOf(rapid.IntRange(-1, 100)).Draw(t, "ops")
		for _, op := range ops {
			if op < 0 {
				var want int
				wantOK := len(model) > 0
				if wantOK {
					want = model[len(model)-1]
					model = model[:len(model)-1]
				}
				for _, s := range stacks {
					got, ok := s.Pop()
					if ok != wantOK || got != want {
						t.Fatalf("%T.Pop() = %d, %v; want %d, %v", s, got, ok, want, wantOK)
					}
				}
				continue
			}
			model = append(model, op)
			for _, s := range stacks {
				s.Push(op)
			}
		}
		for _, s := range stacks {
			if s.Len() != len(model) {
				t.Fatalf("%T.Len() = %d; want %d", s, s.Len(), len(model))
			}
		}
	})
}

func TestConcurrencyTests(t *testing.T) {
	s := suite.New("stack-concurrency")
	require.NoError(t, s.AddTestSuite(ConcurrencyTestsClass))
	assert.Equal(t, 2, s.CountTestCases())

	result := unit.RunT(t, s)
	assert.Equal(t, 2, result.RunCount())
}

func TestStackScenario_SoftChecksRunAsSubTests(t *testing.T) {
	s := suite.New("stack-integration")
	require.NoError(t, s.AddTestSuite(StackScenarioClass))

	rec := &unit.Recorder{}
	result := unit.NewResult()
	result.AddListener(rec)
	s.Run(result)

	assert.True(t, result.WasSuccessful(), "failures: %v errors: %v", result.Failures(), result.Errors())
	// two methods, plus five and three soft checks
	assert.Equal(t, 10, result.RunCount())
	assert.Contains(t, rec.Events(), "start(TestRoundTrip1)")
	assert.Contains(t, rec.Events(), "end(TestDistinctInstances3)")
}

func TestRegister(t *testing.T) {
	reg := harness.NewRegistry()
	require.NoError(t, Register(reg))

	var names []string
	for _, e := range reg.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"stack-contract", "stack-concurrency", "stack-integration"}, names)

	for _, e := range reg.Entries() {
		test, err := e.Build()
		require.NoError(t, err, e.Name)
		assert.Positive(t, test.CountTestCases(), e.Name)
	}

	assert.Error(t, Register(reg), "registering twice")
}
