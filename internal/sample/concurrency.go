package sample

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"testkit/pkg/assertctor"
	"testkit/pkg/parallel"
	"testkit/pkg/parser"
	"testkit/pkg/unit"
)

const (
	stressWorkers   = 4
	stressPerWorker = 250
	stressDeadline  = 10 * time.Second
)

// ConcurrencyTests stress SyncStack from several goroutines at once.
type ConcurrencyTests struct {
	unit.Case
}

// NewConcurrencyTests creates the test case for the named method.
func NewConcurrencyTests(name string) *ConcurrencyTests {
	t := &ConcurrencyTests{}
	t.Bind(t, name)
	return t
}

// ConcurrencyTestsClass describes ConcurrencyTests to the suite machinery.
var ConcurrencyTestsClass = parser.ClassOf(reflect.TypeOf(ConcurrencyTests{}),
	assertctor.New("NewConcurrencyTests", NewConcurrencyTests))

func (t *ConcurrencyTests) TestConcurrentPushPop() {
	s := NewSyncStack()
	var pushed, popped atomic.Int64

	workers := make([]parallel.TestRunnable, stressWorkers)
	for i := range workers {
		workers[i] = parallel.RunnableFunc(func(pt *parallel.T) error {
			for n := 0; n < stressPerWorker; n++ {
				if err := pt.CheckStop(); err != nil {
					return err
				}
				s.Push(pt.Index())
				pushed.Add(1)
				if n%2 == 1 {
					if _, ok := s.Pop(); ok {
						popped.Add(1)
					}
				}
			}
			return nil
		})
	}

	monitor := &parallel.Monitor{
		Interval: time.Millisecond,
		Check: func(pt *parallel.T) error {
			if n := s.Len(); n < 0 || n > stressWorkers*stressPerWorker {
				return fmt.Errorf("stack length %d out of bounds", n)
			}
			if pt.IsDone() {
				unit.AssertEquals("items left", int(pushed.Load()-popped.Load()), s.Len())
			}
			return nil
		},
	}

	runner, err := parallel.New(workers, []parallel.TestMonitorRunnable{monitor})
	unit.Check(err)
	unit.Check(runner.RunTestRunnables(context.Background(), stressDeadline))
}

func (t *ConcurrencyTests) TestEveryItemPoppedOnce() {
	const items = stressWorkers * stressPerWorker
	s := NewSyncStack()
	for i := 0; i < items; i++ {
		s.Push(i)
	}

	var seen sync.Map
	var duplicates atomic.Int32
	workers := make([]parallel.TestRunnable, stressWorkers)
	for i := range workers {
		workers[i] = parallel.RunnableFunc(func(pt *parallel.T) error {
			for {
				if err := pt.CheckStop(); err != nil {
					return err
				}
				v, ok := s.Pop()
				if !ok {
					return nil
				}
				if _, dup := seen.LoadOrStore(v, pt.Index()); dup {
					duplicates.Add(1)
				}
			}
		})
	}

	runner, err := parallel.New(workers, nil)
	unit.Check(err)
	unit.Check(runner.RunTestRunnables(context.Background(), stressDeadline))

	count := 0
	seen.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	unit.AssertEquals("duplicates", int32(0), duplicates.Load())
	unit.AssertEquals("distinct items popped", items, count)
	unit.AssertEquals("items left", 0, s.Len())
}
