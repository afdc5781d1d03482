package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"testkit/pkg/unit"
)

// ErrTestDeath is delivered to runnables that did not stop when interrupted.
// It belongs to the thread-death class.
var ErrTestDeath = fmt.Errorf("test death: %w", unit.ErrThreadDeath)

// TestRunnable is a finite worker body.
type TestRunnable interface {
	RunTest(t *T) error
}

// RunnableFunc adapts a func to TestRunnable.
type RunnableFunc func(t *T) error

// RunTest implements TestRunnable
func (f RunnableFunc) RunTest(t *T) error {
	return f(t)
}

// TestMonitorRunnable checks shared state while the workers run.
type TestMonitorRunnable interface {
	RunMonitor(t *T) error
}

// Yielder lets a monitor decide how to pause between two checks.
type Yielder interface {
	YieldProcessing(t *T) error
}

// MonitorFunc adapts a func to TestMonitorRunnable.
type MonitorFunc func(t *T) error

// RunMonitor implements TestMonitorRunnable
func (f MonitorFunc) RunMonitor(t *T) error {
	return f(t)
}

// Monitor is a monitor that calls Check repeatedly, pausing Interval between
// calls, or just yielding the processor when Interval is zero.
type Monitor struct {
	Check    func(t *T) error
	Interval time.Duration
}

// RunMonitor implements TestMonitorRunnable
func (m *Monitor) RunMonitor(t *T) error {
	if m.Check == nil {
		return nil
	}
	return m.Check(t)
}

// YieldProcessing implements Yielder
func (m *Monitor) YieldProcessing(t *T) error {
	if m.Interval <= 0 {
		runtime.Gosched()
		return nil
	}
	return t.pause(m.Interval)
}

// monitorLoop runs m while the workers are busy and once more afterwards so
// that it can validate the final state. An interrupt ends the loop but not
// the final check, which runs on a handle that is not interrupted.
func monitorLoop(t *T, m TestMonitorRunnable) error {
	for !t.IsDone() && !t.Interrupted() {
		if err := m.RunMonitor(t); err != nil {
			if !isInterrupt(err) {
				return err
			}
			break
		}
		if err := yield(t, m); err != nil {
			if !isInterrupt(err) {
				return err
			}
			break
		}
	}
	return m.RunMonitor(t.finalPass())
}

func yield(t *T, m TestMonitorRunnable) error {
	if y, ok := m.(Yielder); ok {
		return y.YieldProcessing(t)
	}
	runtime.Gosched()
	return nil
}

var indexCounter atomic.Int64

func nextIndex() int {
	return int(indexCounter.Add(1) - 1)
}

// ResetIndexCounter restarts runnable numbering at zero.
func ResetIndexCounter() {
	indexCounter.Store(0)
}

// T is the handle a runnable uses to talk to its runner.
type T struct {
	ctx      context.Context
	death    context.Context
	done     *atomic.Bool
	doneCh   <-chan struct{}
	final    context.Context
	index    int
	monitor  bool
	finished atomic.Bool
}

// Context is cancelled when the runnable is asked to stop.
func (t *T) Context() context.Context {
	return t.ctx
}

// Index returns the process-wide sequence number of the runnable. Numbers
// are handed out when RunTestRunnables binds its runnables, workers first.
func (t *T) Index() int {
	return t.index
}

// IsMonitor reports whether the runnable is a monitor.
func (t *T) IsMonitor() bool {
	return t.monitor
}

// IsDone reports whether every worker has finished.
func (t *T) IsDone() bool {
	return t.done.Load()
}

// Interrupted reports whether the runnable was asked to stop.
func (t *T) Interrupted() bool {
	return t.ctx.Err() != nil
}

// CheckStop returns ErrTestDeath once the runner gave up waiting, the
// context error once the runnable was interrupted, and nil otherwise.
func (t *T) CheckStop() error {
	if t.death.Err() != nil {
		return ErrTestDeath
	}
	if err := t.ctx.Err(); err != nil {
		return err
	}
	return nil
}

// Delay sleeps for d unless the runnable is stopped first, in which case it
// returns what CheckStop returns.
func (t *T) Delay(d time.Duration) error {
	if err := t.CheckStop(); err != nil {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-t.ctx.Done():
	case <-t.death.Done():
	}
	return t.CheckStop()
}

// pause is Delay that also returns early, with nil, once every worker has
// finished.
func (t *T) pause(d time.Duration) error {
	if err := t.CheckStop(); err != nil {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-t.doneCh:
		return nil
	case <-t.ctx.Done():
	case <-t.death.Done():
	}
	return t.CheckStop()
}

// finalPass returns the handle for a monitor's last check. Its context is
// only cancelled when the monitor phase overruns.
func (t *T) finalPass() *T {
	if t.final == nil {
		return t
	}
	return &T{ctx: t.final, death: t.death, done: t.done, doneCh: t.doneCh, index: t.index, monitor: t.monitor}
}

func isInterrupt(err error) bool {
	return errors.Is(err, context.Canceled)
}
