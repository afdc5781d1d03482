package parallel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"testkit/pkg/logging"
	"testkit/pkg/unit"
)

const subsystem = "Parallel"

var (
	// ErrAlreadyRun is returned by a second call to RunTestRunnables.
	ErrAlreadyRun = fmt.Errorf("runner was already run: %w", unit.ErrIllegalState)
	// ErrTimeout marks the failure recorded when the deadline elapses.
	ErrTimeout = errors.New("threads did not finish in time")
	// ErrGoroutineLeak is returned when runnables ignored every stop signal.
	ErrGoroutineLeak = errors.New("runnables did not stop")
)

const (
	// DefaultStopGrace is how long runnables get to honour an interrupt.
	DefaultStopGrace = time.Second
	// DefaultKillGrace is how long runnables get to honour ErrTestDeath.
	DefaultKillGrace = time.Second
)

// State is the life-cycle state of a runner.
type State int32

const (
	StateUnstarted State = iota
	StateRunning
	StateAborting
	StateFinished
)

// String implements fmt.Stringer
func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateRunning:
		return "running"
	case StateAborting:
		return "aborting"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Option configures a runner.
type Option func(*MultiThreadedTestRunner)

// WithStopGrace sets how long runnables get to return after an interrupt.
func WithStopGrace(d time.Duration) Option {
	return func(r *MultiThreadedTestRunner) {
		r.stopGrace = d
	}
}

// WithKillGrace sets how long runnables get to return after ErrTestDeath
// was delivered.
func WithKillGrace(d time.Duration) Option {
	return func(r *MultiThreadedTestRunner) {
		r.killGrace = d
	}
}

// MultiThreadedTestRunner runs a set of workers and monitors once.
type MultiThreadedTestRunner struct {
	workers   []TestRunnable
	monitors  []TestMonitorRunnable
	stopGrace time.Duration
	killGrace time.Duration
	sessionID string

	state atomic.Int32

	errMu     sync.Mutex
	firstErr  error
	aborted   chan struct{}
	abortOnce sync.Once
}

// New creates a runner for workers and monitors. Neither list may contain
// nil entries.
func New(workers []TestRunnable, monitors []TestMonitorRunnable, opts ...Option) (*MultiThreadedTestRunner, error) {
	if workers == nil {
		return nil, fmt.Errorf("no nil worker list: %w", unit.ErrIllegalArgument)
	}
	for i, w := range workers {
		if w == nil {
			return nil, fmt.Errorf("worker %d is nil: %w", i, unit.ErrIllegalArgument)
		}
	}
	for i, m := range monitors {
		if m == nil {
			return nil, fmt.Errorf("monitor %d is nil: %w", i, unit.ErrIllegalArgument)
		}
	}

	r := &MultiThreadedTestRunner{
		workers:   append([]TestRunnable(nil), workers...),
		monitors:  append([]TestMonitorRunnable(nil), monitors...),
		stopGrace: DefaultStopGrace,
		killGrace: DefaultKillGrace,
		sessionID: uuid.NewString(),
		aborted:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// SessionID identifies this runner in log output.
func (r *MultiThreadedTestRunner) SessionID() string {
	return r.sessionID
}

// State returns the current life-cycle state.
func (r *MultiThreadedTestRunner) State() State {
	return State(r.state.Load())
}

// RunTestRunnables runs every worker and monitor and blocks until they have
// all returned. A positive deadline bounds the worker phase; when it elapses
// the run fails with ErrTimeout. Cancelling ctx interrupts the run. The
// returned error is the first failure any runnable reported.
func (r *MultiThreadedTestRunner) RunTestRunnables(ctx context.Context, deadline time.Duration) error {
	if !r.state.CompareAndSwap(int32(StateUnstarted), int32(StateRunning)) {
		return ErrAlreadyRun
	}
	defer r.state.Store(int32(StateFinished))

	workerCtx, interruptWorkers := context.WithCancel(ctx)
	defer interruptWorkers()
	monitorCtx, interruptMonitors := context.WithCancel(ctx)
	defer interruptMonitors()
	finalCtx, endFinalChecks := context.WithCancel(context.Background())
	defer endFinalChecks()
	deathCtx, kill := context.WithCancel(context.Background())
	defer kill()

	// bind everything before anything starts
	done := &atomic.Bool{}
	doneCh := make(chan struct{})
	workers := make([]*T, len(r.workers))
	for i := range r.workers {
		workers[i] = &T{ctx: workerCtx, death: deathCtx, done: done, doneCh: doneCh, index: nextIndex()}
	}
	monitors := make([]*T, len(r.monitors))
	for i := range r.monitors {
		monitors[i] = &T{ctx: monitorCtx, death: deathCtx, done: done, doneCh: doneCh,
			final: finalCtx, index: nextIndex(), monitor: true}
	}

	logging.Debug(subsystem, "Session %s starting %d workers and %d monitors", r.sessionID, len(workers), len(monitors))

	var monitorGroup errgroup.Group
	for i, m := range r.monitors {
		t, m := monitors[i], m
		monitorGroup.Go(func() error {
			r.runOne(t, func(t *T) error { return monitorLoop(t, m) })
			return nil
		})
	}
	var workerGroup errgroup.Group
	for i, w := range r.workers {
		t, w := workers[i], w
		workerGroup.Go(func() error {
			r.runOne(t, w.RunTest)
			return nil
		})
	}

	workersDone := waitChan(&workerGroup)
	if !r.awaitWorkers(ctx, workersDone, deadline) {
		interruptWorkers()
		interruptMonitors()
		r.stop("worker", workersDone, kill)
	}
	if r.isAborted() {
		interruptMonitors()
	}
	done.Store(true)
	close(doneCh)

	// monitors leave their loop on their own and run the final check
	monitorsDone := waitChan(&monitorGroup)
	if !waitFor(monitorsDone, r.stopGrace) {
		interruptMonitors()
		endFinalChecks()
		r.stop("monitor", monitorsDone, kill)
	}

	leaked := append(unfinished(workers), unfinished(monitors)...)

	r.errMu.Lock()
	defer r.errMu.Unlock()
	if len(leaked) > 0 {
		sort.Ints(leaked)
		leakErr := fmt.Errorf("session %s: runnables %v still alive: %w", r.sessionID, leaked, ErrGoroutineLeak)
		logging.Error(subsystem, leakErr, "Giving up on runnables that ignored interrupt and test death")
		if r.firstErr == nil {
			return leakErr
		}
	}
	return r.firstErr
}

// awaitWorkers waits for the worker phase. It returns false when the phase
// was cut short by the deadline, a failure or the caller.
func (r *MultiThreadedTestRunner) awaitWorkers(ctx context.Context, workersDone <-chan struct{}, deadline time.Duration) bool {
	var timeout <-chan time.Time
	if deadline > 0 {
		timer := time.NewTimer(deadline)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-workersDone:
		if err := ctx.Err(); err != nil {
			r.handleError(nil, err)
		}
		return true
	case <-timeout:
		r.handleError(nil, fmt.Errorf("session %s: threads did not finish within %s: %w", r.sessionID, deadline, ErrTimeout))
	case <-ctx.Done():
		r.handleError(nil, ctx.Err())
	case <-r.aborted:
	}

	select {
	case <-workersDone:
		return true
	default:
		return false
	}
}

func (r *MultiThreadedTestRunner) isAborted() bool {
	select {
	case <-r.aborted:
		return true
	default:
		return false
	}
}

// stop waits for a group that was interrupted, then delivers test death and
// waits once more.
func (r *MultiThreadedTestRunner) stop(kind string, groupDone <-chan struct{}, kill context.CancelFunc) {
	if waitFor(groupDone, r.stopGrace) {
		return
	}
	logging.Warn(subsystem, "Session %s: %s runnables ignored the interrupt for %s, delivering test death", r.sessionID, kind, r.stopGrace)
	kill()
	waitFor(groupDone, r.killGrace)
}

func (r *MultiThreadedTestRunner) runOne(t *T, body func(*T) error) {
	defer t.finished.Store(true)

	logging.Debug(subsystem, "Starting test goroutine %d", t.index)
	err := unit.Capture(func() error {
		return body(t)
	})
	switch {
	case err == nil:
	case isInterrupt(err):
	case unit.IsThreadDeath(err):
		if !t.monitor {
			logging.Info(subsystem, "Aborted test goroutine %d", t.index)
		}
	default:
		r.handleError(t, err)
	}
	logging.Debug(subsystem, "Ended test goroutine %d", t.index)
}

// handleError latches the first failure and aborts the run. Later failures
// are logged and dropped.
func (r *MultiThreadedTestRunner) handleError(t *T, err error) {
	who := "runner"
	if t != nil {
		who = fmt.Sprintf("goroutine %d", t.index)
	}

	r.errMu.Lock()
	if r.firstErr != nil {
		r.errMu.Unlock()
		logging.Error(subsystem, err, "Session %s: additional failure in %s", r.sessionID, who)
		return
	}
	r.firstErr = err
	r.errMu.Unlock()

	r.state.CompareAndSwap(int32(StateRunning), int32(StateAborting))
	logging.Error(subsystem, err, "Session %s: failure in %s, aborting", r.sessionID, who)
	r.abortOnce.Do(func() {
		close(r.aborted)
	})
}

func waitChan(g *errgroup.Group) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(ch)
	}()
	return ch
}

func waitFor(ch <-chan struct{}, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-ch:
			return true
		default:
			return false
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ch:
		return true
	case <-timer.C:
		return false
	}
}

func unfinished(ts []*T) []int {
	var out []int
	for _, t := range ts {
		if !t.finished.Load() {
			out = append(out, t.index)
		}
	}
	return out
}
