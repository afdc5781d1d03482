// Package parallel runs several cooperating test bodies on their own
// goroutines and reports their failures as one.
//
// A MultiThreadedTestRunner owns a set of finite worker runnables and
// optional monitor runnables. RunTestRunnables starts them all, waits for the
// workers (bounded by an optional deadline), then lets every monitor leave its
// loop and run one final check against the settled state. The
// first failure reported by any runnable becomes the outcome of the run and
// aborts the others; later failures are only logged.
//
// Runnables receive a *T. Stopping is cooperative: the runner first cancels
// T.Context, and once a grace period has passed it also makes T.Delay and
// T.CheckStop return ErrTestDeath. A body returning context.Canceled was
// interrupted and has not failed. A goroutine that ignores both signals is
// reported as leaked.
//
//	runner, err := parallel.New(workers, []parallel.TestMonitorRunnable{
//		&parallel.Monitor{Check: checkInvariant, Interval: time.Millisecond},
//	})
//	if err != nil {
//		return err
//	}
//	return runner.RunTestRunnables(ctx, 5*time.Second)
package parallel
