package parallel

import (
	"context"
	"testing"
	"time"
)

// Run runs workers and monitors with the given deadline under go test and
// fails t with the outcome.
func Run(t testing.TB, deadline time.Duration, workers []TestRunnable, monitors []TestMonitorRunnable, opts ...Option) {
	t.Helper()

	runner, err := New(workers, monitors, opts...)
	if err != nil {
		t.Fatalf("parallel: %v", err)
		return
	}
	ctx := t.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := runner.RunTestRunnables(ctx, deadline); err != nil {
		t.Errorf("parallel session %s failed: %v", runner.SessionID(), err)
	}
}

// Funcs adapts plain funcs to worker runnables.
func Funcs(fns ...func(t *T) error) []TestRunnable {
	out := make([]TestRunnable, len(fns))
	for i, fn := range fns {
		out[i] = RunnableFunc(fn)
	}
	return out
}
