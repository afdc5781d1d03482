package harness

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"testkit/pkg/iftc"
	"testkit/pkg/logging"
	"testkit/pkg/sysprops"
	"testkit/pkg/unit"
)

const subsystem = "Harness"

// errFailFast cancels the remaining suites once one has failed.
var errFailFast = errors.New("fail-fast triggered")

// Runner executes registered suites.
type Runner struct {
	reporter Reporter
	// reporters are not required to be safe for concurrent use
	reportMu sync.Mutex
}

// NewRunner creates a runner reporting through reporter.
func NewRunner(reporter Reporter) *Runner {
	return &Runner{reporter: reporter}
}

// Run executes the suites of reg selected by cfg. The returned error is
// non-nil when the run could not start or was cut short by ctx or the
// configured timeout; failing tests are reported in the result only.
func (r *Runner) Run(ctx context.Context, cfg Configuration, reg *Registry) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	entries, err := reg.Select(cfg.Suites)
	if err != nil {
		return nil, err
	}

	props := sysprops.New()
	defer func() {
		if err := props.Reset(); err != nil {
			logging.Error(subsystem, err, "Failed to restore environment after run")
		}
	}()
	if err := props.SetValues(cfg.Env); err != nil {
		return nil, fmt.Errorf("failed to apply env: %w", err)
	}
	if cfg.NoClassName {
		if err := props.SetValue(iftc.NoClassNameEnv, "true"); err != nil {
			return nil, err
		}
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	run := &RunResult{
		RunID:         uuid.NewString(),
		StartTime:     time.Now(),
		TotalSuites:   len(entries),
		Configuration: cfg,
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	r.reporter.ReportStart(run.RunID, cfg, names)
	logging.Info(subsystem, "Run %s: %d suites, %d in parallel", run.RunID, len(entries), cfg.Parallel)

	results := make([]SuiteResult, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)
	for i, e := range entries {
		results[i] = SuiteResult{Name: e.Name, Result: ResultSkipped}
		g.Go(func() error {
			if gctx.Err() != nil {
				logging.Debug(subsystem, "Skipping suite %s: %v", e.Name, context.Cause(gctx))
				return nil
			}
			res := r.runSuite(gctx, e, cfg.FailFast)
			results[i] = res
			r.report(res)
			if cfg.FailFast && res.Result != ResultPassed {
				return fmt.Errorf("suite %s: %w", e.Name, errFailFast)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logging.Info(subsystem, "Run %s stopped early: %v", run.RunID, err)
	}

	run.Suites = results
	for _, s := range results {
		run.add(s)
	}
	run.EndTime = time.Now()
	run.Duration = run.EndTime.Sub(run.StartTime)

	if cfg.ReportPath != "" {
		path, err := WriteReport(cfg.ReportPath, run)
		if err != nil {
			logging.Error(subsystem, err, "Failed to save detailed report")
		} else {
			logging.Info(subsystem, "Detailed report saved to %s", path)
		}
	}

	r.reportMu.Lock()
	r.reporter.ReportRunResult(*run)
	r.reportMu.Unlock()

	if err := ctx.Err(); err != nil {
		return run, fmt.Errorf("run %s interrupted: %w", run.RunID, err)
	}
	return run, nil
}

func (r *Runner) report(res SuiteResult) {
	r.reportMu.Lock()
	defer r.reportMu.Unlock()
	r.reporter.ReportSuiteResult(res)
}

// runSuite builds and runs one suite against a fresh result.
func (r *Runner) runSuite(ctx context.Context, e Entry, failFast bool) SuiteResult {
	res := SuiteResult{Name: e.Name, StartTime: time.Now()}
	defer func() {
		res.Duration = time.Since(res.StartTime)
	}()

	var test unit.Test
	err := unit.Capture(func() error {
		var err error
		test, err = e.Build()
		return err
	})
	if err == nil && test == nil {
		err = fmt.Errorf("build returned no test")
	}
	if err != nil {
		logging.Error(subsystem, err, "Failed to build suite %s", e.Name)
		res.Error = fmt.Sprintf("failed to build suite: %v", err)
		res.settle()
		return res
	}

	result := unit.NewResult()
	c := &collector{}
	if failFast {
		c.onFail = result.Stop
	}
	result.AddListener(c)
	stop := context.AfterFunc(ctx, result.Stop)
	defer stop()

	logging.Debug(subsystem, "Running suite %s (%d test cases)", e.Name, test.CountTestCases())
	if err := unit.Capture(func() error {
		test.Run(result)
		return nil
	}); err != nil {
		res.Error = err.Error()
	}

	for _, tc := range c.Results() {
		res.add(tc)
	}
	if res.Error == "" && ctx.Err() != nil && result.ShouldStop() {
		res.Error = fmt.Sprintf("stopped: %v", context.Cause(ctx))
	}
	res.settle()
	return res
}
