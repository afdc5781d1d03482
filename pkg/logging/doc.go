// Package logging provides the structured logger used across testkit.
//
// It is built on the standard slog package. Every entry carries a subsystem
// identifier so that output from the parallel runner, the sub-test queue, the
// creator pipeline and the harness can be told apart:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//	logging.Info("Parallel", "Starting test thread %d", index)
//	logging.Error("Parallel", err, "Runnable %d failed after the session aborted", index)
//
// # Capture mode
//
// Tests that need to observe warnings (for example a sub-test added outside of
// a run) initialise the package with InitForCapture, which routes every entry
// to a buffered channel instead of a writer:
//
//	entries := logging.InitForCapture(logging.LevelDebug, 64)
//	defer logging.Reset()
//
// # Thread Safety
//
// Logging calls are safe from any goroutine. Initialisation is expected to
// happen once per process or once per test; re-initialising while other
// goroutines are logging is safe but entries may go to either destination.
package logging
