// Package sysprops keeps the process environment restorable while tests
// change it.
package sysprops

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"testkit/pkg/logging"
	"testkit/pkg/unit"
)

const subsystem = "SysProps"

// Snapshot remembers the environment at creation and restores it on Reset.
// Only one snapshot should be active at a time.
type Snapshot struct {
	mu       sync.Mutex
	original map[string]string
	current  map[string]string
}

// New captures the current environment.
func New() *Snapshot {
	original := environ()
	current := make(map[string]string, len(original))
	for k, v := range original {
		current[k] = v
	}
	return &Snapshot{original: original, current: current}
}

func environ() map[string]string {
	env := os.Environ()
	out := make(map[string]string, len(env))
	for _, kv := range env {
		k, v, ok := strings.Cut(kv, "=")
		// Windows keeps per-drive entries such as "=C:"
		if !ok || k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// SetValue sets key to value in the environment. An empty value unsets
// the key.
func (s *Snapshot) SetValue(key, value string) error {
	if key == "" || strings.ContainsRune(key, '=') {
		return fmt.Errorf("invalid property name %q: %w", key, unit.ErrIllegalArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if value == "" {
		delete(s.current, key)
		logging.Debug(subsystem, "Unsetting %s", key)
		return os.Unsetenv(key)
	}
	s.current[key] = value
	logging.Debug(subsystem, "Setting %s", key)
	return os.Setenv(key, value)
}

// SetValues applies every entry of values through SetValue, in key order.
func (s *Snapshot) SetValues(values map[string]string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := s.SetValue(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// Value returns the value the snapshot last saw for key.
func (s *Snapshot) Value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.current[key]
	return v, ok
}

// Original returns the value key had when the snapshot was taken.
func (s *Snapshot) Original(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.original[key]
	return v, ok
}

// Reset restores the captured environment. Keys added since are removed.
func (s *Snapshot) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for k := range environ() {
		if _, ok := s.original[k]; ok {
			continue
		}
		if err := os.Unsetenv(k); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for k, v := range s.original {
		if err := os.Setenv(k, v); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.current = make(map[string]string, len(s.original))
	for k, v := range s.original {
		s.current[k] = v
	}
	if firstErr != nil {
		logging.Error(subsystem, firstErr, "Failed to restore environment")
	}
	return firstErr
}
