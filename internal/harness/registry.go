package harness

import (
	"fmt"
	"path"
	"sync"

	"testkit/pkg/unit"
)

// BuildFunc builds a fresh instance of a suite.
type BuildFunc func() (unit.Test, error)

// Entry is a registered suite.
type Entry struct {
	Name        string
	Description string
	Build       BuildFunc
}

// Registry holds suites by name, in registration order.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	byName  map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Register adds a suite. Names must be unique.
func (r *Registry) Register(name, description string, build BuildFunc) error {
	if name == "" {
		return fmt.Errorf("suite name must not be empty")
	}
	if build == nil {
		return fmt.Errorf("suite %s has no build function", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("suite %s is already registered", name)
	}
	r.byName[name] = len(r.entries)
	r.entries = append(r.entries, Entry{Name: name, Description: description, Build: build})
	return nil
}

// Get returns the suite registered under name.
func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byName[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Entries returns every registered suite.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Select returns the suites whose name matches any of the glob patterns, in
// registration order. No patterns selects everything. A pattern that matches
// nothing is an error.
func (r *Registry) Select(patterns []string) ([]Entry, error) {
	entries := r.Entries()
	if len(patterns) == 0 {
		return entries, nil
	}

	matched := make([]bool, len(entries))
	for _, p := range patterns {
		hit := false
		for i, e := range entries {
			ok, err := path.Match(p, e.Name)
			if err != nil {
				return nil, fmt.Errorf("invalid suite pattern %q: %w", p, err)
			}
			if ok {
				matched[i] = true
				hit = true
			}
		}
		if !hit {
			return nil, fmt.Errorf("no suite matches %q", p)
		}
	}

	var out []Entry
	for i, e := range entries {
		if matched[i] {
			out = append(out, e)
		}
	}
	return out, nil
}
