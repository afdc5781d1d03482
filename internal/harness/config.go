package harness

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultTimeout bounds a run when the configuration does not.
	DefaultTimeout = 5 * time.Minute
	// DefaultParallel is the default number of concurrently running suites.
	DefaultParallel = 1
)

// DefaultConfiguration returns the configuration used when no file is given.
func DefaultConfiguration() Configuration {
	return Configuration{
		Timeout:  DefaultTimeout,
		Parallel: DefaultParallel,
		Output:   OutputText,
	}
}

// LoadConfiguration reads a YAML configuration file on top of the defaults.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse configuration %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the runner cannot use.
func (c Configuration) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.Parallel < 1 {
		return fmt.Errorf("parallel must be at least 1, got %d", c.Parallel)
	}
	switch c.Output {
	case OutputText, OutputJSON, OutputQuiet:
	default:
		return fmt.Errorf("unknown output %q (want text, json or quiet)", c.Output)
	}
	for k := range c.Env {
		if k == "" {
			return fmt.Errorf("env contains an empty name")
		}
	}
	return nil
}
