package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// WriteReport saves run as an indented JSON file in dir and returns the
// file path.
func WriteReport(dir string, run *RunResult) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	id := run.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	filename := fmt.Sprintf("testkit-report-%s-%s.json", run.StartTime.Format("20060102-150405"), id)
	fullPath := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return fullPath, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
