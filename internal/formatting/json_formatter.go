package formatting

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter provides JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{options: options}
}

// FormatSuites writes the suites as a JSON document.
func (f *JSONFormatter) FormatSuites(w io.Writer, suites []SuiteInfo) error {
	if suites == nil {
		suites = []SuiteInfo{}
	}
	_, err := fmt.Fprintln(w, f.marshal(map[string]interface{}{
		"suites": suites,
		"count":  len(suites),
	}))
	return err
}

// marshal converts data to JSON string with appropriate formatting
func (f *JSONFormatter) marshal(data interface{}) string {
	if !f.options.Quiet {
		return PrettyJSON(data)
	}

	// Compact JSON for quiet mode
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf(`{"error": "Failed to format JSON: %v"}`, err)
	}
	return string(jsonBytes)
}
