package formatting

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{options: options}
}

type suiteListing struct {
	Suites []SuiteInfo `yaml:"suites"`
	Count  int         `yaml:"count"`
}

// FormatSuites writes the suites as a YAML document.
func (f *YAMLFormatter) FormatSuites(w io.Writer, suites []SuiteInfo) error {
	if suites == nil {
		suites = []SuiteInfo{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(suiteListing{Suites: suites, Count: len(suites)}); err != nil {
		return err
	}
	return enc.Close()
}
