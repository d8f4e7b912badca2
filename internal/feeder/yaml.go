package feeder

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NewYAMLFeeder reads a YAML file containing a sequence of flat mappings and
// serves them round-robin. Non-string values are stringified.
func NewYAMLFeeder(path string) (Feeder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open YAML file: %w", err)
	}

	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("YAML file contains no records")
	}

	records, err := stringifyRecords(raw)
	if err != nil {
		return nil, err
	}
	return newRing(records), nil
}
