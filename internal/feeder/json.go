package feeder

import (
	"encoding/json"
	"fmt"
	"os"
)

// NewJSONFeeder reads a JSON file containing an array of flat objects and
// serves them round-robin. Non-string values are stringified.
func NewJSONFeeder(path string) (Feeder, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open JSON file: %w", err)
	}
	defer file.Close()

	var raw []map[string]any
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("JSON file contains an empty array")
	}

	records, err := stringifyRecords(raw)
	if err != nil {
		return nil, err
	}
	return newRing(records), nil
}

func stringifyRecords(raw []map[string]any) ([]Record, error) {
	records := make([]Record, 0, len(raw))
	for i, entry := range raw {
		if len(entry) == 0 {
			return nil, fmt.Errorf("record %d is empty", i)
		}
		record := make(Record, len(entry))
		for key, value := range entry {
			record[key] = fmt.Sprintf("%v", value)
		}
		records = append(records, record)
	}
	return records, nil
}
