// Package check asserts on JSON response bodies. A failed check fails the
// transaction that produced the response.
package check

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Check is one assertion against a JSON path (gjson syntax) in a body.
// Equals and Contains compare against the value's string form; when both are
// set, both must hold.
type Check struct {
	JSONPath string
	Equals   string
	Contains string
}

// Evaluate runs the check against the body. It returns nil when the
// assertion holds.
func (c Check) Evaluate(body []byte) error {
	result := gjson.GetBytes(body, c.JSONPath)
	if !result.Exists() {
		return fmt.Errorf("check %q: path not found in response body", c.JSONPath)
	}

	value := result.String()
	if c.Equals != "" && value != c.Equals {
		return fmt.Errorf("check %q: got %q, want %q", c.JSONPath, value, c.Equals)
	}
	if c.Contains != "" && !strings.Contains(value, c.Contains) {
		return fmt.Errorf("check %q: %q does not contain %q", c.JSONPath, value, c.Contains)
	}
	return nil
}

// EvaluateAll runs every check in order and returns the first failure.
func EvaluateAll(checks []Check, body []byte) error {
	for _, c := range checks {
		if err := c.Evaluate(body); err != nil {
			return err
		}
	}
	return nil
}
