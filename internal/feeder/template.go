package feeder

import "strings"

// Expand replaces ${field} placeholders in the template with values from the
// record. Only fields present in the record are rewritten; unknown
// placeholders and literal dollar signs pass through verbatim.
func Expand(template string, record Record) string {
	if len(record) == 0 || !strings.Contains(template, "${") {
		return template
	}
	pairs := make([]string, 0, 2*len(record))
	for field, value := range record {
		pairs = append(pairs, "${"+field+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
