package output

import (
	"fmt"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatYAML is the default structured output
	FormatYAML Format = "yaml"

	// FormatJSON is the JSON output format
	FormatJSON Format = "json"

	// FormatTSV is tab-separated values with a header row
	FormatTSV Format = "tsv"

	// FormatTable is a bordered terminal table
	FormatTable Format = "table"
)

// DefaultFormat is the default output format when none is specified.
const DefaultFormat = FormatYAML

// ParseFormat parses a format string into a Format value.
// Accepts: "yaml", "json", "tsv", "table" (case-insensitive)
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatYAML, FormatJSON, FormatTSV, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %q (expected yaml, json, tsv, or table)", s)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}
