package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jfields/jfields/internal/extract"
	"gopkg.in/yaml.v3"
)

// DefaultHeaders are the tabular column labels in column order.
var DefaultHeaders = []string{"Modifier", "Name", "Type", "Comment"}

// Options configures formatters.
type Options struct {
	// Headers labels the modifier, name, type and comment columns.
	// Nil means DefaultHeaders.
	Headers []string
}

func (o Options) headers() []string {
	if len(o.Headers) != len(DefaultHeaders) {
		return DefaultHeaders
	}
	return o.Headers
}

// Formatter is the interface for rendering extraction results.
type Formatter interface {
	// Format renders results and returns the output as a string.
	Format(results []extract.Result) (string, error)

	// FormatToWriter writes rendered output directly to a writer.
	FormatToWriter(w io.Writer, results []extract.Result) error
}

// GetFormatter returns the formatter for format.
func GetFormatter(format Format, opts Options) (Formatter, error) {
	switch format {
	case FormatYAML, "":
		return NewYAMLFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatTSV:
		return NewTSVFormatter(opts), nil
	case FormatTable:
		return NewTableFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}

// formatString adapts a FormatToWriter implementation to Format.
func formatString(f Formatter, results []extract.Result) (string, error) {
	var buf bytes.Buffer
	if err := f.FormatToWriter(&buf, results); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// normalize replaces a nil slice so YAML and JSON print an empty list.
func normalize(results []extract.Result) []extract.Result {
	if results == nil {
		return []extract.Result{}
	}
	return results
}

// YAMLFormatter formats results as YAML output.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format formats results as YAML.
func (f *YAMLFormatter) Format(results []extract.Result) (string, error) {
	return formatString(f, results)
}

// FormatToWriter writes YAML output to a writer.
func (f *YAMLFormatter) FormatToWriter(w io.Writer, results []extract.Result) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(normalize(results))
}

// JSONFormatter formats results as JSON output.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format formats results as JSON.
func (f *JSONFormatter) Format(results []extract.Result) (string, error) {
	return formatString(f, results)
}

// FormatToWriter writes JSON output to a writer.
func (f *JSONFormatter) FormatToWriter(w io.Writer, results []extract.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(normalize(results))
}
