package output

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jfields/jfields/internal/extract"
)

// fileHeader labels the leading column added for multi-input output.
const fileHeader = "File"

var cellReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// rows flattens successful results into cells. The file column is included
// when more than one result was given.
func rows(results []extract.Result, headers []string) ([]string, [][]string) {
	withFile := len(results) > 1

	header := headers
	if withFile {
		header = append([]string{fileHeader}, headers...)
	}

	var out [][]string
	for _, r := range results {
		if r.Failed() {
			continue
		}
		for _, f := range r.Fields {
			row := []string{string(f.Modifier), f.Name, f.Type, cellReplacer.Replace(f.Comment)}
			if withFile {
				row = append([]string{r.Path}, row...)
			}
			out = append(out, row)
		}
	}
	return header, out
}

// TSVFormatter formats results as tab-separated values.
type TSVFormatter struct {
	opts Options
}

// NewTSVFormatter creates a new TSV formatter.
func NewTSVFormatter(opts Options) *TSVFormatter {
	return &TSVFormatter{opts: opts}
}

// Format formats results as TSV.
func (f *TSVFormatter) Format(results []extract.Result) (string, error) {
	return formatString(f, results)
}

// FormatToWriter writes the header row and one row per field.
func (f *TSVFormatter) FormatToWriter(w io.Writer, results []extract.Result) error {
	header, body := rows(results, f.opts.headers())

	if _, err := io.WriteString(w, strings.Join(header, "\t")+"\n"); err != nil {
		return err
	}
	for _, row := range body {
		if _, err := io.WriteString(w, strings.Join(row, "\t")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// TableFormatter formats results as a bordered terminal table.
type TableFormatter struct {
	opts Options
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(opts Options) *TableFormatter {
	return &TableFormatter{opts: opts}
}

// Format formats results as a table.
func (f *TableFormatter) Format(results []extract.Result) (string, error) {
	return formatString(f, results)
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// FormatToWriter writes the table followed by a newline.
func (f *TableFormatter) FormatToWriter(w io.Writer, results []extract.Result) error {
	header, body := rows(results, f.opts.headers())

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(header...).
		Rows(body...)

	_, err := io.WriteString(w, t.String()+"\n")
	return err
}
