// Package output renders extraction results.
//
// # Formats
//
//   - YAML (default): a list of results, each with its path and fields
//   - JSON: the same structure as YAML
//   - TSV: a header row and one tab-separated row per field, ready to paste
//     into a spreadsheet
//   - Table: a bordered terminal table
//
// YAML and JSON keep failed inputs as results with an error message. TSV and
// table render fields only; failures are reported by the caller.
//
// # Columns
//
// Tabular formats print the columns modifier, name, type, comment in that
// order. A leading file column is added when more than one input was
// extracted. Header labels come from Options.Headers.
package output
