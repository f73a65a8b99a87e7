package parser

import "fmt"

// ParseError reports Java source that the grammar could not accept.
// Line and Column are 1-based and point at the first offending token;
// both are zero when tree-sitter itself failed.
type ParseError struct {
	Message string
	File    string
	Line    uint32
	Column  uint32
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}
