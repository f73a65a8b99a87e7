package extract

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MultiVariable selects how declarations such as `int a, b;` are reported.
type MultiVariable string

const (
	// MultiVariableEach emits one record per declared variable, all sharing
	// the declaration's type, modifier and comment.
	MultiVariableEach MultiVariable = "each"
	// MultiVariableFirst emits a record for the first variable only.
	MultiVariableFirst MultiVariable = "first"
)

// ParseMultiVariable parses a policy name (case-insensitive).
func ParseMultiVariable(s string) (MultiVariable, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "each", "":
		return MultiVariableEach, nil
	case "first":
		return MultiVariableFirst, nil
	default:
		return "", fmt.Errorf("invalid multi-variable policy: %q (expected each or first)", s)
	}
}

// Options controls field extraction.
type Options struct {
	MultiVariable MultiVariable
	// Logger receives debug output about skipped declarations. Nil disables it.
	Logger *zap.Logger
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{MultiVariable: MultiVariableEach}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
