package config

import (
	"fmt"

	"github.com/jfields/jfields/internal/extract"
	"github.com/jfields/jfields/internal/output"
	"github.com/jfields/jfields/internal/source"
)

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Extract: ExtractConfig{
			MultiVariable: string(extract.MultiVariableEach),
		},
		Source: SourceConfig{
			Exclude: []string{"**/generated/**"},
		},
		Output: OutputConfig{
			Format:  string(output.DefaultFormat),
			Headers: append([]string(nil), output.DefaultHeaders...),
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults. Booleans are
// taken from loaded as is, so every boolean key defaults to false.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Extract.MultiVariable = firstNonEmpty(loaded.Extract.MultiVariable, defaults.Extract.MultiVariable)

	result.Source.Encoding = firstNonEmpty(loaded.Source.Encoding, defaults.Source.Encoding)
	if len(loaded.Source.Exclude) > 0 {
		result.Source.Exclude = loaded.Source.Exclude
	} else {
		result.Source.Exclude = defaults.Source.Exclude
	}
	result.Source.IgnoreGitignore = loaded.Source.IgnoreGitignore

	result.Output.Format = firstNonEmpty(loaded.Output.Format, defaults.Output.Format)
	if len(loaded.Output.Headers) > 0 {
		result.Output.Headers = loaded.Output.Headers
	} else {
		result.Output.Headers = defaults.Output.Headers
	}

	result.Cache.Disabled = loaded.Cache.Disabled

	return result
}

func firstNonEmpty(loaded, def string) string {
	if loaded != "" {
		return loaded
	}
	return def
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if _, err := extract.ParseMultiVariable(cfg.Extract.MultiVariable); err != nil {
		return fmt.Errorf("%w: extract.multi_variable: %v", ErrInvalidConfig, err)
	}

	if !source.ValidEncoding(cfg.Source.Encoding) {
		return fmt.Errorf("%w: source.encoding %q is not a known charset",
			ErrInvalidConfig, cfg.Source.Encoding)
	}

	if _, err := output.ParseFormat(cfg.Output.Format); err != nil {
		return fmt.Errorf("%w: output.format: %v", ErrInvalidConfig, err)
	}

	if len(cfg.Output.Headers) != len(output.DefaultHeaders) {
		return fmt.Errorf("%w: output.headers must have %d entries, got %d",
			ErrInvalidConfig, len(output.DefaultHeaders), len(cfg.Output.Headers))
	}

	return nil
}
