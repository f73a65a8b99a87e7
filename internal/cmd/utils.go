package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jfields/jfields/internal/cache"
	"github.com/jfields/jfields/internal/config"
	"github.com/jfields/jfields/internal/output"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Shared helpers for command implementations

// projectConfig is the loaded configuration and where it came from.
type projectConfig struct {
	*config.Config
	// dir is the .jfields directory, empty when none was found
	dir string
	// fromFile is true when a config file was read
	fromFile bool
}

// loadConfig loads --config if given, otherwise the nearest
// .jfields/config.yaml above the working directory, otherwise defaults.
func loadConfig() (*projectConfig, error) {
	if configPath != "" {
		cfg, err := config.LoadFromPath(configPath)
		if err != nil {
			return nil, err
		}
		_, statErr := os.Stat(configPath)
		return &projectConfig{Config: cfg, dir: filepath.Dir(configPath), fromFile: statErr == nil}, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	dir, err := config.FindConfigDir(cwd)
	if errors.Is(err, config.ErrConfigNotFound) {
		return &projectConfig{Config: config.DefaultConfig()}, nil
	}
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, config.ConfigFileName)
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(path)
	return &projectConfig{Config: cfg, dir: dir, fromFile: statErr == nil}, nil
}

// openCache opens the cache in the project's .jfields directory.
// It returns nil without error when there is no such directory.
func (p *projectConfig) openCache() (*cache.Cache, error) {
	if p.dir == "" {
		logger.Debug("no .jfields directory, cache unavailable")
		return nil, nil
	}
	return cache.Open(p.dir)
}

// resolveFormat picks the output format: the --format flag, then a format
// from a config file, then table on a terminal, then yaml.
func resolveFormat(p *projectConfig, w io.Writer) (output.Format, error) {
	if outputFormat != "" {
		return output.ParseFormat(outputFormat)
	}
	if p.fromFile {
		return output.ParseFormat(p.Output.Format)
	}
	if isTerminal(w) {
		return output.FormatTable, nil
	}
	return output.DefaultFormat, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// closeCache closes c if it is open, logging failures.
func closeCache(c *cache.Cache) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logger.Warn("closing cache", zap.Error(err))
	}
}
