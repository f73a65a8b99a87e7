package cmd

import (
	"fmt"

	"github.com/jfields/jfields/internal/cache"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// cacheCmd groups cache maintenance commands
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the extraction cache",
	Long: `Inspect or clear the extraction cache in .jfields/cache.db.

The cache maps source content and extraction options to field records, and
keeps the file index used by 'extract --changed'.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached extractions and file index entries",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

// requireCache opens the project cache or explains how to create one.
func requireCache() (*cache.Cache, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	c, err := cfg.openCache()
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("no .jfields directory found: run 'jfields init' first")
	}
	return c, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	c, err := requireCache()
	if err != nil {
		return err
	}
	defer closeCache(c)

	stats, err := c.GetStats()
	if err != nil {
		return err
	}

	out := map[string]interface{}{
		"path":        c.Path(),
		"extractions": stats.ExtractionCount,
		"files":       stats.FileIndexCount,
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(out)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c, err := requireCache()
	if err != nil {
		return err
	}
	defer closeCache(c)

	if err := c.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
	return nil
}
