package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jfields/jfields/internal/cache"
	"github.com/jfields/jfields/internal/config"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .jfields directory, config and cache",
	Long: `Initialize the .jfields directory in the current directory.

This writes .jfields/config.yaml with the default settings and creates the
extraction cache (.jfields/cache.db). Commands run anywhere below this
directory pick both up.

Examples:
  jfields init          # Initialize in current directory
  jfields init --force  # Rewrite config.yaml with defaults`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config.yaml with defaults")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	configDir := filepath.Join(cwd, config.ConfigDirName)
	cfgPath := filepath.Join(configDir, config.ConfigFileName)

	_, err = os.Stat(cfgPath)
	if err == nil {
		if !initForce {
			relPath, _ := filepath.Rel(cwd, configDir)
			fmt.Fprintf(out, "Already initialized at %s\n", relPath)
			return nil
		}
		if err := os.Remove(cfgPath); err != nil {
			return fmt.Errorf("removing existing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config path: %w", err)
	}

	if _, err := config.SaveDefault(cwd); err != nil {
		return err
	}

	c, err := cache.Open(configDir)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer c.Close()

	relPath, _ := filepath.Rel(cwd, configDir)
	fmt.Fprintf(out, "Initialized jfields at %s\n", relPath)
	return nil
}
