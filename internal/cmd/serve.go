package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jfields/jfields/internal/cache"
	"github.com/jfields/jfields/internal/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

Agents call the extraction tools directly instead of spawning the CLI for
every file. The server uses the same config, exclude rules and cache as
'jfields extract'.

Available Tools:
  jfields_extract       Fields of Java source text
  jfields_extract_file  Fields of a Java file or directory

Examples:
  jfields serve                           # Start with all tools
  jfields serve --tools extract           # Expose jfields_extract only
  jfields serve --timeout 30m             # Auto-stop after 30 minutes idle
  jfields serve --status                  # Check if server is running
  jfields serve --stop                    # Stop running server
  jfields serve --list-tools              # Show available tools`,
	RunE: runServe,
}

var (
	serveTools     string
	serveTimeout   string
	serveStatus    bool
	serveStop      bool
	serveListTools bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveTools, "tools", "", "Comma-separated list of tools to expose (default: all)")
	serveCmd.Flags().StringVar(&serveTimeout, "timeout", "30m", "Inactivity timeout (0 for no timeout)")
	serveCmd.Flags().BoolVar(&serveStatus, "status", false, "Check if server is running")
	serveCmd.Flags().BoolVar(&serveStop, "stop", false, "Stop running server")
	serveCmd.Flags().BoolVar(&serveListTools, "list-tools", false, "List available tools")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if serveListTools {
		listTools(out)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if serveStatus {
		return checkServerStatus(out, cfg.dir)
	}
	if serveStop {
		return stopServer(out, cfg.dir)
	}

	timeout, err := parseDuration(serveTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}

	opts, err := extractOptions(cfg)
	if err != nil {
		return err
	}

	var c *cache.Cache
	if !cfg.Cache.Disabled {
		if c, err = cfg.openCache(); err != nil {
			logger.Warn("cache unavailable", zap.Error(err))
			c = nil
		}
		defer closeCache(c)
	}

	server, err := mcp.New(mcp.Config{
		Tools:   parseTools(serveTools),
		Timeout: timeout,
		Version: Version,
		Extract: opts,
		Source:  sourceOptions(cfg),
		Cache:   c,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if cfg.dir != "" {
		if err := writePIDFile(cfg.dir); err != nil {
			logger.Warn("could not write PID file", zap.Error(err))
		}
		defer removePIDFile(cfg.dir)
	}

	// stdout carries the protocol, so startup details go to the log
	logger.Info("starting MCP server",
		zap.Strings("tools", server.ListTools()),
		zap.Duration("timeout", timeout))

	err = server.ServeStdio(cmd.Context())
	if errors.Is(err, context.Canceled) {
		// interrupted; deferred cleanup still runs
		return nil
	}
	return err
}

// listTools prints every tool with its description.
func listTools(w io.Writer) {
	fmt.Fprintln(w, "Available MCP tools:")
	fmt.Fprintln(w)

	s, _ := mcp.New(mcp.Config{})
	schemas := s.GetToolSchemas()
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })
	for _, schema := range schemas {
		fmt.Fprintf(w, "  %-22s %s\n", schema.Name, schema.Description)
	}
}

// parseTools splits --tools, allowing shorthand (extract -> jfields_extract).
func parseTools(s string) []string {
	var tools []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "jfields_") {
			t = "jfields_" + t
		}
		tools = append(tools, t)
	}
	return tools
}

func parseDuration(s string) (time.Duration, error) {
	if s == "0" || s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

func pidFilePath(dir string) string {
	return filepath.Join(dir, "serve.pid")
}

func writePIDFile(dir string) error {
	return os.WriteFile(pidFilePath(dir), []byte(strconv.Itoa(os.Getpid())), 0644)
}

func removePIDFile(dir string) {
	os.Remove(pidFilePath(dir))
}

// readPID returns the PID recorded in dir, or 0 when there is none.
func readPID(dir string) int {
	if dir == "" {
		return 0
	}
	data, err := os.ReadFile(pidFilePath(dir))
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		removePIDFile(dir)
		return 0
	}
	return pid
}

func checkServerStatus(w io.Writer, dir string) error {
	if dir == "" {
		fmt.Fprintln(w, "Status: not running (jfields not initialized)")
		return nil
	}

	pid := readPID(dir)
	if pid == 0 {
		fmt.Fprintln(w, "Status: not running")
		return nil
	}

	// On Unix, FindProcess always succeeds, so signal 0 checks liveness
	process, err := os.FindProcess(pid)
	if err != nil || process.Signal(syscall.Signal(0)) != nil {
		fmt.Fprintln(w, "Status: not running (stale PID file)")
		removePIDFile(dir)
		return nil
	}

	fmt.Fprintf(w, "Status: running (PID %d)\n", pid)
	return nil
}

func stopServer(w io.Writer, dir string) error {
	if dir == "" {
		return fmt.Errorf("jfields not initialized")
	}

	pid := readPID(dir)
	if pid == 0 {
		fmt.Fprintln(w, "No server running")
		return nil
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		removePIDFile(dir)
		fmt.Fprintln(w, "No server running")
		return nil
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		removePIDFile(dir)
		fmt.Fprintln(w, "Server already stopped")
		return nil
	}

	fmt.Fprintf(w, "Stopped server (PID %d)\n", pid)
	return nil
}
