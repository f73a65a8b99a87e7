// Package mcp provides an MCP (Model Context Protocol) server for jfields.
// Agents call the extraction tools instead of shelling out to the CLI.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jfields/jfields/internal/cache"
	"github.com/jfields/jfields/internal/extract"
	"github.com/jfields/jfields/internal/source"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const (
	// ToolExtract extracts fields from Java source text
	ToolExtract = "jfields_extract"
	// ToolExtractFile extracts fields from a file or directory on disk
	ToolExtractFile = "jfields_extract_file"
)

// Server wraps the MCP server with jfields-specific functionality
type Server struct {
	mcpServer    *server.MCPServer
	opts         extract.Options
	loader       *source.Loader
	cache        *cache.Cache
	log          *zap.Logger
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	// checkEvery is how often the idle timeout is checked
	checkEvery time.Duration
	mu         sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Tools   []string      // Which tools to expose (empty = all)
	Timeout time.Duration // Inactivity timeout (0 = no timeout)
	Version string

	// Extract holds the default extraction options; a call may override
	// the multi-variable policy.
	Extract extract.Options
	Source  source.Options
	// Cache is optional.
	Cache  *cache.Cache
	Logger *zap.Logger
}

// AllTools lists all available tools
var AllTools = []string{ToolExtract, ToolExtractFile}

// New creates a new MCP server
func New(cfg Config) (*Server, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Source.Logger == nil {
		cfg.Source.Logger = log
	}
	cfg.Extract.Logger = log

	mcpServer := server.NewMCPServer(
		"jfields",
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		opts:         cfg.Extract,
		loader:       source.NewLoader(cfg.Source),
		cache:        cfg.Cache,
		log:          log,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
		checkEvery:   30 * time.Second,
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = AllTools
	}

	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	switch name {
	case ToolExtract:
		s.mcpServer.AddTool(mcp.NewTool(ToolExtract,
			mcp.WithDescription(toolSchemaRegistry[ToolExtract].Description),
			mcp.WithString("source",
				mcp.Required(),
				mcp.Description("Java source text of one compilation unit"),
			),
			mcp.WithString("multi_variable",
				mcp.Description("Records per multi-variable declaration: each (default) or first"),
			),
		), s.handleExtract)
		return nil
	case ToolExtractFile:
		s.mcpServer.AddTool(mcp.NewTool(ToolExtractFile,
			mcp.WithDescription(toolSchemaRegistry[ToolExtractFile].Description),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description("Java file or directory to extract from"),
			),
			mcp.WithString("multi_variable",
				mcp.Description("Records per multi-variable declaration: each (default) or first"),
			),
		), s.handleExtractFile)
		return nil
	default:
		return fmt.Errorf("unknown tool: %s", name)
	}
}

// ServeStdio serves on stdin and stdout until ctx is done, stdin closes or
// the inactivity timeout passes. The last two return nil.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve is ServeStdio over arbitrary streams.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	idle := make(chan struct{})
	if s.timeout > 0 {
		go s.timeoutChecker(ctx, cancel, idle)
	}

	err := server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
	select {
	case <-idle:
		return nil
	default:
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// timeoutChecker cancels the serve context once the server has been idle
// longer than the timeout, closing idle first.
func (s *Server) timeoutChecker(ctx context.Context, cancel context.CancelFunc, idle chan<- struct{}) {
	ticker := time.NewTicker(s.checkEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.idleFor() > s.timeout {
				s.log.Info("shutting down after inactivity", zap.Duration("timeout", s.timeout))
				close(idle)
				cancel()
				return
			}
		}
	}
}

// idleFor returns the time since the last tool call
func (s *Server) idleFor() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Since(s.lastActivity)
}

// updateActivity updates the last activity timestamp
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// ListTools returns the list of registered tools
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	return tools
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// toolSchemaRegistry mirrors the mcp.NewTool definitions in registerTool.
var toolSchemaRegistry = map[string]ToolSchema{
	ToolExtract: {
		Name:        ToolExtract,
		Description: "Extract field declarations (type, name, access modifier, leading comment) from Java source text. Returns JSON records in source order.",
		Parameters: []ParameterSchema{
			{Name: "source", Type: "string", Description: "Java source text of one compilation unit", Required: true},
			{Name: "multi_variable", Type: "string", Description: "Records per multi-variable declaration: each (default) or first"},
		},
	},
	ToolExtractFile: {
		Name:        ToolExtractFile,
		Description: "Extract field declarations from a Java file or every .java file under a directory. Returns one JSON result per file.",
		Parameters: []ParameterSchema{
			{Name: "path", Type: "string", Description: "Java file or directory to extract from", Required: true},
			{Name: "multi_variable", Type: "string", Description: "Records per multi-variable declaration: each (default) or first"},
		},
	},
}

// GetToolSchemas returns schemas for all registered tools.
func (s *Server) GetToolSchemas() []ToolSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schemas := make([]ToolSchema, 0, len(s.tools))
	for name := range s.tools {
		if schema, ok := toolSchemaRegistry[name]; ok {
			schemas = append(schemas, schema)
		}
	}
	return schemas
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the JSON result string or an error.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", fmt.Errorf("unknown tool: %s", name)
	}

	opts, err := s.callOptions(args)
	if err != nil {
		return "", err
	}

	switch name {
	case ToolExtract:
		src, _ := args["source"].(string)
		if src == "" {
			return "", fmt.Errorf("source parameter is required")
		}
		return s.executeExtract(ctx, src, opts)

	case ToolExtractFile:
		path, _ := args["path"].(string)
		if path == "" {
			return "", fmt.Errorf("path parameter is required")
		}
		return s.executeExtractFile(ctx, path, opts)

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// callOptions applies a per-call multi_variable override.
func (s *Server) callOptions(args map[string]interface{}) (extract.Options, error) {
	opts := s.opts
	if mv, ok := args["multi_variable"].(string); ok && mv != "" {
		policy, err := extract.ParseMultiVariable(mv)
		if err != nil {
			return opts, err
		}
		opts.MultiVariable = policy
	}
	return opts, nil
}

// Tool handlers

func (s *Server) handleExtract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handle(ctx, ToolExtract, req)
}

func (s *Server) handleExtractFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.handle(ctx, ToolExtractFile, req)
}

func (s *Server) handle(ctx context.Context, name string, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	result, err := s.CallTool(ctx, name, req.GetArguments())
	if err != nil {
		s.log.Debug("tool call failed", zap.String("tool", name), zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result), nil
}

// executeExtract returns the field records of src as JSON. A parse failure
// is an error so the client sees a tool error rather than an empty list.
func (s *Server) executeExtract(ctx context.Context, src string, opts extract.Options) (string, error) {
	fields, err := s.extract(ctx, []byte(src), opts)
	if err != nil {
		return "", err
	}
	return toJSON(fields)
}

// executeExtractFile returns one result per loaded file as JSON. Files that
// fail to parse are reported inside their result.
func (s *Server) executeExtractFile(ctx context.Context, path string, opts extract.Options) (string, error) {
	if path == source.StdinPath {
		return "", fmt.Errorf("path must name a file or directory")
	}

	inputs, err := s.loader.Load([]string{path}, nil)
	if err != nil {
		return "", err
	}

	results := make([]extract.Result, 0, len(inputs))
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		r := extract.Result{Path: in.Path}
		fields, err := s.extract(ctx, in.Content, opts)
		if err != nil && ctx.Err() != nil {
			return "", ctx.Err()
		}
		if err != nil {
			r.Fields = []extract.FieldRecord{}
			r.Error = err.Error()
		} else {
			r.Fields = fields
		}
		results = append(results, r)
	}
	return toJSON(results)
}

// extract consults the cache before parsing. Parse failures are not cached.
func (s *Server) extract(ctx context.Context, src []byte, opts extract.Options) ([]extract.FieldRecord, error) {
	var key string
	if s.cache != nil {
		key = cache.Key(src, opts)
		fields, ok, err := s.cache.Get(key)
		if err != nil {
			s.log.Warn("cache lookup failed", zap.Error(err))
		} else if ok {
			return fields, nil
		}
	}

	fields, err := extract.FromSourceContext(ctx, src, opts)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(key, fields); err != nil {
			s.log.Warn("cache store failed", zap.Error(err))
		}
	}
	return fields, nil
}

func toJSON(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
