package mcp

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jfields/jfields/internal/cache"
	"github.com/jfields/jfields/internal/extract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fooSource = `public class Foo {
  /** The identifier. */
  private int id;
  protected String name;
  double score;
  int x, y;
}
`

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestNew(t *testing.T) {
	s := newTestServer(t, Config{})
	assert.ElementsMatch(t, AllTools, s.ListTools())
	assert.Len(t, s.GetToolSchemas(), len(AllTools))

	only := newTestServer(t, Config{Tools: []string{ToolExtract}})
	assert.Equal(t, []string{ToolExtract}, only.ListTools())

	_, err := New(Config{Tools: []string{"jfields_unknown"}})
	assert.Error(t, err)
}

func TestCallTool_Extract(t *testing.T) {
	s := newTestServer(t, Config{})

	out, err := s.CallTool(context.Background(), ToolExtract, map[string]any{"source": fooSource})
	require.NoError(t, err)

	var fields []extract.FieldRecord
	require.NoError(t, json.Unmarshal([]byte(out), &fields))
	require.Len(t, fields, 5)
	assert.Equal(t, extract.FieldRecord{ID: 0, Type: "int", Name: "id", Modifier: extract.ModifierPrivate, Comment: "The identifier.", Line: 3}, fields[0])
	assert.Equal(t, "y", fields[4].Name)
}

func TestCallTool_MultiVariableOverride(t *testing.T) {
	s := newTestServer(t, Config{})

	out, err := s.CallTool(context.Background(), ToolExtract, map[string]any{
		"source":         fooSource,
		"multi_variable": "first",
	})
	require.NoError(t, err)

	var fields []extract.FieldRecord
	require.NoError(t, json.Unmarshal([]byte(out), &fields))
	assert.Len(t, fields, 4)

	_, err = s.CallTool(context.Background(), ToolExtract, map[string]any{
		"source":         fooSource,
		"multi_variable": "some",
	})
	assert.Error(t, err)
}

func TestCallTool_Errors(t *testing.T) {
	s := newTestServer(t, Config{Tools: []string{ToolExtract}})
	ctx := context.Background()

	_, err := s.CallTool(ctx, ToolExtract, map[string]any{})
	assert.ErrorContains(t, err, "source parameter is required")

	_, err = s.CallTool(ctx, ToolExtract, map[string]any{"source": "class Broken { private int = ; }"})
	assert.ErrorContains(t, err, "syntax error")

	_, err = s.CallTool(ctx, ToolExtractFile, map[string]any{"path": "."})
	assert.ErrorContains(t, err, "unknown tool")
}

func TestHandleExtract(t *testing.T) {
	s := newTestServer(t, Config{})

	res, err := s.handleExtract(context.Background(), callRequest(ToolExtract, map[string]any{"source": fooSource}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"name": "id"`)

	res, err = s.handleExtract(context.Background(), callRequest(ToolExtract, map[string]any{"source": "class {"}))
	require.NoError(t, err, "parse failures are tool errors, not protocol errors")
	assert.True(t, res.IsError)
}

func TestHandleExtractFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Foo.java"), []byte(fooSource), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Broken.java"), []byte("class Broken {"), 0644))

	s := newTestServer(t, Config{})
	res, err := s.handleExtractFile(context.Background(), callRequest(ToolExtractFile, map[string]any{"path": dir}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var results []extract.Result
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &results))
	require.Len(t, results, 2)

	assert.Equal(t, filepath.Join(dir, "Broken.java"), results[0].Path)
	assert.True(t, results[0].Failed())
	assert.Empty(t, results[0].Fields)

	assert.Equal(t, filepath.Join(dir, "Foo.java"), results[1].Path)
	assert.Len(t, results[1].Fields, 5)
}

func TestExtractUsesCache(t *testing.T) {
	c, err := cache.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	s := newTestServer(t, Config{Cache: c, Extract: extract.DefaultOptions()})
	ctx := context.Background()

	_, err = s.CallTool(ctx, ToolExtract, map[string]any{"source": fooSource})
	require.NoError(t, err)

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.ExtractionCount)

	// A poisoned entry proves the second call is served from the cache.
	key := cache.Key([]byte(fooSource), extract.DefaultOptions())
	require.NoError(t, c.Put(key, []extract.FieldRecord{{Type: "int", Name: "cached"}}))

	out, err := s.CallTool(ctx, ToolExtract, map[string]any{"source": fooSource})
	require.NoError(t, err)
	assert.Contains(t, out, `"cached"`)

	_, err = s.CallTool(ctx, ToolExtract, map[string]any{"source": "class {"})
	require.Error(t, err)
	stats, err = c.GetStats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.ExtractionCount, "parse failures are not cached")
}

func serveAsync(s *Server, ctx context.Context, in io.Reader) <-chan error {
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, in, io.Discard) }()
	return done
}

func waitServe(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
		return nil
	}
}

func TestServeStopsWhenIdle(t *testing.T) {
	s, err := New(Config{Timeout: 20 * time.Millisecond})
	require.NoError(t, err)
	s.checkEvery = 5 * time.Millisecond

	in, w := io.Pipe()
	defer w.Close()

	assert.NoError(t, waitServe(t, serveAsync(s, context.Background(), in)),
		"idle shutdown returns normally so callers run their cleanup")
}

func TestServeEndsOnEOF(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)

	assert.NoError(t, waitServe(t, serveAsync(s, context.Background(), strings.NewReader(""))))
}

func TestServeHonorsCancel(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)

	in, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := serveAsync(s, ctx, in)
	cancel()

	assert.ErrorIs(t, waitServe(t, done), context.Canceled)
}
