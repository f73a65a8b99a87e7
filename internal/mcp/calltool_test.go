package mcp

import (
	"sort"
	"testing"
)

func TestGetToolSchemas(t *testing.T) {
	for _, name := range AllTools {
		schema, ok := toolSchemaRegistry[name]
		if !ok {
			t.Errorf("toolSchemaRegistry missing tool: %s", name)
			continue
		}
		if schema.Name != name {
			t.Errorf("schema name mismatch: got %q, want %q", schema.Name, name)
		}
		if schema.Description == "" {
			t.Errorf("tool %s has empty description", name)
		}
	}
}

func TestToolSchemaParameters(t *testing.T) {
	tests := []struct {
		tool          string
		requiredParam string
		optionalParam string
	}{
		{ToolExtract, "source", "multi_variable"},
		{ToolExtractFile, "path", "multi_variable"},
	}

	for _, tt := range tests {
		schema, ok := toolSchemaRegistry[tt.tool]
		if !ok {
			t.Fatalf("missing tool: %s", tt.tool)
		}

		params := map[string]ParameterSchema{}
		for _, p := range schema.Parameters {
			params[p.Name] = p
		}

		if p, ok := params[tt.requiredParam]; !ok || !p.Required {
			t.Errorf("tool %s param %s should be present and required", tt.tool, tt.requiredParam)
		}
		if p, ok := params[tt.optionalParam]; !ok || p.Required {
			t.Errorf("tool %s param %s should be present and optional", tt.tool, tt.optionalParam)
		}
	}
}

func TestAllToolsMatchesRegistry(t *testing.T) {
	registryNames := make([]string, 0, len(toolSchemaRegistry))
	for name := range toolSchemaRegistry {
		registryNames = append(registryNames, name)
	}
	sort.Strings(registryNames)

	allToolsCopy := make([]string, len(AllTools))
	copy(allToolsCopy, AllTools)
	sort.Strings(allToolsCopy)

	if len(registryNames) != len(allToolsCopy) {
		t.Fatalf("schema registry has %d tools, AllTools has %d", len(registryNames), len(allToolsCopy))
	}
	for i, name := range registryNames {
		if name != allToolsCopy[i] {
			t.Errorf("mismatch at index %d: registry=%s, AllTools=%s", i, name, allToolsCopy[i])
		}
	}
}
