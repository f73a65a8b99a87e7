package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// helpAgentsCmd represents the help-agents command
var helpAgentsCmd = &cobra.Command{
	Use:   "help-agents",
	Short: "Output agent-optimized command reference",
	Long: `Output a concise command reference for AI agents.

Examples:
  jfields help-agents                # Markdown output (default)
  jfields help-agents --format json  # JSON output for parsing`,
	RunE: runHelpAgents,
}

func init() {
	rootCmd.AddCommand(helpAgentsCmd)
}

func runHelpAgents(cmd *cobra.Command, args []string) error {
	if outputFormat == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(agentReference())
	}
	fmt.Fprint(cmd.OutOrStdout(), agentReferenceMarkdown)
	return nil
}

type agentCommand struct {
	Purpose string   `json:"purpose"`
	Usage   string   `json:"usage"`
	Flags   []string `json:"flags,omitempty"`
}

func agentReference() map[string]interface{} {
	return map[string]interface{}{
		"version": Version,
		"purpose": "List Java field declarations (type, name, modifier, comment) without reading whole files.",
		"commands": map[string]agentCommand{
			"extract": {
				Purpose: "Fields of Java files, directories or stdin",
				Usage:   "jfields extract <path|->... --format json",
				Flags:   []string{"--format", "--multi", "--encoding", "--exclude", "--no-cache", "--changed"},
			},
			"serve": {
				Purpose: "MCP server exposing jfields_extract and jfields_extract_file",
				Usage:   "jfields serve",
				Flags:   []string{"--tools", "--timeout", "--status", "--stop", "--list-tools"},
			},
			"init": {
				Purpose: "Create .jfields/config.yaml and the cache",
				Usage:   "jfields init",
			},
			"cache": {
				Purpose: "Cache maintenance",
				Usage:   "jfields cache stats|clear",
			},
		},
		"record_fields": []string{"id", "type", "name", "modifier", "comment", "line"},
		"notes": []string{
			"modifier is empty for package-private fields",
			"type is the simple name: List<String>[] is reported as List",
			"a result with error set did not parse and has no fields",
		},
	}
}

const agentReferenceMarkdown = `# jfields Reference for AI Agents

## Extract

` + "```bash" + `
jfields extract src/main/java/com/acme/User.java --format json
jfields extract src/main/java --format tsv
cat User.java | jfields extract --format json
` + "```" + `

Each result has ` + "`path`" + `, ` + "`fields`" + ` and, when the file did not
parse, ` + "`error`" + `. Each field has ` + "`id`, `type`, `name`, `modifier`, `comment`, `line`" + `.

- ` + "`modifier`" + ` is empty for package-private fields
- ` + "`type`" + ` is the simple name: ` + "`Map<String, List<Integer>>`" + ` is ` + "`Map`" + `
- ` + "`--multi first`" + ` reports only the first variable of ` + "`int a, b;`" + `

## MCP

` + "```json" + `
{"servers":{"jfields":{"command":"jfields","args":["serve"]}}}
` + "```" + `

Tools: ` + "`jfields_extract`" + ` (source text), ` + "`jfields_extract_file`" + ` (path).
`
