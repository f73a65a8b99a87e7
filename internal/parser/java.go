package parser

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// Node kinds of the tree-sitter Java grammar consumed by this module.
const (
	KindProgram            = "program"
	KindClassBody          = "class_body"
	KindFieldDeclaration   = "field_declaration"
	KindModifiers          = "modifiers"
	KindVariableDeclarator = "variable_declarator"

	KindTypeIdentifier       = "type_identifier"
	KindScopedTypeIdentifier = "scoped_type_identifier"
	KindGenericType          = "generic_type"
	KindArrayType            = "array_type"
	KindIntegralType         = "integral_type"
	KindFloatingPointType    = "floating_point_type"
	KindBooleanType          = "boolean_type"

	KindLineComment  = "line_comment"
	KindBlockComment = "block_comment"
	// KindComment is the single comment kind of older grammar releases.
	KindComment = "comment"

	KindError = "ERROR"
)

// Grammar field names used to reach child nodes.
const (
	FieldType    = "type"
	FieldName    = "name"
	FieldElement = "element"
)

// newJavaParser creates a tree-sitter parser configured for Java.
func newJavaParser() *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	return parser
}

// IsComment reports whether node is a comment token.
func IsComment(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Type() {
	case KindLineComment, KindBlockComment, KindComment:
		return true
	}
	return false
}

// describeError renders a short message for an ERROR or MISSING node.
func describeError(node *sitter.Node, source []byte) string {
	if node.IsMissing() {
		return fmt.Sprintf("syntax error: missing %q", node.Type())
	}

	snippet := strings.TrimSpace(node.Content(source))
	if i := strings.IndexByte(snippet, '\n'); i >= 0 {
		snippet = snippet[:i]
	}
	snippet = truncate(snippet, 40)
	if snippet == "" {
		return "syntax error"
	}
	return fmt.Sprintf("syntax error near %q", snippet)
}

// truncate shortens s to at most max runes, ending in "..." when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
