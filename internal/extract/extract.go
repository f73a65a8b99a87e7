package extract

import (
	"context"

	"github.com/jfields/jfields/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// FromSource parses Java source and extracts its fields.
// On a parse failure it returns nil records and a *parser.ParseError.
func FromSource(source []byte, opts Options) ([]FieldRecord, error) {
	return FromSourceContext(context.Background(), source, opts)
}

// FromSourceContext is FromSource with cancellation of the parse step.
func FromSourceContext(ctx context.Context, source []byte, opts Options) ([]FieldRecord, error) {
	p := parser.NewParser()
	defer p.Close()

	result, err := p.ParseContext(ctx, source)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	return ExtractFields(result, opts), nil
}

// ExtractFields returns the field records of an already parsed tree.
// It is shorthand for NewJavaExtractor(result, opts).ExtractFields().
func ExtractFields(result *parser.ParseResult, opts Options) []FieldRecord {
	return NewJavaExtractor(result, opts).ExtractFields()
}

// findChildByType finds the first child node of the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// findChildByFieldName finds the child node with the given field name.
func findChildByFieldName(node *sitter.Node, fieldName string) *sitter.Node {
	return node.ChildByFieldName(fieldName)
}

// findChildrenByType finds all direct child nodes of the given type.
func findChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var children []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			children = append(children, child)
		}
	}
	return children
}

// startLine returns the 1-based line a node starts on.
func startLine(node *sitter.Node) int {
	// tree-sitter lines are 0-based
	return int(node.StartPoint().Row) + 1
}
