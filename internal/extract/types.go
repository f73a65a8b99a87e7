package extract

import (
	"strings"

	"github.com/jfields/jfields/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// typeShape is the closed set of declared-type shapes the extractor
// understands. Anything else is unknownType.
type typeShape interface {
	isTypeShape()
}

// referenceType is a class or interface type; name is its simple name.
type referenceType struct{ name string }

// numericType is an integral or floating point primitive.
type numericType struct{ keyword string }

// booleanType is the boolean primitive.
type booleanType struct{ keyword string }

// unknownType is a type node of an unsupported kind, or no type node at all.
type unknownType struct{ kind string }

func (referenceType) isTypeShape() {}
func (numericType) isTypeShape()   {}
func (booleanType) isTypeShape()   {}
func (unknownType) isTypeShape()   {}

// classifyType maps a type node to its shape. Generic arguments and array
// dimensions are peeled off so only the outermost named type remains.
func (e *JavaExtractor) classifyType(node *sitter.Node) typeShape {
	if node == nil {
		return unknownType{}
	}

	switch node.Type() {
	case parser.KindTypeIdentifier:
		return referenceType{name: e.nodeText(node)}
	case parser.KindScopedTypeIdentifier:
		// java.util.List -> List
		return referenceType{name: e.lastTypeIdentifier(node)}
	case parser.KindGenericType:
		// List<String> -> List
		if node.NamedChildCount() == 0 {
			return unknownType{kind: node.Type()}
		}
		return e.classifyType(node.NamedChild(0))
	case parser.KindArrayType:
		return e.classifyType(findChildByFieldName(node, parser.FieldElement))
	case parser.KindIntegralType, parser.KindFloatingPointType:
		return numericType{keyword: strings.TrimSpace(e.nodeText(node))}
	case parser.KindBooleanType:
		return booleanType{keyword: strings.TrimSpace(e.nodeText(node))}
	default:
		return unknownType{kind: node.Type()}
	}
}

// lastTypeIdentifier returns the final type_identifier of a scoped type.
func (e *JavaExtractor) lastTypeIdentifier(node *sitter.Node) string {
	for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
		child := node.NamedChild(i)
		if child.Type() == parser.KindTypeIdentifier {
			return e.nodeText(child)
		}
	}
	return ""
}

// resolveType turns a shape into the captured type string.
// The final case reports "no type" so callers drop the declaration.
func resolveType(shape typeShape) (string, bool) {
	switch t := shape.(type) {
	case referenceType:
		return t.name, t.name != ""
	case numericType:
		return t.keyword, t.keyword != ""
	case booleanType:
		return t.keyword, t.keyword != ""
	default:
		return "", false
	}
}

// shapeKind names a shape for log output.
func shapeKind(shape typeShape) string {
	switch t := shape.(type) {
	case referenceType:
		return "reference"
	case numericType:
		return "numeric"
	case booleanType:
		return "boolean"
	case unknownType:
		if t.kind == "" {
			return "missing"
		}
		return t.kind
	default:
		return "unknown"
	}
}
