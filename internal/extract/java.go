package extract

import (
	"strings"

	"github.com/jfields/jfields/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"
)

// JavaExtractor extracts field records from a parsed Java tree.
type JavaExtractor struct {
	result *parser.ParseResult
	opts   Options
	log    *zap.Logger
}

// NewJavaExtractor creates an extractor for the given Java parse result.
func NewJavaExtractor(result *parser.ParseResult, opts Options) *JavaExtractor {
	if opts.MultiVariable == "" {
		opts.MultiVariable = MultiVariableEach
	}
	return &JavaExtractor{
		result: result,
		opts:   opts,
		log:    opts.logger(),
	}
}

// ExtractFields walks the whole tree depth-first and returns one record per
// resolved field variable, in source order. Fields of nested, local and
// anonymous classes are included. The result is never nil for a valid tree.
func (e *JavaExtractor) ExtractFields() []FieldRecord {
	fields := []FieldRecord{}
	if e.result == nil {
		return fields
	}

	e.result.WalkNodes(func(node *sitter.Node) bool {
		if node.Type() != parser.KindFieldDeclaration {
			return true
		}
		decl, ok := e.resolveDeclaration(node)
		if !ok {
			return true
		}
		for _, v := range decl.vars {
			fields = append(fields, FieldRecord{
				ID:       len(fields),
				Type:     decl.typ,
				Name:     v.name,
				Modifier: decl.modifier,
				Comment:  decl.comment,
				Line:     v.line,
			})
		}
		// Initializers may hold anonymous classes with fields of their own.
		return true
	})

	return fields
}

// declaration is a resolved field declaration before IDs are assigned.
type declaration struct {
	typ      string
	modifier Modifier
	comment  string
	vars     []variable
}

type variable struct {
	name string
	line int
}

// resolveDeclaration resolves a field_declaration node. It reports false when
// the type or every variable name is unresolved; such declarations are skipped.
func (e *JavaExtractor) resolveDeclaration(node *sitter.Node) (declaration, bool) {
	shape := e.classifyType(findChildByFieldName(node, parser.FieldType))
	typ, ok := resolveType(shape)
	if !ok {
		e.log.Debug("skipping field declaration",
			zap.String("reason", "unresolved type"),
			zap.String("shape", shapeKind(shape)),
			zap.Int("line", startLine(node)))
		return declaration{}, false
	}

	vars := e.resolveVariables(node)
	if len(vars) == 0 {
		e.log.Debug("skipping field declaration",
			zap.String("reason", "unresolved name"),
			zap.Int("line", startLine(node)))
		return declaration{}, false
	}

	return declaration{
		typ:      typ,
		modifier: e.resolveModifier(node),
		comment:  e.leadingComment(node),
		vars:     vars,
	}, true
}

// resolveVariables returns the declared variable names according to the
// multi-variable policy.
func (e *JavaExtractor) resolveVariables(node *sitter.Node) []variable {
	declarators := findChildrenByType(node, parser.KindVariableDeclarator)
	if e.opts.MultiVariable == MultiVariableFirst && len(declarators) > 1 {
		declarators = declarators[:1]
	}

	vars := make([]variable, 0, len(declarators))
	for _, d := range declarators {
		nameNode := findChildByFieldName(d, parser.FieldName)
		if nameNode == nil {
			continue
		}
		name := e.nodeText(nameNode)
		if name == "" {
			continue
		}
		vars = append(vars, variable{name: name, line: startLine(nameNode)})
	}
	return vars
}

// resolveModifier returns the first access modifier keyword in source order.
// Other modifiers and annotations are ignored.
func (e *JavaExtractor) resolveModifier(node *sitter.Node) Modifier {
	mods := findChildByType(node, parser.KindModifiers)
	if mods == nil {
		return ModifierNone
	}

	for i := 0; i < int(mods.ChildCount()); i++ {
		switch m := Modifier(mods.Child(i).Type()); m {
		case ModifierPrivate, ModifierProtected, ModifierPublic:
			return m
		}
	}
	return ModifierNone
}

// leadingComment normalizes the comments leading node. A run of line
// comments becomes one space-joined string.
func (e *JavaExtractor) leadingComment(node *sitter.Node) string {
	var parts []string
	for _, c := range e.result.LeadingComments(node) {
		if text := NormalizeComment(e.nodeText(c)); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// nodeText returns the source text for a node.
func (e *JavaExtractor) nodeText(node *sitter.Node) string {
	return e.result.NodeText(node)
}
