// Package parser provides tree-sitter based parsing of Java source.
//
// The parser package wraps the tree-sitter library and its Java grammar to
// produce a concrete syntax tree. Besides the raw tree it answers the two
// questions the field extractor needs from a parser: whether the source was
// grammatical, and which comment leads a given declaration.
package parser

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parser wraps tree-sitter for Java parsing.
// A Parser is not safe for concurrent use; create one per goroutine.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed syntax tree and metadata.
type ParseResult struct {
	// Tree is the complete tree-sitter parse tree.
	Tree *sitter.Tree
	// Root is the root node of the tree.
	Root *sitter.Node
	// Source is the original source code that was parsed.
	Source []byte
}

// NewParser creates a parser configured for Java.
func NewParser() *Parser {
	return &Parser{parser: newJavaParser()}
}

// Parse parses source code and returns the syntax tree.
// Source that violates the Java grammar yields a *ParseError and no result.
func (p *Parser) Parse(source []byte) (*ParseResult, error) {
	return p.ParseContext(context.Background(), source)
}

// ParseContext is Parse with cancellation. A cancelled or expired ctx yields
// ctx.Err(), never a *ParseError.
func (p *Parser) ParseContext(ctx context.Context, source []byte) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ParseError{
			Message: err.Error(),
		}
	}

	result := &ParseResult{
		Tree:   tree,
		Root:   tree.RootNode(),
		Source: source,
	}

	if bad := result.FirstError(); bad != nil {
		pos := bad.StartPoint()
		perr := &ParseError{
			Message: describeError(bad, source),
			Line:    pos.Row + 1,
			Column:  pos.Column + 1,
		}
		result.Close()
		return nil, perr
	}

	return result, nil
}

// Close releases parser resources.
// After calling Close, the parser should not be used.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
}

// Close releases the parse tree resources.
func (r *ParseResult) Close() {
	if r.Tree != nil {
		r.Tree.Close()
		r.Tree = nil
		r.Root = nil
	}
}

// HasErrors returns true if the parse tree contains syntax errors.
func (r *ParseResult) HasErrors() bool {
	if r.Root == nil {
		return false
	}
	return r.Root.HasError()
}

// FirstError returns the first ERROR or MISSING node in source order,
// or nil when the tree is error free.
func (r *ParseResult) FirstError() *sitter.Node {
	if !r.HasErrors() {
		return nil
	}
	return firstError(r.Root)
}

// firstError only descends into subtrees that report an error.
func firstError(node *sitter.Node) *sitter.Node {
	if node.Type() == KindError || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !child.HasError() {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}

// WalkNodes traverses the tree depth-first, calling the visitor function
// for each node. If the visitor returns false, traversal stops.
func (r *ParseResult) WalkNodes(visitor func(*sitter.Node) bool) {
	if r.Root == nil {
		return
	}
	walkNode(r.Root, visitor)
}

// walkNode is a helper for depth-first traversal.
func walkNode(node *sitter.Node, visitor func(*sitter.Node) bool) bool {
	if !visitor(node) {
		return false
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if !walkNode(node.Child(i), visitor) {
			return false
		}
	}
	return true
}

// FindNodes returns all nodes matching the given predicate.
func (r *ParseResult) FindNodes(predicate func(*sitter.Node) bool) []*sitter.Node {
	var nodes []*sitter.Node
	r.WalkNodes(func(node *sitter.Node) bool {
		if predicate(node) {
			nodes = append(nodes, node)
		}
		return true
	})
	return nodes
}

// FindNodesByType returns all nodes of the specified type.
func (r *ParseResult) FindNodesByType(nodeType string) []*sitter.Node {
	return r.FindNodes(func(node *sitter.Node) bool {
		return node.Type() == nodeType
	})
}

// NodeText returns the source text for a node.
func (r *ParseResult) NodeText(node *sitter.Node) string {
	if node == nil || r.Source == nil {
		return ""
	}
	return node.Content(r.Source)
}

// LeadingComments returns the comment nodes that lead node, in source
// order, or nil.
//
// The comment siblings directly before node form a run. A comment that starts
// on the line where the previous named sibling ends is that sibling's
// trailing comment and is not part of the run. Within the run the nearest
// /** comment wins. Without one the nearest comment is used, and when it is a
// // comment the line comments on the consecutive lines above it join it.
func (r *ParseResult) LeadingComments(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}

	// nearest first
	var run []*sitter.Node
	prev := node.PrevSibling()
	for prev != nil && IsComment(prev) {
		run = append(run, prev)
		prev = prev.PrevSibling()
	}
	if n := len(run); n > 0 && prev != nil && prev.IsNamed() &&
		run[n-1].StartPoint().Row == prev.EndPoint().Row {
		run = run[:n-1]
	}
	if len(run) == 0 {
		return nil
	}

	for _, c := range run {
		if r.isDocComment(c) {
			return []*sitter.Node{c}
		}
	}

	if !r.isLineComment(run[0]) {
		return run[:1]
	}
	end := 1
	for end < len(run) && r.isLineComment(run[end]) &&
		run[end].StartPoint().Row+1 == run[end-1].StartPoint().Row {
		end++
	}

	lines := make([]*sitter.Node, end)
	for i := range lines {
		lines[i] = run[end-1-i]
	}
	return lines
}

// isDocComment reports whether c is a /** */ comment. The empty /**/ is not.
func (r *ParseResult) isDocComment(c *sitter.Node) bool {
	text := r.NodeText(c)
	return strings.HasPrefix(text, "/**") && text != "/**/"
}

func (r *ParseResult) isLineComment(c *sitter.Node) bool {
	return strings.HasPrefix(r.NodeText(c), "//")
}
