package extract

import "github.com/CaddyGlow/zmk-layout/core/ast"

// Walker performs depth-first traversal and lookup over a set of AST roots.
type Walker struct {
	roots []*ast.Node
}

// NewWalker creates a Walker over the given root nodes.
func NewWalker(roots []*ast.Node) *Walker {
	return &Walker{roots: roots}
}

// FindNodesWhere returns every node, in source order, for which predicate
// returns true.
func (w *Walker) FindNodesWhere(predicate func(*ast.Node) bool) []*ast.Node {
	var out []*ast.Node
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if predicate(n) {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range w.roots {
		walk(r)
	}
	return out
}

// FindNodesNamed returns every node whose Name matches exactly.
func (w *Walker) FindNodesNamed(name string) []*ast.Node {
	return w.FindNodesWhere(func(n *ast.Node) bool { return n.Name == name })
}

// FindNodesCompatible returns every node whose "compatible" property's
// first string value matches exactly.
func (w *Walker) FindNodesCompatible(compatible string) []*ast.Node {
	return w.FindNodesWhere(func(n *ast.Node) bool { return n.Compatible() == compatible })
}
