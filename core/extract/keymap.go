package extract

import (
	"github.com/CaddyGlow/zmk-layout/core/ast"
	"github.com/CaddyGlow/zmk-layout/core/binding"
	zmkerrors "github.com/CaddyGlow/zmk-layout/core/errors"
)

// extractKeymap finds the node compatible with "zmk,keymap" and lowers each
// of its children into an ordered (layerNames, layers) pair, preserving
// source order.
func extractKeymap(w *Walker, compatible string, defines Defines) ([]string, [][]binding.Binding, *zmkerrors.Error) {
	nodes := w.FindNodesCompatible(compatible)
	if len(nodes) == 0 {
		return nil, nil, zmkerrors.New(zmkerrors.Extract, "no node compatible with \""+compatible+"\" found")
	}
	keymap := nodes[0]

	var names []string
	var layers [][]binding.Binding
	for _, layerNode := range keymap.Children {
		names = append(names, layerName(layerNode))
		layers = append(layers, expandBindingsProperty(layerNode.Property("bindings"), defines))
	}
	return names, layers, nil
}

func layerName(n *ast.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return n.Name
}
