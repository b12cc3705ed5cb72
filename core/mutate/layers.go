// Package mutate implements the fluent, logically-immutable mutation
// surface over a layout.Document: every operation here returns a new
// Document value rather than editing its receiver in place.
package mutate

import (
	"fmt"

	"github.com/CaddyGlow/zmk-layout/core/binding"
	zmkerrors "github.com/CaddyGlow/zmk-layout/core/errors"
	"github.com/CaddyGlow/zmk-layout/core/layout"
)

// Transparent is the default filler binding used when a layer is
// auto-extended or padded.
var Transparent = binding.Binding{Value: "&trans"}

// clone returns a copy of d with fresh LayerNames, Layers (including each
// layer's bindings slice) and behavior slices; the behavior records' own
// slices and maps stay shared. Every mutation starts from it before
// touching the slice it actually changes.
func clone(d *layout.Document) *layout.Document {
	c := *d
	c.LayerNames = append([]string(nil), d.LayerNames...)
	c.Layers = make([][]binding.Binding, len(d.Layers))
	for i, l := range d.Layers {
		c.Layers[i] = append([]binding.Binding(nil), l...)
	}
	c.HoldTaps = append([]layout.HoldTap(nil), d.HoldTaps...)
	c.Combos = append([]layout.Combo(nil), d.Combos...)
	c.Macros = append([]layout.Macro(nil), d.Macros...)
	c.TapDances = append([]layout.TapDance(nil), d.TapDances...)
	c.StickyKeys = append([]layout.StickyKey(nil), d.StickyKeys...)
	c.CapsWords = append([]layout.CapsWord(nil), d.CapsWords...)
	c.ModMorphs = append([]layout.ModMorph(nil), d.ModMorphs...)
	c.InputListeners = append([]layout.InputListener(nil), d.InputListeners...)
	return &c
}

func indexOfLayer(d *layout.Document, name string) int {
	for i, n := range d.LayerNames {
		if n == name {
			return i
		}
	}
	return -1
}

// AddLayer appends a new empty layer, or inserts it at pos when pos >= 0.
func AddLayer(d *layout.Document, name string, pos int) (*layout.Document, error) {
	if indexOfLayer(d, name) >= 0 {
		return d, zmkerrors.New(zmkerrors.LayerAlreadyExists, fmt.Sprintf("layer %q already exists", name))
	}
	c := clone(d)
	if pos < 0 || pos > len(c.Layers) {
		pos = len(c.Layers)
	}
	c.LayerNames = insertString(c.LayerNames, pos, name)
	c.Layers = insertLayer(c.Layers, pos, nil)
	return c, nil
}

// RemoveLayer drops a layer and its name.
func RemoveLayer(d *layout.Document, name string) (*layout.Document, error) {
	idx := indexOfLayer(d, name)
	if idx < 0 {
		return d, zmkerrors.New(zmkerrors.LayerNotFound, fmt.Sprintf("layer %q not found", name))
	}
	c := clone(d)
	c.LayerNames = append(c.LayerNames[:idx], c.LayerNames[idx+1:]...)
	c.Layers = append(c.Layers[:idx], c.Layers[idx+1:]...)
	return c, nil
}

// MoveLayer repositions a layer within LayerNames/Layers.
func MoveLayer(d *layout.Document, name string, newIdx int) (*layout.Document, error) {
	idx := indexOfLayer(d, name)
	if idx < 0 {
		return d, zmkerrors.New(zmkerrors.LayerNotFound, fmt.Sprintf("layer %q not found", name))
	}
	if newIdx < 0 || newIdx >= len(d.Layers) {
		return d, zmkerrors.New(zmkerrors.IndexOutOfRange, fmt.Sprintf("target index %d out of range [0,%d)", newIdx, len(d.Layers)))
	}
	c := clone(d)
	n := c.LayerNames[idx]
	l := c.Layers[idx]
	c.LayerNames = append(c.LayerNames[:idx], c.LayerNames[idx+1:]...)
	c.Layers = append(c.Layers[:idx], c.Layers[idx+1:]...)
	c.LayerNames = insertString(c.LayerNames, newIdx, n)
	c.Layers = insertLayer(c.Layers, newIdx, l)
	return c, nil
}

// RenameLayer replaces a layer's name; references by index elsewhere in the
// document are unaffected since combos store layer indices, not names.
func RenameLayer(d *layout.Document, oldName, newName string) (*layout.Document, error) {
	idx := indexOfLayer(d, oldName)
	if idx < 0 {
		return d, zmkerrors.New(zmkerrors.LayerNotFound, fmt.Sprintf("layer %q not found", oldName))
	}
	if indexOfLayer(d, newName) >= 0 {
		return d, zmkerrors.New(zmkerrors.LayerAlreadyExists, fmt.Sprintf("layer %q already exists", newName))
	}
	c := clone(d)
	c.LayerNames[idx] = newName
	return c, nil
}

// CopyLayer deep-copies src's bindings under a new name, dst.
func CopyLayer(d *layout.Document, src, dst string) (*layout.Document, error) {
	idx := indexOfLayer(d, src)
	if idx < 0 {
		return d, zmkerrors.New(zmkerrors.LayerNotFound, fmt.Sprintf("layer %q not found", src))
	}
	if indexOfLayer(d, dst) >= 0 {
		return d, zmkerrors.New(zmkerrors.LayerAlreadyExists, fmt.Sprintf("layer %q already exists", dst))
	}
	c := clone(d)
	c.LayerNames = append(c.LayerNames, dst)
	c.Layers = append(c.Layers, append([]binding.Binding(nil), c.Layers[idx]...))
	return c, nil
}

// ClearLayer empties a layer's bindings.
func ClearLayer(d *layout.Document, name string) (*layout.Document, error) {
	idx := indexOfLayer(d, name)
	if idx < 0 {
		return d, zmkerrors.New(zmkerrors.LayerNotFound, fmt.Sprintf("layer %q not found", name))
	}
	c := clone(d)
	c.Layers[idx] = nil
	return c, nil
}

// ReorderLayers applies a permutation of names. The permutation's multiset
// must equal the document's current set of layer names.
func ReorderLayers(d *layout.Document, names []string) (*layout.Document, error) {
	if len(names) != len(d.LayerNames) {
		return d, zmkerrors.New(zmkerrors.Validate, fmt.Sprintf("reorder needs %d names, got %d", len(d.LayerNames), len(names)))
	}
	counts := map[string]int{}
	for _, n := range d.LayerNames {
		counts[n]++
	}
	for _, n := range names {
		counts[n]--
	}
	for n, c := range counts {
		if c != 0 {
			return d, zmkerrors.New(zmkerrors.Validate, fmt.Sprintf("reorder is not a permutation of the existing layer set (mismatch at %q)", n))
		}
	}
	c := clone(d)
	newLayers := make([][]binding.Binding, len(names))
	for i, n := range names {
		idx := indexOfLayer(d, n)
		newLayers[i] = append([]binding.Binding(nil), d.Layers[idx]...)
	}
	c.LayerNames = append([]string(nil), names...)
	c.Layers = newLayers
	return c, nil
}

func insertString(s []string, pos int, v string) []string {
	s = append(s, "")
	copy(s[pos+1:], s[pos:])
	s[pos] = v
	return s
}

func insertLayer(s [][]binding.Binding, pos int, v []binding.Binding) [][]binding.Binding {
	s = append(s, nil)
	copy(s[pos+1:], s[pos:])
	s[pos] = v
	return s
}
