package mutate

import (
	"fmt"

	"github.com/CaddyGlow/zmk-layout/core/binding"
	zmkerrors "github.com/CaddyGlow/zmk-layout/core/errors"
	"github.com/CaddyGlow/zmk-layout/core/layout"
)

func layerIndex(d *layout.Document, name string) (int, error) {
	idx := indexOfLayer(d, name)
	if idx < 0 {
		return -1, zmkerrors.New(zmkerrors.LayerNotFound, fmt.Sprintf("layer %q not found", name))
	}
	return idx, nil
}

// SetBinding sets the binding at position i, extending the layer with
// Transparent fillers if i is past its current length.
func SetBinding(d *layout.Document, name string, i int, b binding.Binding) (*layout.Document, error) {
	idx, err := layerIndex(d, name)
	if err != nil {
		return d, err
	}
	if i < 0 {
		return d, zmkerrors.New(zmkerrors.IndexOutOfRange, fmt.Sprintf("index %d is negative", i))
	}
	c := clone(d)
	layer := c.Layers[idx]
	for len(layer) <= i {
		layer = append(layer, Transparent)
	}
	layer[i] = b
	c.Layers[idx] = layer
	return c, nil
}

// GetBinding returns the binding at position i, failing if out of range.
func GetBinding(d *layout.Document, name string, i int) (binding.Binding, error) {
	idx, err := layerIndex(d, name)
	if err != nil {
		return binding.Binding{}, err
	}
	layer := d.Layers[idx]
	if i < 0 || i >= len(layer) {
		return binding.Binding{}, zmkerrors.New(zmkerrors.IndexOutOfRange, fmt.Sprintf("index %d out of range [0,%d)", i, len(layer)))
	}
	return layer[i], nil
}

// SetRange replaces positions [start,end) with bindings; len(bindings) must
// equal end-start.
func SetRange(d *layout.Document, name string, start, end int, bindings []binding.Binding) (*layout.Document, error) {
	idx, err := layerIndex(d, name)
	if err != nil {
		return d, err
	}
	if end-start != len(bindings) {
		return d, zmkerrors.New(zmkerrors.Validate, fmt.Sprintf("set_range needs %d bindings for [%d,%d), got %d", end-start, start, end, len(bindings)))
	}
	c := clone(d)
	layer := c.Layers[idx]
	for len(layer) < end {
		layer = append(layer, Transparent)
	}
	copy(layer[start:end], bindings)
	c.Layers[idx] = layer
	return c, nil
}

// CopyBindingsFrom overwrites dst's bindings with a copy of src's.
func CopyBindingsFrom(d *layout.Document, dst, src string) (*layout.Document, error) {
	dstIdx, err := layerIndex(d, dst)
	if err != nil {
		return d, err
	}
	srcIdx, err := layerIndex(d, src)
	if err != nil {
		return d, err
	}
	c := clone(d)
	c.Layers[dstIdx] = append([]binding.Binding(nil), c.Layers[srcIdx]...)
	return c, nil
}

// AppendBinding adds a binding to the end of a layer.
func AppendBinding(d *layout.Document, name string, b binding.Binding) (*layout.Document, error) {
	idx, err := layerIndex(d, name)
	if err != nil {
		return d, err
	}
	c := clone(d)
	c.Layers[idx] = append(c.Layers[idx], b)
	return c, nil
}

// InsertBinding inserts a binding at position i, shifting later bindings right.
func InsertBinding(d *layout.Document, name string, i int, b binding.Binding) (*layout.Document, error) {
	idx, err := layerIndex(d, name)
	if err != nil {
		return d, err
	}
	layer := d.Layers[idx]
	if i < 0 || i > len(layer) {
		return d, zmkerrors.New(zmkerrors.IndexOutOfRange, fmt.Sprintf("index %d out of range [0,%d]", i, len(layer)))
	}
	c := clone(d)
	newLayer := append([]binding.Binding(nil), c.Layers[idx][:i]...)
	newLayer = append(newLayer, b)
	newLayer = append(newLayer, c.Layers[idx][i:]...)
	c.Layers[idx] = newLayer
	return c, nil
}

// RemoveBinding removes the binding at position i, shifting later bindings left.
func RemoveBinding(d *layout.Document, name string, i int) (*layout.Document, error) {
	idx, err := layerIndex(d, name)
	if err != nil {
		return d, err
	}
	layer := d.Layers[idx]
	if i < 0 || i >= len(layer) {
		return d, zmkerrors.New(zmkerrors.IndexOutOfRange, fmt.Sprintf("index %d out of range [0,%d)", i, len(layer)))
	}
	c := clone(d)
	c.Layers[idx] = append(append([]binding.Binding(nil), layer[:i]...), layer[i+1:]...)
	return c, nil
}

// ClearBindings empties a layer's bindings vector (same effect as ClearLayer).
func ClearBindings(d *layout.Document, name string) (*layout.Document, error) {
	return ClearLayer(d, name)
}

// FillBindings replaces a layer's bindings with size copies of b.
func FillBindings(d *layout.Document, name string, b binding.Binding, size int) (*layout.Document, error) {
	idx, err := layerIndex(d, name)
	if err != nil {
		return d, err
	}
	if size < 0 {
		return d, zmkerrors.New(zmkerrors.Validate, fmt.Sprintf("fill size %d is negative", size))
	}
	c := clone(d)
	layer := make([]binding.Binding, size)
	for i := range layer {
		layer[i] = b
	}
	c.Layers[idx] = layer
	return c, nil
}

// PadTo extends a layer to size with filler (default Transparent), leaving
// it unchanged if already at least that long.
func PadTo(d *layout.Document, name string, size int, filler *binding.Binding) (*layout.Document, error) {
	idx, err := layerIndex(d, name)
	if err != nil {
		return d, err
	}
	f := Transparent
	if filler != nil {
		f = *filler
	}
	c := clone(d)
	layer := c.Layers[idx]
	for len(layer) < size {
		layer = append(layer, f)
	}
	c.Layers[idx] = layer
	return c, nil
}
