package mutate

import (
	"github.com/CaddyGlow/zmk-layout/core/binding"
	"github.com/CaddyGlow/zmk-layout/core/layout"
)

// Builder chains mutation operations over a single Document, short-circuiting
// on the first error so the document is never left half-modified: once Err
// is set, every further call is a no-op that just returns the Builder.
type Builder struct {
	doc *layout.Document
	err error
}

// From starts a chain from d without modifying it.
func From(d *layout.Document) *Builder {
	return &Builder{doc: d}
}

// Document returns the current document and any error from the chain so far.
func (b *Builder) Document() (*layout.Document, error) {
	return b.doc, b.err
}

// Err returns the first error encountered in the chain, if any.
func (b *Builder) Err() error { return b.err }

func (b *Builder) apply(next *layout.Document, err error) *Builder {
	if b.err != nil {
		return b
	}
	if err != nil {
		b.err = err
		return b
	}
	b.doc = next
	return b
}

func (b *Builder) AddLayer(name string, pos int) *Builder {
	return b.apply(AddLayer(b.doc, name, pos))
}

func (b *Builder) RemoveLayer(name string) *Builder {
	return b.apply(RemoveLayer(b.doc, name))
}

func (b *Builder) MoveLayer(name string, newIdx int) *Builder {
	return b.apply(MoveLayer(b.doc, name, newIdx))
}

func (b *Builder) RenameLayer(oldName, newName string) *Builder {
	return b.apply(RenameLayer(b.doc, oldName, newName))
}

func (b *Builder) CopyLayer(src, dst string) *Builder {
	return b.apply(CopyLayer(b.doc, src, dst))
}

func (b *Builder) ClearLayer(name string) *Builder {
	return b.apply(ClearLayer(b.doc, name))
}

func (b *Builder) ReorderLayers(names []string) *Builder {
	return b.apply(ReorderLayers(b.doc, names))
}

func (b *Builder) SetBinding(layerName string, i int, bind binding.Binding) *Builder {
	return b.apply(SetBinding(b.doc, layerName, i, bind))
}

func (b *Builder) SetRange(layerName string, start, end int, bindings []binding.Binding) *Builder {
	return b.apply(SetRange(b.doc, layerName, start, end, bindings))
}

func (b *Builder) AppendBinding(layerName string, bind binding.Binding) *Builder {
	return b.apply(AppendBinding(b.doc, layerName, bind))
}

func (b *Builder) InsertBinding(layerName string, i int, bind binding.Binding) *Builder {
	return b.apply(InsertBinding(b.doc, layerName, i, bind))
}

func (b *Builder) RemoveBinding(layerName string, i int) *Builder {
	return b.apply(RemoveBinding(b.doc, layerName, i))
}

func (b *Builder) FillBindings(layerName string, bind binding.Binding, size int) *Builder {
	return b.apply(FillBindings(b.doc, layerName, bind, size))
}

func (b *Builder) PadTo(layerName string, size int, filler *binding.Binding) *Builder {
	return b.apply(PadTo(b.doc, layerName, size, filler))
}

func (b *Builder) AddHoldTap(name string, bindings [2]binding.Binding, opts HoldTapOptions) *Builder {
	return b.apply(AddHoldTap(b.doc, name, bindings, opts))
}

func (b *Builder) AddCombo(name string, keyPositions []int, bind binding.Binding, opts ComboOptions) *Builder {
	return b.apply(AddCombo(b.doc, name, keyPositions, bind, opts))
}

func (b *Builder) AddMacro(name string, bindings []binding.Binding, opts MacroOptions) *Builder {
	return b.apply(AddMacro(b.doc, name, bindings, opts))
}

func (b *Builder) AddTapDance(name string, bindings []binding.Binding, opts TapDanceOptions) *Builder {
	return b.apply(AddTapDance(b.doc, name, bindings, opts))
}
