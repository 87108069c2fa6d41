package color

import (
	"github.com/hupe1980/segmerge/engine"
	"github.com/hupe1980/segmerge/model"
)

// DefaultAlpha is the overlay opacity used until SetAlpha is called.
const DefaultAlpha uint8 = 76

// Overlap is the color of subobjects claimed by several selected objects.
var Overlap = model.RGB{R: 255}

// Graph is the view of the object store the resolver reads.
type Graph interface {
	Object(index uint64) *engine.Object
	Subobject(id uint64) (*engine.SubObject, bool)
	SelectedParent(sub *engine.SubObject) (*engine.Object, bool)
	LargestObjectContaining(sub *engine.SubObject) uint64
	FrontSelected() (*engine.Object, bool)
	SelectedCount() int
}

var _ Graph = (*engine.Store)(nil)

// Option configures a Resolver.
type Option func(*Resolver)

// WithPalette sets the lookup table.
func WithPalette(p Palette) Option {
	return func(r *Resolver) {
		if len(p) > 0 {
			r.palette = p
		}
	}
}

// WithAlpha sets the overlay opacity.
func WithAlpha(alpha uint8) Option {
	return func(r *Resolver) {
		r.alpha = alpha
	}
}

// WithBackgroundID sets the subobject id that is never drawn.
func WithBackgroundID(id uint64) Option {
	return func(r *Resolver) {
		r.background = id
	}
}

// Resolver computes colors for a Graph.
type Resolver struct {
	graph              Graph
	palette            Palette
	alpha              uint8
	background         uint64
	renderOnlySelected bool
}

// NewResolver creates a resolver with the default palette and alpha.
func NewResolver(g Graph, opts ...Option) *Resolver {
	r := &Resolver{
		graph:   g,
		palette: DefaultPalette(),
		alpha:   DefaultAlpha,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Palette returns the lookup table.
func (r *Resolver) Palette() Palette { return r.palette }

// SetPalette replaces the lookup table. Empty palettes are ignored.
func (r *Resolver) SetPalette(p Palette) {
	if len(p) > 0 {
		r.palette = p
	}
}

// Alpha returns the overlay opacity.
func (r *Resolver) Alpha() uint8 { return r.alpha }

// SetAlpha sets the overlay opacity.
func (r *Resolver) SetAlpha(alpha uint8) { r.alpha = alpha }

// BackgroundID returns the subobject id that is never drawn.
func (r *Resolver) BackgroundID() uint64 { return r.background }

// SetBackgroundID sets the subobject id that is never drawn.
func (r *Resolver) SetBackgroundID(id uint64) { r.background = id }

// RenderOnlySelected reports whether unselected objects are hidden.
func (r *Resolver) RenderOnlySelected() bool { return r.renderOnlySelected }

// SetRenderOnlySelected hides or shows unselected objects.
func (r *Resolver) SetRenderOnlySelected(on bool) { r.renderOnlySelected = on }

// DefaultColor returns the palette color for id.
func (r *Resolver) DefaultColor(id uint64) model.RGB {
	return r.palette.At(id)
}

// SubobjectColor returns the palette color of a raw label.
func (r *Resolver) SubobjectColor(id uint64) model.RGBA {
	return r.palette.At(id).WithAlpha(r.alpha)
}

// ObjectColor returns the override or palette color of the object at index.
func (r *Resolver) ObjectColor(index uint64) model.RGBA {
	return r.objectColor(r.graph.Object(index))
}

func (r *Resolver) objectColor(obj *engine.Object) model.RGBA {
	if c, ok := obj.Color(); ok {
		return c.WithAlpha(r.alpha)
	}
	return r.palette.At(obj.ID()).WithAlpha(r.alpha)
}

// ColorOfSelectedObject returns the color of the front selected object.
func (r *Resolver) ColorOfSelectedObject() (model.RGBA, bool) {
	obj, ok := r.graph.FrontSelected()
	if !ok {
		return model.Transparent, false
	}
	return r.objectColor(obj), true
}

// ColorForSubobject returns the color a voxel with the given label is drawn
// in.
func (r *Resolver) ColorForSubobject(id uint64) model.RGBA {
	if id == r.background {
		return model.Transparent
	}

	sub, ok := r.graph.Subobject(id)
	if !ok {
		if r.renderOnlySelected && r.graph.SelectedCount() > 0 {
			return model.Transparent
		}
		return r.SubobjectColor(id)
	}

	switch n := sub.SelectedCount(); {
	case n > 1:
		return Overlap.WithAlpha(r.alpha)
	case n == 1:
		obj, _ := r.graph.SelectedParent(sub)
		return r.objectColor(obj)
	case r.renderOnlySelected:
		return model.Transparent
	default:
		return r.ObjectColor(r.graph.LargestObjectContaining(sub))
	}
}
