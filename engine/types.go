package engine

import (
	"slices"

	"github.com/hupe1980/segmerge/model"
)

// SubObject is one raw segmentation label and the objects containing it.
type SubObject struct {
	id uint64

	// objects holds parent object indices, sorted ascending.
	objects []uint64

	selectedCount int
	activeCount   int
}

// ID returns the segmentation label.
func (s *SubObject) ID() uint64 { return s.id }

// Objects returns a copy of the parent object indices in ascending order.
func (s *SubObject) Objects() []uint64 { return slices.Clone(s.objects) }

// ObjectCount returns the number of parent objects.
func (s *SubObject) ObjectCount() int { return len(s.objects) }

// SelectedCount returns how many parent objects are selected.
// A value above one means selected objects overlap at this subobject.
func (s *SubObject) SelectedCount() int { return s.selectedCount }

// ActiveCount returns how many parent objects are in the active set.
func (s *SubObject) ActiveCount() int { return s.activeCount }

// Object is a user-visible group of subobjects.
type Object struct {
	id    uint64
	index uint64

	// subobjects holds subobject ids, sorted ascending.
	subobjects []uint64

	todo      bool
	immutable bool
	selected  bool

	location model.Coordinate
	category string
	comment  string
	color    model.RGB
	hasColor bool
}

// ID returns the stable, file-facing object id.
func (o *Object) ID() uint64 { return o.id }

// Index returns the position in the store. It changes when another object
// is swap-removed into this slot.
func (o *Object) Index() uint64 { return o.index }

// Subobjects returns a copy of the subobject ids in ascending order.
func (o *Object) Subobjects() []uint64 { return slices.Clone(o.subobjects) }

// SubobjectCount returns the number of subobjects.
func (o *Object) SubobjectCount() int { return len(o.subobjects) }

// FirstSubobject returns the smallest subobject id.
func (o *Object) FirstSubobject() uint64 { return o.subobjects[0] }

// Contains reports whether the object lists the subobject id.
func (o *Object) Contains(subobjectID uint64) bool {
	_, ok := slices.BinarySearch(o.subobjects, subobjectID)
	return ok
}

// Todo reports whether the object is queued for review.
func (o *Object) Todo() bool { return o.todo }

// Immutable reports whether the object is protected from in-place edits.
func (o *Object) Immutable() bool { return o.immutable }

// Selected reports whether the object is selected.
func (o *Object) Selected() bool { return o.selected }

// Location returns the last point of interest.
func (o *Object) Location() model.Coordinate { return o.location }

// Category returns the category label.
func (o *Object) Category() string { return o.category }

// Comment returns the free-form comment.
func (o *Object) Comment() string { return o.comment }

// Color returns the color override, if any.
func (o *Object) Color() (model.RGB, bool) { return o.color, o.hasColor }

func (o *Object) clone() *Object {
	c := *o
	c.subobjects = slices.Clone(o.subobjects)
	return &c
}

// insertSorted inserts v into the sorted list, reporting whether it was absent.
func insertSorted(list *[]uint64, v uint64) bool {
	pos, found := slices.BinarySearch(*list, v)
	if found {
		return false
	}
	*list = slices.Insert(*list, pos, v)
	return true
}

// removeSorted removes v from the sorted list, reporting whether it was present.
func removeSorted(list *[]uint64, v uint64) bool {
	pos, found := slices.BinarySearch(*list, v)
	if !found {
		return false
	}
	*list = slices.Delete(*list, pos, pos+1)
	return true
}

// unionSorted merges two sorted duplicate-free lists.
func unionSorted(a, b []uint64) []uint64 {
	out := make([]uint64, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// differenceSorted returns the elements of a that are not in b.
func differenceSorted(a, b []uint64) []uint64 {
	var out []uint64
	j := 0
	for _, v := range a {
		for j < len(b) && b[j] < v {
			j++
		}
		if j < len(b) && b[j] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}
