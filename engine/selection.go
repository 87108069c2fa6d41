package engine

import (
	"fmt"

	"github.com/hupe1980/segmerge/model"
)

// SelectObject adds the object at index to the back of the selected and
// active sets. Selecting a selected object is a no-op.
func (s *Store) SelectObject(index uint64) {
	obj := s.Object(index)
	if obj.selected {
		return
	}

	s.markSelected(obj)
	s.selected.PushBack(obj.index)
	s.activate(obj, false)

	s.emitIndex(EventSelectionChanged, obj.index)
}

// selectFront selects obj at the front of both sets.
func (s *Store) selectFront(obj *Object) {
	if !obj.selected {
		s.markSelected(obj)
	}
	s.selected.Remove(obj.index)
	s.selected.PushFront(obj.index)
	s.deactivate(obj)
	s.activate(obj, true)

	s.emitIndex(EventSelectionChanged, obj.index)
}

func (s *Store) markSelected(obj *Object) {
	obj.selected = true
	for _, id := range obj.subobjects {
		s.subobjects[id].selectedCount++
	}
}

// UnselectObject removes the object at index from the selected and the
// active set.
func (s *Store) UnselectObject(index uint64) {
	obj := s.Object(index)

	changed := false
	if obj.selected {
		obj.selected = false
		for _, id := range obj.subobjects {
			s.subobjects[id].selectedCount--
		}
		s.selected.Remove(obj.index)
		changed = true
	}
	if s.deactivate(obj) {
		changed = true
	}

	if changed {
		s.emitIndex(EventSelectionChanged, obj.index)
	}
}

// ActivateObject adds the object at index to the back of the active set
// without selecting it.
func (s *Store) ActivateObject(index uint64) {
	s.activate(s.Object(index), false)
}

// DeactivateObject removes the object at index from the active set only.
func (s *Store) DeactivateObject(index uint64) {
	s.deactivate(s.Object(index))
}

func (s *Store) activate(obj *Object, front bool) bool {
	var added bool
	if front {
		added = s.active.PushFront(obj.index)
	} else {
		added = s.active.PushBack(obj.index)
	}
	if added {
		for _, id := range obj.subobjects {
			s.subobjects[id].activeCount++
		}
	}
	return added
}

func (s *Store) deactivate(obj *Object) bool {
	if !s.active.Remove(obj.index) {
		return false
	}
	for _, id := range obj.subobjects {
		s.subobjects[id].activeCount--
	}
	return true
}

// ClearObjectSelection unselects every selected object.
func (s *Store) ClearObjectSelection() {
	restore := s.Mute()
	for {
		index, ok := s.selected.Back()
		if !ok {
			break
		}
		s.UnselectObject(index)
	}
	restore()

	s.Emit(Event{Kind: EventSelectionReset})
}

// ClearActiveSelection empties the active set and leaves the selected set
// as is.
func (s *Store) ClearActiveSelection() {
	for index := range s.active.All() {
		for _, id := range s.objects[index].subobjects {
			s.subobjects[id].activeCount--
		}
	}
	s.active.Clear()

	s.Emit(Event{Kind: EventSelectionReset})
}

// SelectObjectFromSubobject selects the object consisting of exactly the
// given subobject, creating subobject and object as needed.
func (s *Store) SelectObjectFromSubobject(subobjectID uint64, location model.Coordinate) *Object {
	sub := s.SubobjectFromID(subobjectID, location)
	obj := s.ObjectFromSubobject(sub, location)
	s.SelectObject(obj.index)
	return obj
}

// ObjectFromSubobject returns the parent whose only subobject is sub, or
// creates one at location.
func (s *Store) ObjectFromSubobject(sub *SubObject, location model.Coordinate) *Object {
	for _, index := range sub.objects {
		if obj := s.objects[index]; len(obj.subobjects) == 1 {
			return obj
		}
	}
	return s.newObjectFrom(location, []uint64{sub.id})
}

// IsSelected reports whether the object at index is selected.
func (s *Store) IsSelected(index uint64) bool {
	return s.Object(index).selected
}

// IsActive reports whether the object at index is in the active set.
func (s *Store) IsActive(index uint64) bool {
	return s.active.Contains(index)
}

// IsSubobjectSelected reports whether any selected object contains the
// subobject id.
func (s *Store) IsSubobjectSelected(subobjectID uint64) bool {
	sub, ok := s.subobjects[subobjectID]
	return ok && sub.selectedCount > 0
}

// SelectedCount returns the number of selected objects.
func (s *Store) SelectedCount() int { return s.selected.Len() }

// ActiveCount returns the number of active objects.
func (s *Store) ActiveCount() int { return s.active.Len() }

// Selected returns the selected object indices in selection order.
func (s *Store) Selected() []uint64 { return s.selected.Slice() }

// Active returns the active object indices in activation order.
func (s *Store) Active() []uint64 { return s.active.Slice() }

// FrontSelected returns the first selected object.
func (s *Store) FrontSelected() (*Object, bool) {
	index, ok := s.selected.Front()
	if !ok {
		return nil, false
	}
	return s.objects[index], true
}

// SelectedParent returns the first selected parent of sub.
func (s *Store) SelectedParent(sub *SubObject) (*Object, bool) {
	if sub.selectedCount == 0 {
		return nil, false
	}
	for _, index := range sub.objects {
		if obj := s.objects[index]; obj.selected {
			return obj, true
		}
	}
	return nil, false
}

// SubobjectIDOfFirstSelectedObject returns the first subobject of the
// front selected object and moves that object's location to pos.
func (s *Store) SubobjectIDOfFirstSelectedObject(pos model.Coordinate) (uint64, error) {
	obj, ok := s.FrontSelected()
	if !ok {
		return 0, fmt.Errorf("subobject of first selected object: %w", ErrNoSelection)
	}

	obj.location = pos
	s.emitIndex(EventChanged, obj.index)

	return obj.FirstSubobject(), nil
}
