package engine

import "github.com/hupe1980/segmerge/model"

// Unmerge removes the subobjects of the object at otherIndex from the object
// at objectIndex and returns the object now holding the difference. If
// nothing would remain, the object is returned unchanged. An immutable object
// is left intact and a new object is created at pos instead.
func (s *Store) Unmerge(objectIndex, otherIndex uint64, pos model.Coordinate) *Object {
	obj, other := s.Object(objectIndex), s.Object(otherIndex)

	diff := differenceSorted(obj.subobjects, other.subobjects)
	if len(diff) == 0 {
		return obj
	}

	if obj.immutable {
		s.UnselectObject(obj.index)
		split := s.newObjectFrom(pos, diff)
		s.SelectObject(split.index)
		return split
	}

	s.UnselectObject(obj.index)
	for _, id := range other.subobjects {
		if sub, ok := s.subobjects[id]; ok {
			removeSorted(&sub.objects, obj.index)
		}
	}
	obj.subobjects = diff
	s.SelectObject(obj.index)

	s.emitIndex(EventChanged, obj.index)

	return obj
}

// UnmergeSelected splits the selection. A single selected object is
// removed. Otherwise every selected object after the first is subtracted
// from the first, starting at the back, and queued as todo.
func (s *Store) UnmergeSelected(pos model.Coordinate) {
	selected := s.selected.Slice()

	switch {
	case len(selected) == 1:
		s.RemoveObject(selected[0])
	case len(selected) > 1:
		origin := s.objects[selected[0]]
		for i := len(selected) - 1; i > 0; i-- {
			other := s.objects[selected[i]]
			origin = s.Unmerge(origin.index, other.index, pos)
			s.UnselectObject(other.index)
			s.setTodo(other, true)
		}
	}

	s.Emit(Event{Kind: EventTodosChanged})
}
