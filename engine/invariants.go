package engine

import (
	"fmt"
	"slices"
)

// CheckInvariants verifies the consistency of the object graph. It returns
// an error wrapping ErrInvariant that describes the first violation found.
func (s *Store) CheckInvariants() error {
	if len(s.idToIndex) != len(s.objects) {
		return fmt.Errorf("%w: %d ids mapped for %d objects", ErrInvariant, len(s.idToIndex), len(s.objects))
	}

	for i, obj := range s.objects {
		index := uint64(i)
		if obj.index != index {
			return fmt.Errorf("%w: object %d stored at %d claims index %d", ErrInvariant, obj.id, i, obj.index)
		}
		if mapped, ok := s.idToIndex[obj.id]; !ok || mapped != index {
			return fmt.Errorf("%w: id map disagrees for object %d", ErrInvariant, obj.id)
		}
		if obj.id > s.highestObjectID {
			return fmt.Errorf("%w: object id %d above highest id %d", ErrInvariant, obj.id, s.highestObjectID)
		}
		if len(obj.subobjects) == 0 {
			return fmt.Errorf("%w: object %d has no subobjects", ErrInvariant, obj.id)
		}
		if !strictlyAscending(obj.subobjects) {
			return fmt.Errorf("%w: subobjects of object %d not sorted and unique", ErrInvariant, obj.id)
		}
		if obj.selected != s.selected.Contains(index) {
			return fmt.Errorf("%w: selected flag of object %d disagrees with selection", ErrInvariant, obj.id)
		}
		if obj.todo != s.todos.Contains(obj.id) {
			return fmt.Errorf("%w: todo flag of object %d disagrees with todo set", ErrInvariant, obj.id)
		}
		for _, id := range obj.subobjects {
			sub, ok := s.subobjects[id]
			if !ok {
				return fmt.Errorf("%w: object %d references missing subobject %d", ErrInvariant, obj.id, id)
			}
			if _, found := slices.BinarySearch(sub.objects, index); !found {
				return fmt.Errorf("%w: subobject %d does not list parent %d", ErrInvariant, id, obj.id)
			}
		}
	}

	for id, sub := range s.subobjects {
		if sub.id != id {
			return fmt.Errorf("%w: subobject keyed %d claims id %d", ErrInvariant, id, sub.id)
		}
		if len(sub.objects) == 0 {
			return fmt.Errorf("%w: subobject %d has no parents", ErrInvariant, id)
		}
		if !strictlyAscending(sub.objects) {
			return fmt.Errorf("%w: parents of subobject %d not sorted and unique", ErrInvariant, id)
		}

		var selected, active int
		for _, index := range sub.objects {
			if index >= uint64(len(s.objects)) {
				return fmt.Errorf("%w: subobject %d lists dead index %d", ErrInvariant, id, index)
			}
			if !s.objects[index].Contains(id) {
				return fmt.Errorf("%w: object at %d does not list subobject %d", ErrInvariant, index, id)
			}
			if s.objects[index].selected {
				selected++
			}
			if s.active.Contains(index) {
				active++
			}
		}
		if selected != sub.selectedCount {
			return fmt.Errorf("%w: subobject %d selected count %d, want %d", ErrInvariant, id, sub.selectedCount, selected)
		}
		if active != sub.activeCount {
			return fmt.Errorf("%w: subobject %d active count %d, want %d", ErrInvariant, id, sub.activeCount, active)
		}
	}

	for name, set := range map[string][]uint64{"selected": s.selected.Slice(), "active": s.active.Slice()} {
		for _, index := range set {
			if index >= uint64(len(s.objects)) {
				return fmt.Errorf("%w: %s set holds dead index %d", ErrInvariant, name, index)
			}
		}
	}

	if s.todos.GetCardinality() > uint64(len(s.objects)) {
		return fmt.Errorf("%w: todo set larger than object count", ErrInvariant)
	}

	return nil
}

func strictlyAscending(list []uint64) bool {
	for i := 1; i < len(list); i++ {
		if list[i] <= list[i-1] {
			return false
		}
	}
	return true
}
