package engine

// MergeActive folds the active set into as few objects as possible. While
// two or more objects are active, the front (origin) and the back (target)
// are combined depending on which of them is immutable:
//
//   - both immutable: a new mutable object holding the union replaces both
//     in the selection at the front position
//   - target immutable: origin absorbs target, target stays
//   - origin immutable: target absorbs origin, origin stays
//   - both mutable: origin absorbs target, target is removed
//
// A consumed object always loses its todo flag.
func (s *Store) MergeActive() {
	for s.active.Len() > 1 {
		originIndex, _ := s.active.Front()
		targetIndex, _ := s.active.Back()
		origin, target := s.Object(originIndex), s.Object(targetIndex)

		switch [2]bool{origin.immutable, target.immutable} {
		case [2]bool{true, true}:
			s.UnselectObject(target.index)
			s.setTodo(target, false)
			merged := s.newObjectFrom(origin.location, unionSorted(target.subobjects, origin.subobjects))
			s.UnselectObject(origin.index)
			s.selectFront(merged)
			s.logger.Debug("merged immutable objects", "origin", origin.id, "target", target.id, "new", merged.id)
		case [2]bool{false, true}:
			s.UnselectObject(target.index)
			s.absorb(origin, target)
			s.setTodo(target, false)
			s.logger.Debug("merged into origin", "origin", origin.id, "target", target.id)
		case [2]bool{true, false}:
			s.UnselectObject(origin.index)
			s.absorb(target, origin)
			s.setTodo(origin, false)
			s.logger.Debug("merged into target", "origin", origin.id, "target", target.id)
		default:
			s.UnselectObject(target.index)
			s.absorb(origin, target)
			s.setTodo(target, false)
			s.RemoveObject(target.index)
			s.logger.Debug("merged and removed target", "origin", origin.id, "target", target.id)
		}
	}

	s.Emit(Event{Kind: EventTodosChanged})
}

// absorb adds every subobject of src to dst.
func (s *Store) absorb(dst, src *Object) {
	dstActive := s.active.Contains(dst.index)

	for _, id := range src.subobjects {
		sub := s.subobjects[id]
		if !insertSorted(&sub.objects, dst.index) {
			continue
		}
		if dst.selected {
			sub.selectedCount++
		}
		if dstActive {
			sub.activeCount++
		}
	}

	dst.subobjects = unionSorted(dst.subobjects, src.subobjects)

	s.emitIndex(EventChanged, dst.index)
}

// DeleteActive removes every object of the active set.
func (s *Store) DeleteActive() {
	restore := s.Mute()
	for {
		index, ok := s.active.Back()
		if !ok {
			break
		}
		s.RemoveObject(index)
	}
	restore()

	s.Emit(Event{Kind: EventReset})
	s.Emit(Event{Kind: EventSelectionReset})
	s.Emit(Event{Kind: EventTodosChanged})
}
