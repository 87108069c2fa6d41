package engine

// ObjectOrder reports whether lhs ranks below rhs when choosing the
// representative of a subobject: immutable objects rank below mutable ones
// and, within equal mutability, smaller objects rank below larger ones.
func ObjectOrder(lhs, rhs *Object) bool {
	return (lhs.immutable && !rhs.immutable) ||
		(lhs.immutable == rhs.immutable && len(lhs.subobjects) < len(rhs.subobjects))
}

// LargestObjectContaining returns the index of the first highest ranked
// parent of sub. It panics if sub has no parents.
func (s *Store) LargestObjectContaining(sub *SubObject) uint64 {
	best := s.objects[sub.objects[0]]
	for _, index := range sub.objects[1:] {
		if obj := s.objects[index]; ObjectOrder(best, obj) {
			best = obj
		}
	}
	return best.index
}

// SmallestImmutableObjectContaining returns the index of the first lowest
// ranked parent of sub. It panics if sub has no parents.
func (s *Store) SmallestImmutableObjectContaining(sub *SubObject) uint64 {
	best := s.objects[sub.objects[0]]
	for _, index := range sub.objects[1:] {
		if obj := s.objects[index]; ObjectOrder(obj, best) {
			best = obj
		}
	}
	return best.index
}

// TryLargestObjectContaining is LargestObjectContaining for a subobject id
// that may not exist.
func (s *Store) TryLargestObjectContaining(subobjectID uint64) (uint64, bool) {
	sub, ok := s.subobjects[subobjectID]
	if !ok {
		return 0, false
	}
	return s.LargestObjectContaining(sub), true
}
