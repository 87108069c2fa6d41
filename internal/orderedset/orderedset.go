package orderedset

import (
	"container/list"
	"iter"
)

// Set is an insertion-ordered set. The zero value is not usable; use New.
// Not safe for concurrent use.
type Set[T comparable] struct {
	items map[T]*list.Element
	order *list.List
}

// New creates an empty set.
func New[T comparable]() *Set[T] {
	return &Set[T]{
		items: make(map[T]*list.Element),
		order: list.New(),
	}
}

// Len returns the number of elements.
func (s *Set[T]) Len() int {
	return len(s.items)
}

// Empty reports whether the set has no elements.
func (s *Set[T]) Empty() bool {
	return len(s.items) == 0
}

// Contains reports whether v is in the set.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.items[v]
	return ok
}

// PushBack appends v. It returns false if v was already present,
// in which case its position is unchanged.
func (s *Set[T]) PushBack(v T) bool {
	if _, ok := s.items[v]; ok {
		return false
	}
	s.items[v] = s.order.PushBack(v)
	return true
}

// PushFront prepends v. It returns false if v was already present,
// in which case its position is unchanged.
func (s *Set[T]) PushFront(v T) bool {
	if _, ok := s.items[v]; ok {
		return false
	}
	s.items[v] = s.order.PushFront(v)
	return true
}

// Remove deletes v. It returns false if v was not present.
func (s *Set[T]) Remove(v T) bool {
	e, ok := s.items[v]
	if !ok {
		return false
	}
	s.order.Remove(e)
	delete(s.items, v)
	return true
}

// Replace substitutes old by repl at the position of old.
// It is a no-op if old is absent. If repl is already present elsewhere
// the old entry is dropped so the set stays duplicate free.
func (s *Set[T]) Replace(old, repl T) {
	e, ok := s.items[old]
	if !ok || old == repl {
		return
	}
	delete(s.items, old)
	if _, dup := s.items[repl]; dup {
		s.order.Remove(e)
		return
	}
	e.Value = repl
	s.items[repl] = e
}

// Front returns the first element.
func (s *Set[T]) Front() (T, bool) {
	var zero T
	e := s.order.Front()
	if e == nil {
		return zero, false
	}
	return e.Value.(T), true
}

// Back returns the last element.
func (s *Set[T]) Back() (T, bool) {
	var zero T
	e := s.order.Back()
	if e == nil {
		return zero, false
	}
	return e.Value.(T), true
}

// Clear removes all elements.
func (s *Set[T]) Clear() {
	clear(s.items)
	s.order.Init()
}

// All iterates the elements in order.
// The set must not be modified during iteration.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for e := s.order.Front(); e != nil; e = e.Next() {
			if !yield(e.Value.(T)) {
				return
			}
		}
	}
}

// Slice returns a copy of the elements in order.
func (s *Set[T]) Slice() []T {
	out := make([]T, 0, len(s.items))
	for e := s.order.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(T))
	}
	return out
}
