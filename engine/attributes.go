package engine

import (
	"maps"
	"slices"

	"github.com/hupe1980/segmerge/model"
)

// ChangeCategory sets the category of the object at index and registers it.
func (s *Store) ChangeCategory(index uint64, category string) {
	obj := s.Object(index)
	obj.category = category
	s.emitIndex(EventChanged, obj.index)

	if s.AddCategory(category) {
		s.Emit(Event{Kind: EventCategoriesChanged})
	}
}

// ChangeComment sets the comment of the object at index.
func (s *Store) ChangeComment(index uint64, comment string) {
	obj := s.Object(index)
	obj.comment = comment
	s.emitIndex(EventChanged, obj.index)
}

// ChangeColor overrides the palette color of the object at index.
func (s *Store) ChangeColor(index uint64, color model.RGB) {
	obj := s.Object(index)
	obj.color = color
	obj.hasColor = true
	s.emitIndex(EventChanged, obj.index)
}

// ResetColor drops the color override of the object at index.
func (s *Store) ResetColor(index uint64) {
	obj := s.Object(index)
	obj.color = model.RGB{}
	obj.hasColor = false
	s.emitIndex(EventChanged, obj.index)
}

// SetLocation moves the point of interest of the object at index.
func (s *Store) SetLocation(index uint64, location model.Coordinate) {
	obj := s.Object(index)
	obj.location = location
	s.emitIndex(EventChanged, obj.index)
}

// SetImmutable sets the immutable flag of the object at index.
func (s *Store) SetImmutable(index uint64, immutable bool) {
	obj := s.Object(index)
	obj.immutable = immutable
	s.emitIndex(EventChanged, obj.index)
}

// AddCategory registers a category and reports whether it was new.
func (s *Store) AddCategory(category string) bool {
	if _, ok := s.categories[category]; ok {
		return false
	}
	s.categories[category] = struct{}{}
	return true
}

// Categories returns the known categories in sorted order.
func (s *Store) Categories() []string {
	return slices.Sorted(maps.Keys(s.categories))
}

func (s *Store) resetCategories() {
	s.categories = make(map[string]struct{}, len(s.defaultCategories))
	for _, c := range s.defaultCategories {
		s.categories[c] = struct{}{}
	}
}
