package engine

import (
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/segmerge/internal/orderedset"
	"github.com/hupe1980/segmerge/model"
)

// DefaultCategories are the prefixed categories offered before any object
// sets its own.
var DefaultCategories = []string{"", "ecs", "mito", "myelin", "neuron", "synapse"}

// Store owns all objects and subobjects of one segmentation.
type Store struct {
	objects    []*Object
	subobjects map[uint64]*SubObject
	idToIndex  map[uint64]uint64

	selected *orderedset.Set[uint64]
	active   *orderedset.Set[uint64]

	// todos holds the ids of objects with the todo flag.
	todos       *roaring64.Bitmap
	lastTodoID  uint64
	hasLastTodo bool

	categories        map[string]struct{}
	defaultCategories []string

	highestObjectID    uint64
	highestSubobjectID uint64

	observers    []subscription
	nextObserver int
	muted        int

	cacheClearer CacheClearer
	logger       *slog.Logger
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		subobjects:        make(map[uint64]*SubObject),
		idToIndex:         make(map[uint64]uint64),
		selected:          orderedset.New[uint64](),
		active:            orderedset.New[uint64](),
		todos:             roaring64.New(),
		defaultCategories: DefaultCategories,
		logger:            slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.resetCategories()

	return s
}

// ObjectCount returns the number of objects.
func (s *Store) ObjectCount() int { return len(s.objects) }

// SubobjectCount returns the number of subobjects.
func (s *Store) SubobjectCount() int { return len(s.subobjects) }

// HighestObjectID returns the largest object id handed out so far.
func (s *Store) HighestObjectID() uint64 { return s.highestObjectID }

// HighestSubobjectID returns the largest subobject id seen so far.
func (s *Store) HighestSubobjectID() uint64 { return s.highestSubobjectID }

// Object returns the object at index. It panics if the index is out of range.
func (s *Store) Object(index uint64) *Object {
	if index >= uint64(len(s.objects)) {
		panic(fmt.Sprintf("engine: object index %d out of range [0,%d)", index, len(s.objects)))
	}
	return s.objects[index]
}

// ObjectByID returns the object with the given id.
func (s *Store) ObjectByID(id uint64) (*Object, bool) {
	index, ok := s.idToIndex[id]
	if !ok {
		return nil, false
	}
	return s.objects[index], true
}

// Objects iterates over all objects in index order.
func (s *Store) Objects() iter.Seq[*Object] {
	return func(yield func(*Object) bool) {
		for _, o := range s.objects {
			if !yield(o) {
				return
			}
		}
	}
}

// Subobject returns the subobject with the given id.
func (s *Store) Subobject(id uint64) (*SubObject, bool) {
	sub, ok := s.subobjects[id]
	return sub, ok
}

// SubobjectExists reports whether any object contains the subobject id.
func (s *Store) SubobjectExists(id uint64) bool {
	_, ok := s.subobjects[id]
	return ok
}

// Subobjects iterates over all subobjects in ascending id order.
func (s *Store) Subobjects() iter.Seq[*SubObject] {
	return func(yield func(*SubObject) bool) {
		for _, id := range slices.Sorted(maps.Keys(s.subobjects)) {
			if !yield(s.subobjects[id]) {
				return
			}
		}
	}
}

// CreateObject creates an object containing the given subobjects, which
// are created as needed. Without WithObjectID the next free id is used.
// It panics if subobjectIDs is empty.
func (s *Store) CreateObject(location model.Coordinate, subobjectIDs []uint64, opts ...CreateOption) (*Object, error) {
	if len(subobjectIDs) == 0 {
		panic("engine: object requires at least one subobject")
	}

	var o createOptions
	for _, opt := range opts {
		opt(&o)
	}

	id := s.highestObjectID + 1
	if o.hasID {
		id = o.id
	}

	if _, exists := s.idToIndex[id]; exists {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}

	ids := slices.Clone(subobjectIDs)
	slices.Sort(ids)

	for i := 1; i < len(ids); i++ {
		if ids[i] == ids[i-1] {
			return nil, fmt.Errorf("%w: object %d, subobject %d", ErrAlreadyContained, id, ids[i])
		}
	}

	obj := &Object{
		id:        id,
		todo:      o.todo,
		immutable: o.immutable,
		location:  location,
	}

	return s.appendObject(obj, ids), nil
}

// appendObject adds obj with the given sorted, duplicate-free subobjects.
func (s *Store) appendObject(obj *Object, subobjectIDs []uint64) *Object {
	s.Emit(Event{Kind: EventBeforeAppend})

	obj.index = uint64(len(s.objects))
	obj.subobjects = subobjectIDs
	s.objects = append(s.objects, obj)
	s.idToIndex[obj.id] = obj.index
	s.highestObjectID = max(s.highestObjectID, obj.id)

	for _, id := range subobjectIDs {
		sub := s.subobjectOrCreate(id)
		sub.objects = append(sub.objects, obj.index)
	}

	if obj.todo {
		s.todos.Add(obj.id)
	}

	s.Emit(Event{Kind: EventAppended})

	return obj
}

func (s *Store) subobjectOrCreate(id uint64) *SubObject {
	sub, ok := s.subobjects[id]
	if !ok {
		sub = &SubObject{id: id}
		s.subobjects[id] = sub
		s.highestSubobjectID = max(s.highestSubobjectID, id)
	}
	return sub
}

// newObjectFrom appends an object with the next free id.
func (s *Store) newObjectFrom(location model.Coordinate, subobjectIDs []uint64) *Object {
	return s.appendObject(&Object{id: s.highestObjectID + 1, location: location}, subobjectIDs)
}

// AddSubobject attaches a subobject to the object at index.
func (s *Store) AddSubobject(index, subobjectID uint64) error {
	obj := s.Object(index)

	if !insertSorted(&obj.subobjects, subobjectID) {
		return fmt.Errorf("%w: object %d, subobject %d", ErrAlreadyContained, obj.id, subobjectID)
	}

	sub := s.subobjectOrCreate(subobjectID)
	insertSorted(&sub.objects, obj.index)

	if obj.selected {
		sub.selectedCount++
	}
	if s.active.Contains(obj.index) {
		sub.activeCount++
	}

	s.emitIndex(EventChanged, obj.index)

	return nil
}

// SubobjectFromID returns the subobject with id. If none exists, an object
// owning just that subobject is created at location.
func (s *Store) SubobjectFromID(id uint64, location model.Coordinate) *SubObject {
	if sub, ok := s.subobjects[id]; ok {
		return sub
	}

	s.newObjectFrom(location, []uint64{id})

	return s.subobjects[id]
}

// RemoveObject deletes the object at index by swapping the last object into
// its slot. Subobjects left without parents are deleted.
func (s *Store) RemoveObject(index uint64) {
	obj := s.Object(index)

	s.UnselectObject(index)

	for _, id := range obj.subobjects {
		sub := s.subobjects[id]
		removeSorted(&sub.objects, obj.index)
		if len(sub.objects) == 0 {
			delete(s.subobjects, id)
		}
	}

	lastIndex := uint64(len(s.objects) - 1)
	if last := s.objects[lastIndex]; last != obj {
		freed := obj.index

		for _, id := range last.subobjects {
			sub := s.subobjects[id]
			removeSorted(&sub.objects, lastIndex)
			insertSorted(&sub.objects, freed)
		}

		s.selected.Replace(lastIndex, freed)
		s.active.Replace(lastIndex, freed)

		s.objects[freed], s.objects[lastIndex] = last, obj
		last.index, obj.index = freed, lastIndex
		s.idToIndex[last.id] = freed

		s.emitIndex(EventChanged, freed)
		s.emitIndex(EventSelectionChanged, freed)
		s.emitIndex(EventSelectionChanged, lastIndex)
	}

	s.Emit(Event{Kind: EventBeforeRemove})

	if obj.id == s.highestObjectID && s.highestObjectID > 0 {
		s.highestObjectID--
	}
	if obj.todo {
		s.todos.Remove(obj.id)
	}

	delete(s.idToIndex, obj.id)
	s.objects[lastIndex] = nil
	s.objects = s.objects[:lastIndex]

	s.Emit(Event{Kind: EventRemoved})
}

// Clear removes all objects, subobjects and selections and restores the
// built-in categories.
func (s *Store) Clear() {
	s.selected.Clear()
	s.active.Clear()
	clear(s.objects)
	s.objects = s.objects[:0]
	clear(s.subobjects)
	clear(s.idToIndex)
	s.todos.Clear()
	s.hasLastTodo = false
	s.highestObjectID = 0
	s.highestSubobjectID = 0
	s.resetCategories()

	if s.cacheClearer != nil {
		s.cacheClearer.NotifyCacheClear()
	}

	s.logger.Debug("segmentation cleared")

	s.Emit(Event{Kind: EventReset})
	s.Emit(Event{Kind: EventSelectionReset})
	s.Emit(Event{Kind: EventTouchedReset})
	s.Emit(Event{Kind: EventCategoriesChanged})
	s.Emit(Event{Kind: EventTodosChanged})
}

// Update runs fn against a copy of the store. If fn succeeds the copy
// replaces the store contents and observers receive a reset; otherwise the
// store is left untouched.
func (s *Store) Update(fn func(tx *Store) error) error {
	tx := s.clone()

	if err := fn(tx); err != nil {
		return err
	}

	s.objects = tx.objects
	s.subobjects = tx.subobjects
	s.idToIndex = tx.idToIndex
	s.selected = tx.selected
	s.active = tx.active
	s.todos = tx.todos
	s.lastTodoID, s.hasLastTodo = tx.lastTodoID, tx.hasLastTodo
	s.categories = tx.categories
	s.highestObjectID = tx.highestObjectID
	s.highestSubobjectID = tx.highestSubobjectID

	s.Emit(Event{Kind: EventReset})
	s.Emit(Event{Kind: EventSelectionReset})
	s.Emit(Event{Kind: EventCategoriesChanged})
	s.Emit(Event{Kind: EventTodosChanged})

	return nil
}

// clone returns a deep copy without observers or collaborators.
func (s *Store) clone() *Store {
	c := &Store{
		objects:            make([]*Object, len(s.objects)),
		subobjects:         make(map[uint64]*SubObject, len(s.subobjects)),
		idToIndex:          maps.Clone(s.idToIndex),
		selected:           orderedset.New[uint64](),
		active:             orderedset.New[uint64](),
		todos:              s.todos.Clone(),
		lastTodoID:         s.lastTodoID,
		hasLastTodo:        s.hasLastTodo,
		categories:         maps.Clone(s.categories),
		defaultCategories:  s.defaultCategories,
		highestObjectID:    s.highestObjectID,
		highestSubobjectID: s.highestSubobjectID,
		logger:             s.logger,
	}

	for i, o := range s.objects {
		c.objects[i] = o.clone()
	}
	for id, sub := range s.subobjects {
		cp := *sub
		cp.objects = slices.Clone(sub.objects)
		c.subobjects[id] = &cp
	}
	for idx := range s.selected.All() {
		c.selected.PushBack(idx)
	}
	for idx := range s.active.All() {
		c.active.PushBack(idx)
	}

	return c
}
