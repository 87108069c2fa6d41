package engine

import "github.com/hupe1980/segmerge/model"

// SplitRequestComment marks objects the annotator flagged for splitting.
const SplitRequestComment = "Split request"

// SetTodo sets the todo flag of the object at index.
func (s *Store) SetTodo(index uint64, todo bool) {
	obj := s.Object(index)
	s.setTodo(obj, todo)
	s.emitIndex(EventChanged, obj.index)
	s.Emit(Event{Kind: EventTodosChanged})
}

func (s *Store) setTodo(obj *Object, todo bool) {
	obj.todo = todo
	if todo {
		s.todos.Add(obj.id)
	} else {
		s.todos.Remove(obj.id)
	}
}

// TodosLeft returns the number of objects flagged todo.
func (s *Store) TodosLeft() int {
	return int(s.todos.GetCardinality())
}

// TodoList returns the indices of todo objects ordered by object id.
func (s *Store) TodoList() []uint64 {
	out := make([]uint64, 0, s.todos.GetCardinality())
	it := s.todos.Iterator()
	for it.HasNext() {
		out = append(out, s.idToIndex[it.Next()])
	}
	return out
}

// SelectNextTodo clears the todo flag of the front selected object,
// unselects it and selects the todo object with the smallest id.
func (s *Store) SelectNextTodo() (*Object, bool) {
	if obj, ok := s.FrontSelected(); ok {
		s.lastTodoID, s.hasLastTodo = obj.id, true
		s.setTodo(obj, false)
		s.emitIndex(EventChanged, obj.index)
		s.UnselectObject(obj.index)
	}

	defer s.Emit(Event{Kind: EventTodosChanged})

	if s.todos.IsEmpty() {
		return nil, false
	}

	next := s.objects[s.idToIndex[s.todos.Minimum()]]
	s.SelectObject(next.index)

	return next, true
}

// SelectPrevTodo unselects the front selected object and reselects the
// object most recently completed by SelectNextTodo, flagging it todo again.
func (s *Store) SelectPrevTodo() (*Object, bool) {
	if obj, ok := s.FrontSelected(); ok {
		s.UnselectObject(obj.index)
	}

	if !s.hasLastTodo {
		return nil, false
	}

	prev, ok := s.ObjectByID(s.lastTodoID)
	if !ok {
		return nil, false
	}

	s.setTodo(prev, true)
	s.emitIndex(EventChanged, prev.index)
	s.SelectObject(prev.index)
	s.Emit(Event{Kind: EventTodosChanged})

	return prev, true
}

// MarkSelectedForSplitting comments the front selected object as a split
// request at pos and advances to the next todo object.
func (s *Store) MarkSelectedForSplitting(pos model.Coordinate) (*Object, bool) {
	obj, ok := s.FrontSelected()
	if !ok {
		return nil, false
	}

	obj.comment = SplitRequestComment
	obj.location = pos
	s.emitIndex(EventChanged, obj.index)

	return s.SelectNextTodo()
}
