package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segmerge/model"
)

func TestTodoList(t *testing.T) {
	s := New()
	mustCreate(t, s, []uint64{1}, WithObjectID(9), WithTodo(true))
	mustCreate(t, s, []uint64{2}, WithObjectID(4), WithTodo(true))
	mustCreate(t, s, []uint64{3}, WithObjectID(6))

	assert.Equal(t, 2, s.TodosLeft())
	assert.Equal(t, []uint64{1, 0}, s.TodoList(), "ordered by object id")

	s.SetTodo(2, true)
	assert.Equal(t, []uint64{1, 2, 0}, s.TodoList())

	s.RemoveObject(1)
	assert.Equal(t, 2, s.TodosLeft())
	require.NoError(t, s.CheckInvariants())
}

func TestSelectNextAndPrevTodo(t *testing.T) {
	s := New()
	a := mustCreate(t, s, []uint64{1}, WithTodo(true))
	b := mustCreate(t, s, []uint64{2}, WithTodo(true))

	next, ok := s.SelectNextTodo()
	require.True(t, ok)
	assert.Same(t, a, next)
	assert.True(t, a.Selected())

	next, ok = s.SelectNextTodo()
	require.True(t, ok)
	assert.Same(t, b, next)
	assert.False(t, a.Todo())
	assert.False(t, a.Selected())
	assert.Equal(t, 1, s.TodosLeft())

	prev, ok := s.SelectPrevTodo()
	require.True(t, ok)
	assert.Same(t, a, prev)
	assert.True(t, a.Todo())
	assert.False(t, b.Selected())
	assert.Equal(t, []uint64{a.Index()}, s.Selected())

	s.ClearObjectSelection()
	s.SetTodo(a.Index(), false)
	s.SetTodo(b.Index(), false)
	_, ok = s.SelectNextTodo()
	assert.False(t, ok)
	require.NoError(t, s.CheckInvariants())
}

func TestMarkSelectedForSplitting(t *testing.T) {
	s := New()
	a := mustCreate(t, s, []uint64{1}, WithTodo(true))
	b := mustCreate(t, s, []uint64{2}, WithTodo(true))

	_, ok := s.MarkSelectedForSplitting(model.Coordinate{})
	assert.False(t, ok, "needs a selection")

	s.SelectObject(a.Index())
	pos := model.Coordinate{X: 3, Y: 2, Z: 1}

	next, ok := s.MarkSelectedForSplitting(pos)
	require.True(t, ok)
	assert.Same(t, b, next)
	assert.Equal(t, SplitRequestComment, a.Comment())
	assert.Equal(t, pos, a.Location())
	assert.False(t, a.Todo())
}
