package orderedset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_PushAndOrder(t *testing.T) {
	s := New[uint64]()

	assert.True(t, s.PushBack(3))
	assert.True(t, s.PushBack(1))
	assert.False(t, s.PushBack(3), "duplicate push must be a no-op")
	assert.True(t, s.PushFront(7))

	assert.Equal(t, []uint64{7, 3, 1}, s.Slice())
	assert.Equal(t, 3, s.Len())

	front, ok := s.Front()
	require.True(t, ok)
	assert.Equal(t, uint64(7), front)

	back, ok := s.Back()
	require.True(t, ok)
	assert.Equal(t, uint64(1), back)
}

func TestSet_Remove(t *testing.T) {
	s := New[uint64]()
	for _, v := range []uint64{1, 2, 3} {
		s.PushBack(v)
	}

	assert.True(t, s.Remove(2))
	assert.False(t, s.Remove(2))
	assert.False(t, s.Contains(2))
	assert.Equal(t, []uint64{1, 3}, s.Slice())

	s.Clear()
	assert.True(t, s.Empty())
	_, ok := s.Front()
	assert.False(t, ok)
	_, ok = s.Back()
	assert.False(t, ok)
}

func TestSet_Replace(t *testing.T) {
	tests := []struct {
		name     string
		initial  []uint64
		old, new uint64
		want     []uint64
	}{
		{"keeps position", []uint64{4, 5, 6}, 5, 9, []uint64{4, 9, 6}},
		{"absent old", []uint64{4, 5}, 8, 9, []uint64{4, 5}},
		{"same value", []uint64{4, 5}, 5, 5, []uint64{4, 5}},
		{"collapses duplicate", []uint64{4, 5, 6}, 6, 4, []uint64{4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New[uint64]()
			for _, v := range tt.initial {
				s.PushBack(v)
			}
			s.Replace(tt.old, tt.new)
			assert.Equal(t, tt.want, s.Slice())
			assert.Equal(t, len(tt.want), s.Len())
			for _, v := range tt.want {
				assert.True(t, s.Contains(v))
			}
		})
	}
}

func TestSet_AllStopsEarly(t *testing.T) {
	s := New[int]()
	for i := range 10 {
		s.PushBack(i)
	}
	var seen []int
	for v := range s.All() {
		if v == 3 {
			break
		}
		seen = append(seen, v)
	}
	assert.Equal(t, []int{0, 1, 2}, seen)
}
