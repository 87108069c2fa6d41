package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segmerge/mergelist"
)

func TestModeBits(t *testing.T) {
	assert.Equal(t, AnnotationMode(0x41), ModeTracing)
	assert.Equal(t, AnnotationMode(0x428), ModeMergeSimple)
	assert.Equal(t, AnnotationMode(0x238), ModeMerge)

	assert.True(t, ModeMerge.Has(ObjectSelection))
	assert.False(t, ModeMergeSimple.Has(ObjectSelection))
	assert.True(t, ModeMergeSimple.Has(ObjectMerge))
	assert.True(t, ModeSelection.Has(ModeTracingAdvanced))

	assert.Equal(t, "merge-simple", ModeMergeSimple.String())
	assert.Equal(t, "brush|object-merge", (Brush | ObjectMerge).String())
	assert.Equal(t, "none", AnnotationMode(0).String())
}

func TestApplyJob(t *testing.T) {
	s := New()
	assert.Equal(t, ModeTracing, s.Mode())

	s.ApplyJob(mergelist.Job{})
	assert.Equal(t, ModeTracing, s.Mode())

	job := mergelist.Job{ID: 3, Campaign: "c"}
	s.ApplyJob(job)
	assert.Equal(t, ModeMergeSimple, s.Mode())
	assert.Equal(t, job, s.Job())
}

func TestDirty(t *testing.T) {
	s := New()
	assert.False(t, s.Dirty())

	s.MarkDirty()
	gen := s.Generation()
	s.MarkDirty()
	assert.True(t, s.Dirty())

	s.MarkSavedAt(gen)
	assert.True(t, s.Dirty(), "a change after the saved generation stays dirty")

	s.MarkSaved()
	assert.False(t, s.Dirty())
}

func TestDefaultFilename(t *testing.T) {
	ts := time.Date(2024, time.March, 7, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "annotation-20240307T0905.000.k.zip", DefaultFilename(ts))

	s := New()
	s.SetFilename("job.zip")
	assert.Equal(t, "job.zip", s.Filename())
}

func TestAutoSaverSaveIfDirty(t *testing.T) {
	s := New()

	var calls int
	fail := true
	a := NewAutoSaver(s, func(context.Context) error {
		calls++
		if fail {
			return errors.New("disk full")
		}
		return nil
	}, time.Hour)

	assert.False(t, a.SaveIfDirty(context.Background()))
	assert.Equal(t, 0, calls)

	s.MarkDirty()
	assert.False(t, a.SaveIfDirty(context.Background()))
	assert.True(t, s.Dirty())

	fail = false
	assert.True(t, a.SaveIfDirty(context.Background()))
	assert.False(t, s.Dirty())
	assert.Equal(t, 2, calls)
}

func TestAutoSaverRun(t *testing.T) {
	s := New()
	s.MarkDirty()

	var saves atomic.Int32
	saved := make(chan struct{}, 1)

	a := NewAutoSaver(s, func(context.Context) error {
		saves.Add(1)
		select {
		case saved <- struct{}{}:
		default:
		}
		return nil
	}, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	select {
	case <-saved:
	case <-time.After(5 * time.Second):
		t.Fatal("autosave did not run")
	}

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), saves.Load())
	assert.False(t, s.Dirty())
}
