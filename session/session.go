// Package session tracks the annotation mode, the current job and
// whether there are unsaved changes.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/segmerge/mergelist"
)

// Session is safe for concurrent use.
type Session struct {
	mu         sync.RWMutex
	mode       AnnotationMode
	job        mergelist.Job
	generation uint64
	saved      uint64
	filename   string
}

// New returns a session in tracing mode without unsaved changes.
func New() *Session {
	return &Session{mode: ModeTracing}
}

// Mode returns the annotation mode.
func (s *Session) Mode() AnnotationMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// SetMode switches the annotation mode.
func (s *Session) SetMode(m AnnotationMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

// Job returns the current job ticket.
func (s *Session) Job() mergelist.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.job
}

// ApplyJob stores the ticket and switches to merge-simple mode when the
// ticket is active.
func (s *Session) ApplyJob(job mergelist.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.job = job
	if job.Active() {
		s.mode = ModeMergeSimple
	}
}

// MarkDirty records a change.
func (s *Session) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
}

// Dirty reports whether changes were made since the last save.
func (s *Session) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation != s.saved
}

// Generation returns a counter incremented by every MarkDirty.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// MarkSaved clears the dirty state.
func (s *Session) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = s.generation
}

// MarkSavedAt records a save of the state at generation gen. Changes made
// after gen keep the session dirty.
func (s *Session) MarkSavedAt(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen > s.saved {
		s.saved = gen
	}
}

// Filename returns the annotation file name, defaulting to DefaultFilename.
func (s *Session) Filename() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filename == "" {
		s.filename = DefaultFilename(time.Now())
	}
	return s.filename
}

// SetFilename sets the annotation file name.
func (s *Session) SetFilename(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filename = name
}

// DefaultFilename derives an archive name from t.
func DefaultFilename(t time.Time) string {
	return fmt.Sprintf("annotation-%sT%s.000.k.zip", t.Format("20060102"), t.Format("1504"))
}
