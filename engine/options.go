package engine

import "log/slog"

// CacheClearer is notified when the store is cleared so cached voxel data
// derived from the previous state can be dropped. Implementations must not
// block: the store does not wait for the clear to finish.
type CacheClearer interface {
	NotifyCacheClear()
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for the store.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCacheClearer registers the collaborator notified on Clear.
func WithCacheClearer(c CacheClearer) Option {
	return func(s *Store) {
		s.cacheClearer = c
	}
}

// WithCategories replaces the built-in category set that Clear restores.
func WithCategories(categories ...string) Option {
	return func(s *Store) {
		s.defaultCategories = append([]string(nil), categories...)
	}
}

type createOptions struct {
	id        uint64
	hasID     bool
	todo      bool
	immutable bool
}

// CreateOption configures CreateObject.
type CreateOption func(*createOptions)

// WithObjectID requests a specific object id instead of the next free one.
func WithObjectID(id uint64) CreateOption {
	return func(o *createOptions) {
		o.id = id
		o.hasID = true
	}
}

// WithTodo sets the initial todo flag.
func WithTodo(todo bool) CreateOption {
	return func(o *createOptions) {
		o.todo = todo
	}
}

// WithImmutable sets the immutable flag.
func WithImmutable(immutable bool) CreateOption {
	return func(o *createOptions) {
		o.immutable = immutable
	}
}
