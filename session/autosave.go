package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// DefaultAutoSaveInterval is the pause between two automatic saves.
const DefaultAutoSaveInterval = 5 * time.Minute

// SaveFunc persists the session state.
type SaveFunc func(ctx context.Context) error

// AutoSaver saves a dirty session at most once per interval.
type AutoSaver struct {
	session *Session
	save    SaveFunc
	limiter *rate.Limiter
	logger  *slog.Logger
}

// AutoSaverOption configures an AutoSaver.
type AutoSaverOption func(*AutoSaver)

// WithLogger sets the logger used to report failed saves.
func WithLogger(l *slog.Logger) AutoSaverOption {
	return func(a *AutoSaver) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAutoSaver creates an AutoSaver. A non-positive interval selects
// DefaultAutoSaveInterval.
func NewAutoSaver(s *Session, save SaveFunc, interval time.Duration, opts ...AutoSaverOption) *AutoSaver {
	if interval <= 0 {
		interval = DefaultAutoSaveInterval
	}

	a := &AutoSaver{
		session: s,
		save:    save,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.limiter = rate.NewLimiter(rate.Every(interval), 1)
	// The first token is spent so the first save happens one interval in.
	a.limiter.Allow()

	return a
}

// Run blocks until ctx is done, saving whenever the session is dirty.
// It returns nil on cancellation.
func (a *AutoSaver) Run(ctx context.Context) error {
	for {
		if err := a.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		a.SaveIfDirty(ctx)
	}
}

// SaveIfDirty saves once if the session has unsaved changes.
func (a *AutoSaver) SaveIfDirty(ctx context.Context) bool {
	if !a.session.Dirty() {
		return false
	}

	gen := a.session.Generation()
	if err := a.save(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			a.logger.Error("autosave failed", "error", err)
		}
		return false
	}

	a.session.MarkSavedAt(gen)
	a.logger.Debug("autosaved", "generation", gen)

	return true
}
