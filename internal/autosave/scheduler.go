// Package autosave coalesces bursts of edits into a single delayed write.
//
// Every edit calls Schedule, which replaces the pending timer instead of
// stacking another one. Only the last snapshot of a burst reaches the
// Saver, delay after the last edit.
package autosave

import (
	"fmt"
	"sync"
	"time"

	"github.com/thruflo/pixl/internal/clock"
	"github.com/thruflo/pixl/internal/logging"
	"github.com/thruflo/pixl/internal/sprite"
)

// DefaultDelay is the quiet period after the last edit before a write.
const DefaultDelay = 500 * time.Millisecond

// Saver persists a sprite. state.Store implements it.
type Saver interface {
	SaveSprite(s *sprite.Sprite) error
}

// Source yields the sprite to persist at write time. animation.Controller
// implements it; the snapshot is taken when the timer fires, not when the
// edit happened.
type Source interface {
	Snapshot() *sprite.Sprite
}

// SourceFunc adapts a function to Source.
type SourceFunc func() *sprite.Sprite

// Snapshot calls f.
func (f SourceFunc) Snapshot() *sprite.Sprite { return f() }

// Notifier is told about failed writes so the user can be alerted without
// blocking the editor.
type Notifier interface {
	SaveFailed(spriteID string, err error)
}

// Scheduler is a trailing-edge debouncer around a Saver.
type Scheduler struct {
	mu       sync.Mutex
	saveMu   sync.Mutex
	saver    Saver
	delay    time.Duration
	clock    clock.Clock
	notifier Notifier
	log      *logging.Logger

	timer   clock.Timer
	pending Source
	gen     uint64
	saves   int
	lastErr error
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the clock used for the delay.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithNotifier sets the failure notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Scheduler) { s.notifier = n }
}

// New creates a Scheduler. A non-positive delay falls back to DefaultDelay.
func New(saver Saver, delay time.Duration, opts ...Option) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	s := &Scheduler{
		saver: saver,
		delay: delay,
		clock: clock.Real(),
		log:   logging.With("component", "autosave"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Delay returns the configured quiet period.
func (s *Scheduler) Delay() time.Duration { return s.delay }

// Schedule arms (or re-arms) the single pending write for src.
func (s *Scheduler) Schedule(src Source) {
	if src == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.pending = src
	s.timer = s.clock.AfterFunc(s.delay, func() { s.fire(gen) })
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.pending == nil {
		s.mu.Unlock()
		return
	}
	src := s.takeLocked()
	s.mu.Unlock()

	// Errors are already logged and notified.
	_ = s.write(src)
}

// takeLocked clears the pending write and returns its source.
func (s *Scheduler) takeLocked() Source {
	src := s.pending
	s.pending = nil
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	return src
}

func (s *Scheduler) write(src Source) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	snap := src.Snapshot()
	if snap == nil {
		return nil
	}
	err := s.saver.SaveSprite(snap)

	s.mu.Lock()
	s.lastErr = err
	if err == nil {
		s.saves++
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("autosave failed", "sprite", snap.ID, "error", err)
		if s.notifier != nil {
			s.notifier.SaveFailed(snap.ID, err)
		}
		return fmt.Errorf("failed to autosave sprite %s: %w", snap.ID, err)
	}
	s.log.Debug("autosaved", "sprite", snap.ID, "frames", len(snap.Frames))
	return nil
}

// Flush writes the pending snapshot now, if any, and cancels the timer.
func (s *Scheduler) Flush() error {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return nil
	}
	src := s.takeLocked()
	s.mu.Unlock()
	return s.write(src)
}

// Stop cancels any pending write without performing it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.log.Debug("discarded pending autosave")
	}
	s.takeLocked()
}

// Pending reports whether a write is scheduled.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Saves returns the number of successful writes.
func (s *Scheduler) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// LastError returns the error of the most recent write, nil on success.
func (s *Scheduler) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
