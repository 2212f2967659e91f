// Package clock abstracts the two timer shapes the editor needs: a repeating
// tick for animation playback and a one-shot timer for debounced autosave.
// Tests drive both through Manual instead of sleeping.
package clock

import (
	"sync"
	"time"
)

// Timer is a cancellable timer. Stop is idempotent and reports whether the
// call stopped a timer that was still active.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	// Every calls fn every d until the returned Timer is stopped.
	Every(d time.Duration, fn func()) Timer
	// AfterFunc calls fn once after d unless the returned Timer is stopped.
	AfterFunc(d time.Duration, fn func()) Timer
	Now() time.Time
}

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func (realClock) Every(d time.Duration, fn func()) Timer {
	t := &ticker{done: make(chan struct{})}
	tk := time.NewTicker(d)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-t.done:
				return
			case <-tk.C:
				// A Stop issued while fn was running wins over a queued tick.
				select {
				case <-t.done:
					return
				default:
				}
				fn()
			}
		}
	}()
	return t
}

type ticker struct {
	once sync.Once
	done chan struct{}
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		close(t.done)
		stopped = true
	})
	return stopped
}
