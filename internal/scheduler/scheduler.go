// Package scheduler runs deferred workspace callbacks on wall-clock timers.
package scheduler

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Timer fires each callback once, at its deadline, while holding lock.
//
// How it fits with request handling:
//   - The lock is the same one the Serialize middleware takes, so a
//     callback (a scheduled delivery, a standup ending) never interleaves
//     with a request and sees the workspace in a consistent state.
//   - Callbacks capture ids, not pointers, and resolve them again when
//     they run; a record removed in the meantime makes the callback a
//     no-op.
//   - Stop cancels everything still pending. Anything that must survive a
//     restart is persisted in the snapshot and rescheduled by Restore.
type Timer struct {
	lock   sync.Locker
	logger *zap.Logger

	mu      sync.Mutex
	pending map[*time.Timer]struct{}
	stopped bool
}

func New(lock sync.Locker, logger *zap.Logger) *Timer {
	return &Timer{
		lock:    lock,
		logger:  logger,
		pending: make(map[*time.Timer]struct{}),
	}
}

// At schedules fn. A deadline in the past fires immediately.
func (t *Timer) At(when time.Time, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(time.Until(when), func() {
		t.mu.Lock()
		delete(t.pending, timer)
		stopped := t.stopped
		t.mu.Unlock()
		if stopped {
			return
		}
		t.run(fn)
	})
	t.pending[timer] = struct{}{}
}

func (t *Timer) run(fn func()) {
	t.lock.Lock()
	defer t.lock.Unlock()
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("scheduled callback panicked", zap.Any("panic", r))
		}
	}()
	fn()
}

// Pending reports how many callbacks have not fired yet.
func (t *Timer) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Stop cancels everything still pending. Work lost this way is
// rescheduled from the snapshot on the next start.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	for timer := range t.pending {
		timer.Stop()
	}
	clear(t.pending)
}
