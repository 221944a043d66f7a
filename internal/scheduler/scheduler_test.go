package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestTimer_FiresUnderLock(t *testing.T) {
	var mu sync.Mutex
	s := New(&mu, zaptest.NewLogger(t))

	done := make(chan bool, 1)
	s.At(time.Now().Add(10*time.Millisecond), func() {
		// TryLock fails if the callback holds mu.
		done <- !mu.TryLock()
	})

	select {
	case held := <-done:
		assert.True(t, held)
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
	}
}

func TestTimer_PastDeadlineFiresNow(t *testing.T) {
	var mu sync.Mutex
	s := New(&mu, zaptest.NewLogger(t))

	var fired atomic.Int32
	s.At(time.Now().Add(-time.Hour), func() { fired.Add(1) })
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return s.Pending() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestTimer_Stop(t *testing.T) {
	var mu sync.Mutex
	s := New(&mu, zaptest.NewLogger(t))

	var fired atomic.Int32
	s.At(time.Now().Add(50*time.Millisecond), func() { fired.Add(1) })
	assert.Equal(t, 1, s.Pending())
	s.Stop()
	s.At(time.Now(), func() { fired.Add(1) })

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, fired.Load())
	assert.Zero(t, s.Pending())
}

func TestTimer_RecoversPanics(t *testing.T) {
	var mu sync.Mutex
	s := New(&mu, zaptest.NewLogger(t))

	s.At(time.Now(), func() { panic("boom") })
	var fired atomic.Int32
	s.At(time.Now().Add(20*time.Millisecond), func() { fired.Add(1) })
	assert.Eventually(t, func() bool { return fired.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool {
		if !mu.TryLock() {
			return false
		}
		mu.Unlock()
		return true
	}, 2*time.Second, 5*time.Millisecond, "lock released after panic")
}
