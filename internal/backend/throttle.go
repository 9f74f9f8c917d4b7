package backend

import (
	"sync"
	"time"
)

// throttle coalesces bursts of events per key: fire runs once the key has
// been quiet for interval. Writers usually produce several write events per
// file, and only the last one should trigger a load.
type throttle struct {
	interval time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{interval: interval, timers: make(map[string]*time.Timer)}
}

// touch (re)arms the timer for key. It reports whether a pending fire for
// the same key was cancelled.
func (t *throttle) touch(key string, fire func()) bool {
	if t.interval <= 0 {
		go fire()
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	cancelled := false
	if prev, ok := t.timers[key]; ok {
		cancelled = prev.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(t.interval, func() {
		t.mu.Lock()
		if t.timers[key] == timer {
			delete(t.timers, key)
		}
		t.mu.Unlock()
		fire()
	})
	t.timers[key] = timer
	return cancelled
}

// pending reports how many keys are waiting to fire.
func (t *throttle) pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}

// stop cancels every pending fire and returns how many were cancelled.
func (t *throttle) stop() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	cancelled := 0
	for key, timer := range t.timers {
		if timer.Stop() {
			cancelled++
		}
		delete(t.timers, key)
	}
	return cancelled
}
