package runner

import (
	"sync"
	"time"
)

// Scheduler abstracts the repeating one-second tick so tests can drive time
// by hand. Every starts fn on the given interval and returns a cancel func;
// cancel is idempotent.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

type tickerScheduler struct{}

// NewScheduler returns the real wall-clock scheduler backed by time.Ticker.
func NewScheduler() Scheduler { return tickerScheduler{} }

func (tickerScheduler) Every(interval time.Duration, fn func()) func() {
	t := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once
	go func() {
		for {
			select {
			case <-t.C:
				fn()
			case <-done:
				t.Stop()
				return
			}
		}
	}()
	return func() { once.Do(func() { close(done) }) }
}

// Timer is the per-question countdown. Activating a question with a positive
// time limit starts a one-second tick; each tick decrements the remaining
// seconds, and the first decrement that reaches zero fires onExpire exactly
// once and stops the tick. A zero limit never starts a timer, so an untimed
// question can never expire.
type Timer struct {
	sched Scheduler

	mu        sync.Mutex
	gen       int // bumped per activation; ticks from an older schedule are dropped
	limit     int
	remaining int
	expired   bool
	cancel    func()
	onExpire  func()
}

func NewTimer(sched Scheduler) *Timer {
	return &Timer{sched: sched}
}

// Activate resets the timer for a new question. Any in-flight countdown is
// cancelled first. limit <= 0 leaves the timer inactive and onExpire unused.
func (t *Timer) Activate(limitSec int, onExpire func()) {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.gen++
	t.limit = limitSec
	t.remaining = limitSec
	t.expired = false
	t.onExpire = onExpire
	if limitSec > 0 {
		// Each scheduled task carries its generation: cancelling a schedule
		// does not stop a tick already dispatched from it, so a tick that
		// lands after reactivation must not touch the new countdown.
		gen := t.gen
		t.cancel = t.sched.Every(time.Second, func() { t.tick(gen) })
	}
	t.mu.Unlock()
}

// Stop cancels the countdown permanently (terminal states).
func (t *Timer) Stop() {
	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.mu.Unlock()
}

// Remaining returns the seconds left for the active question (0 if untimed).
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remaining < 0 {
		return 0
	}
	return t.remaining
}

// Limit returns the active question's time limit in seconds.
func (t *Timer) Limit() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.limit
}

func (t *Timer) tick(gen int) {
	t.mu.Lock()
	if gen != t.gen || t.expired || t.cancel == nil {
		t.mu.Unlock()
		return
	}
	t.remaining--
	if t.remaining > 0 {
		t.mu.Unlock()
		return
	}
	t.remaining = 0
	t.expired = true
	t.cancel()
	t.cancel = nil
	fire := t.onExpire
	t.mu.Unlock()

	// Fired outside the lock: the expiry handler re-enters the timer when
	// the sequencer activates the next question.
	if fire != nil {
		fire()
	}
}
