// Package playback implements the slideshow state machine: which scene is
// shown, whether it auto-advances, and how long each scene stays up.
package playback

import (
	"sync"
	"time"
)

const (
	// DefaultDelay is the time each scene is shown while playing
	DefaultDelay = 3000 * time.Millisecond
	// MinDelay is the shortest accepted scene delay
	MinDelay = 500 * time.Millisecond
)

// State is a snapshot of the controller
type State struct {
	Index   int
	Playing bool
	Delay   time.Duration
	Count   int
}

// Option configures a Controller
type Option func(*Controller)

// WithClock replaces the wall clock, mainly for tests
func WithClock(c Clock) Option {
	return func(ctrl *Controller) {
		ctrl.clock = c
	}
}

// WithDelay sets the initial scene delay (clamped to MinDelay)
func WithDelay(d time.Duration) Option {
	return func(ctrl *Controller) {
		ctrl.delay = clampDelay(d)
	}
}

// WithOnChange registers a callback invoked after every state change.
// It runs outside the controller lock, possibly on a timer goroutine, and
// may read State but must not change it. Calls are serialized and each
// receives the state current at call time, so the last call always
// carries the latest state.
func WithOnChange(f func(State)) Option {
	return func(ctrl *Controller) {
		ctrl.onChange = f
	}
}

// Controller owns the playback state and the single auto-advance timer
type Controller struct {
	clock    Clock
	onChange func(State)
	notifyMu sync.Mutex

	mu      sync.Mutex
	index   int
	playing bool
	delay   time.Duration
	count   int

	timer Timer
	// Bumped on every reschedule so a timer that fired while being
	// cancelled cannot advance.
	gen uint64
}

// New creates a paused controller with no scenes
func New(opts ...Option) *Controller {
	c := &Controller{
		clock: realClock{},
		delay: DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// PlayPause toggles auto-advance. No effect without scenes.
func (c *Controller) PlayPause() {
	c.update(func() bool {
		if c.count == 0 {
			return false
		}
		c.playing = !c.playing
		return true
	})
}

// Next shows the following scene, wrapping around, and pauses
func (c *Controller) Next() {
	c.update(func() bool {
		if c.count == 0 {
			return false
		}
		c.index = (c.index + 1) % c.count
		c.playing = false
		return true
	})
}

// Prev shows the previous scene, wrapping around, and pauses
func (c *Controller) Prev() {
	c.update(func() bool {
		if c.count == 0 {
			return false
		}
		c.index = (c.index - 1 + c.count) % c.count
		c.playing = false
		return true
	})
}

// GoTo jumps to scene i and pauses. Returns false if i is out of range.
func (c *Controller) GoTo(i int) bool {
	ok := false
	c.update(func() bool {
		if i < 0 || i >= c.count {
			return false
		}
		c.index = i
		c.playing = false
		ok = true
		return true
	})
	return ok
}

// SetDelay changes the scene delay and returns the value applied
func (c *Controller) SetDelay(d time.Duration) time.Duration {
	d = clampDelay(d)
	c.update(func() bool {
		if c.delay == d {
			return false
		}
		c.delay = d
		return true
	})
	return d
}

// SetDelayMillis is SetDelay for values entered in milliseconds
func (c *Controller) SetDelayMillis(ms int) time.Duration {
	return c.SetDelay(time.Duration(ms) * time.Millisecond)
}

// SetCount updates the number of scenes, keeping the index in range
func (c *Controller) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	c.update(func() bool {
		if c.count == n {
			return false
		}
		c.count = n
		switch {
		case n == 0:
			c.index = 0
			c.playing = false
		case c.index >= n:
			c.index = n - 1
		}
		return true
	})
}

// Reset starts over for a new set of n scenes
func (c *Controller) Reset(n int) {
	if n < 0 {
		n = 0
	}
	c.update(func() bool {
		c.index = 0
		c.playing = false
		c.count = n
		return true
	})
}

// Stop cancels any pending advance and pauses
func (c *Controller) Stop() {
	c.mu.Lock()
	c.playing = false
	c.cancelLocked()
	c.mu.Unlock()
}

// update applies mutate under the lock. When it reports a change, the
// timer is rescheduled and the callback notified.
func (c *Controller) update(mutate func() bool) {
	c.mu.Lock()
	if !mutate() {
		c.mu.Unlock()
		return
	}
	c.rescheduleLocked()
	c.mu.Unlock()

	c.notify()
}

// rescheduleLocked cancels the pending timer and arms a new one if playing
func (c *Controller) rescheduleLocked() {
	c.cancelLocked()
	if !c.playing || c.count == 0 {
		return
	}

	gen := c.gen
	c.timer = c.clock.AfterFunc(c.delay, func() {
		c.advance(gen)
	})
}

func (c *Controller) cancelLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// advance is the timer callback
func (c *Controller) advance(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || !c.playing || c.count == 0 {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.index = (c.index + 1) % c.count
	c.rescheduleLocked()
	c.mu.Unlock()

	c.notify()
}

func (c *Controller) snapshot() State {
	return State{
		Index:   c.index,
		Playing: c.playing,
		Delay:   c.delay,
		Count:   c.count,
	}
}

// notify delivers a fresh snapshot rather than the one taken with the
// change, so concurrent changes cannot be reported out of order.
func (c *Controller) notify() {
	if c.onChange == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.onChange(c.State())
}

func clampDelay(d time.Duration) time.Duration {
	if d < MinDelay {
		return MinDelay
	}
	return d
}
