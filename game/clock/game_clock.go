package clock

import (
	"sync"
	"time"
)

// State is the lifecycle state of a GameClock.
type State int

const (
	Idle State = iota
	Running
	Paused
	Expired
	Cancelled
)

// String returns the lowercase state name used in API payloads.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Expired:
		return "expired"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// GameClock is a one-shot countdown with pause/resume.
type GameClock struct {
	mu sync.Mutex

	clock    Clock
	duration time.Duration
	onExpire func()

	state     State
	deadline  time.Time     // valid while Running
	remaining time.Duration // valid while Paused
	timer     Timer

	// generation invalidates callbacks of timers that were stopped too late.
	generation uint64
}

// NewGameClock creates an idle countdown of the given duration. onExpire runs
// on the clock's goroutine, without any GameClock lock held.
func NewGameClock(c Clock, duration time.Duration, onExpire func()) *GameClock {
	if c == nil {
		c = Real{}
	}
	return &GameClock{
		clock:    c,
		duration: duration,
		onExpire: onExpire,
	}
}

// Start begins a full-length countdown. It returns false when the clock is
// already Running or Paused.
func (gc *GameClock) Start() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if gc.state == Running || gc.state == Paused {
		return false
	}
	gc.arm(gc.duration)
	return true
}

// Pause freezes the countdown. It returns false unless the clock is Running.
func (gc *GameClock) Pause() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if gc.state != Running {
		return false
	}
	gc.disarm()
	gc.remaining = gc.deadline.Sub(gc.clock.Now())
	if gc.remaining < 0 {
		gc.remaining = 0
	}
	gc.state = Paused
	return true
}

// Resume continues a paused countdown from the frozen remainder.
func (gc *GameClock) Resume() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if gc.state != Paused {
		return false
	}
	gc.arm(gc.remaining)
	return true
}

// Cancel stops a Running or Paused countdown so it never expires.
func (gc *GameClock) Cancel() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	if gc.state != Running && gc.state != Paused {
		return false
	}
	gc.disarm()
	gc.state = Cancelled
	gc.remaining = 0
	return true
}

// Stop returns the clock to Idle, discarding any countdown.
func (gc *GameClock) Stop() {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	gc.disarm()
	gc.state = Idle
	gc.remaining = 0
}

// State returns the current state.
func (gc *GameClock) State() State {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.state
}

// Remaining returns the time left before expiry.
func (gc *GameClock) Remaining() time.Duration {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	switch gc.state {
	case Running:
		left := gc.deadline.Sub(gc.clock.Now())
		if left < 0 {
			return 0
		}
		return left
	case Paused:
		return gc.remaining
	case Idle:
		return gc.duration
	default:
		return 0
	}
}

// Duration returns the full countdown length.
func (gc *GameClock) Duration() time.Duration {
	return gc.duration
}

// arm must be called with gc.mu held.
func (gc *GameClock) arm(d time.Duration) {
	gc.disarm()
	gc.generation++
	gen := gc.generation
	gc.state = Running
	gc.deadline = gc.clock.Now().Add(d)
	gc.remaining = 0
	gc.timer = gc.clock.AfterFunc(d, func() { gc.fire(gen) })
}

// disarm must be called with gc.mu held.
func (gc *GameClock) disarm() {
	if gc.timer != nil {
		gc.timer.Stop()
		gc.timer = nil
	}
	gc.generation++
}

func (gc *GameClock) fire(gen uint64) {
	gc.mu.Lock()
	if gen != gc.generation || gc.state != Running {
		gc.mu.Unlock()
		return
	}
	gc.state = Expired
	gc.timer = nil
	onExpire := gc.onExpire
	gc.mu.Unlock()

	if onExpire != nil {
		onExpire()
	}
}
