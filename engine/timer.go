package engine

import (
	"time"

	"github.com/Carmen-Shannon/siege/engine/sequencer"
)

// DefaultTickPeriod is the animation tick period.
const DefaultTickPeriod = 30 * time.Millisecond

// maxCatchUpTicks bounds the ticks run for a single frame after a long stall (e.g. a window drag).
const maxCatchUpTicks = 10

// Timer is a fixed-period tick source. It only produces ticks while armed.
type Timer interface {
	sequencer.Timer

	// Armed reports whether the timer is producing ticks.
	Armed() bool

	// Period returns the tick period.
	Period() time.Duration

	// Advance accumulates elapsed time and returns the number of whole periods that passed
	// while armed. Leftover time carries over to the next call.
	//
	// Parameters:
	//   - elapsed: time since the previous call
	//
	// Returns:
	//   - int: the number of ticks to run
	Advance(elapsed time.Duration) int
}

type timer struct {
	period      time.Duration
	armed       bool
	accumulated time.Duration
}

var _ Timer = &timer{}

// NewTimer creates a disarmed timer.
//
// Parameters:
//   - period: the tick period; non-positive values use DefaultTickPeriod
//
// Returns:
//   - Timer: the timer
func NewTimer(period time.Duration) Timer {
	if period <= 0 {
		period = DefaultTickPeriod
	}
	return &timer{period: period}
}

func (t *timer) Start() {
	if t.armed {
		return
	}
	t.armed = true
	t.accumulated = 0
}

func (t *timer) Stop() {
	t.armed = false
	t.accumulated = 0
}

func (t *timer) Armed() bool {
	return t.armed
}

func (t *timer) Period() time.Duration {
	return t.period
}

func (t *timer) Advance(elapsed time.Duration) int {
	if !t.armed || elapsed <= 0 {
		return 0
	}
	t.accumulated += elapsed
	n := int(t.accumulated / t.period)
	t.accumulated -= time.Duration(n) * t.period
	if n > maxCatchUpTicks {
		n = maxCatchUpTicks
		t.accumulated = 0
	}
	return n
}
