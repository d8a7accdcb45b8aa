package events

import (
	"sync"
	"time"
)

// Phase marks which end of an operation an Event describes.
type Phase string

const (
	PhaseBegin Phase = "begin"
	PhaseEnd   Phase = "end"
)

// Event is one edge of a tracked operation: a begin when it is scheduled,
// an end when it settles.
type Event struct {
	Op    string
	Phase Phase
	At    time.Time
}

// Monitor publishes a begin/end Event pair for every tracked operation. It
// satisfies the batchkit Tracker interface, so a queue configured with
// WithTracker(monitor) streams its activity onto the bus.
//
// Delivery is best-effort: a subscriber with a full buffer misses events.
// Use the queue's IdleTracker when an exact outstanding count matters.
type Monitor struct {
	bus *Bus[Event]
}

// NewMonitor creates a monitor publishing on bus.
func NewMonitor(bus *Bus[Event]) *Monitor {
	return &Monitor{bus: bus}
}

// Begin publishes the begin edge and returns a function publishing the end
// edge. The returned function is idempotent.
func (m *Monitor) Begin(op string) func() {
	m.bus.Publish(Event{Op: op, Phase: PhaseBegin, At: time.Now()})

	var once sync.Once
	return func() {
		once.Do(func() {
			m.bus.Publish(Event{Op: op, Phase: PhaseEnd, At: time.Now()})
		})
	}
}
