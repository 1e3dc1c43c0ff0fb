package ecs

// EventKind identifies gameplay notifications raised by systems.
type EventKind string

const (
	EventRollStarted  EventKind = "roll_started"
	EventRollFinished EventKind = "roll_finished"
	EventExhausted    EventKind = "exhausted"
	EventRecovered    EventKind = "recovered"
	EventJumped       EventKind = "jumped"
	EventLeftGround   EventKind = "left_ground"
	EventLanded       EventKind = "landed"
	EventCameraBlock  EventKind = "camera_blocked"
	EventExitRequest  EventKind = "exit_requested"
)

// Event is a notification for collaborators outside the tick (logging,
// animation, audio). Systems never read events back.
type Event struct {
	Kind   EventKind
	Entity Entity
	Tick   uint64
}

// EventQueue is a simple FIFO queue drained by the host between ticks.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Emit pushes an event stamped with the world's current tick.
func (w *World) Emit(kind EventKind, e Entity) {
	if w == nil {
		return
	}
	w.events.Push(Event{Kind: kind, Entity: e, Tick: w.tick})
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
