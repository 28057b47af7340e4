package dining

import (
	"fmt"

	"github.com/sarchlab/diningsim/sim"
)

// EventKind names what happened.
type EventKind string

// The kinds of events recorded in the event log.
const (
	EventTookFork        EventKind = "TOOK_FORK"
	EventStartedEating   EventKind = "STARTED_EATING"
	EventStartedSleeping EventKind = "STARTED_SLEEPING"
	EventStartedThinking EventKind = "STARTED_THINKING"
	EventDied            EventKind = "DIED"
	EventAllFed          EventKind = "ALL_FED"
)

// NoPhilosopher is the philosopher ID of events about the whole table.
const NoPhilosopher = -1

// An Event is an entry of the event log.
type Event struct {
	SequenceID    uint64    `json:"sequence_id"`
	Time          sim.VTime `json:"time"`
	PhilosopherID int       `json:"philosopher_id"`
	Kind          EventKind `json:"kind"`
	Detail        string    `json:"detail"`
}

func (e Event) String() string {
	return fmt.Sprintf("%s, P%d %s %s",
		e.Time, e.PhilosopherID, e.Kind, e.Detail)
}

// EventLog keeps the most recent events. Hooks registered on the log see
// every pushed event and every evicted one.
type EventLog struct {
	sim.HookableBase

	buf     *sim.RingBuffer[Event]
	nextSeq uint64
}

// NewEventLog creates an empty log that holds at most capacity events.
func NewEventLog(capacity int) *EventLog {
	l := &EventLog{nextSeq: 1}
	l.buf = l.newBuffer(capacity)

	return l
}

func (l *EventLog) newBuffer(capacity int) *sim.RingBuffer[Event] {
	buf := sim.NewRingBuffer[Event]("EventLog", capacity)
	buf.AcceptHook(sim.HookFunc(l.forward))

	return buf
}

func (l *EventLog) forward(ctx sim.HookCtx) {
	ctx.Domain = l
	l.InvokeHook(ctx)
}

// Append records an event and assigns it the next sequence ID.
func (l *EventLog) Append(
	now sim.VTime,
	philosopherID int,
	kind EventKind,
	detail string,
) Event {
	e := Event{
		SequenceID:    l.nextSeq,
		Time:          now,
		PhilosopherID: philosopherID,
		Kind:          kind,
		Detail:        detail,
	}
	l.nextSeq++

	l.buf.Push(e)

	return e
}

// Events returns the kept events, oldest first.
func (l *EventLog) Events() []Event {
	return l.buf.Elements()
}

// Len returns the number of kept events.
func (l *EventLog) Len() int {
	return l.buf.Size()
}

// Capacity returns the number of events the log keeps.
func (l *EventLog) Capacity() int {
	return l.buf.Capacity()
}

// LastSequenceID returns the ID of the latest event, 0 if none was appended
// since the last clear.
func (l *EventLog) LastSequenceID() uint64 {
	return l.nextSeq - 1
}

// Clear drops all events and restarts sequence IDs at 1. Hooks stay.
func (l *EventLog) Clear() {
	l.buf.Clear()
	l.nextSeq = 1
}

// Resize changes the capacity, keeping the newest events that fit.
func (l *EventLog) Resize(capacity int) {
	if capacity == l.buf.Capacity() {
		return
	}

	events := l.buf.Elements()
	if len(events) > capacity {
		events = events[len(events)-capacity:]
	}

	buf := sim.NewRingBuffer[Event]("EventLog", capacity)
	for _, e := range events {
		buf.Push(e)
	}

	buf.AcceptHook(sim.HookFunc(l.forward))
	l.buf = buf
}
