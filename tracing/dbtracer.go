package tracing

import (
	"sync"

	"github.com/sarchlab/diningsim/datarecording"
	"github.com/sarchlab/diningsim/dining"
	"github.com/sarchlab/diningsim/sim"
	"github.com/tebeka/atexit"
)

// Tables written by the DBTracer.
const (
	SessionTable     = "trace"
	EventTable       = "trace_events"
	PhilosopherTable = "trace_philosophers"
)

// SessionEntry is a row of the session table. A session covers one run of the
// table, from a reset to the next one.
type SessionEntry struct {
	Session      int
	SessionStart int64
	SessionEnd   int64
}

// EventEntry is a row of the event table.
type EventEntry struct {
	Session       int
	SequenceID    uint64
	Time          int64
	PhilosopherID int
	Kind          string
	Detail        string
}

// PhilosopherEntry is a sample of one philosopher after a tick that changed
// the table.
type PhilosopherEntry struct {
	Session       int
	Time          int64
	PhilosopherID int
	State         string
	ActionTimer   int64
	LastMealTime  int64
	EatCount      int
}

// DBTracer is a hook that stores the events and the philosopher states of a
// simulation into a database.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder

	startTime, endTime sim.VTime

	isTracing        bool
	session          int
	sessionStartTime sim.VTime
}

// NewDBTracer creates a new DBTracer.
func NewDBTracer(
	timeTeller sim.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable(SessionTable, SessionEntry{})
	dataRecorder.CreateTable(EventTable, EventEntry{})
	dataRecorder.CreateTable(PhilosopherTable, PhilosopherEntry{})

	t := &DBTracer{
		timeTeller: timeTeller,
		backend:    dataRecorder,
	}

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// SetTimeRange limits recording to the given window of logical time. A zero
// end time means no upper bound.
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTime) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

// IsTracing tells if a session is open.
func (t *DBTracer) IsTracing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.isTracing
}

// Session returns the number of the current or last session.
func (t *DBTracer) Session() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.session
}

// EnableTracing opens a new session at the current time.
func (t *DBTracer) EnableTracing() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.isTracing {
		return
	}

	t.isTracing = true
	t.session++
	t.sessionStartTime = t.timeTeller.CurrentTime()
}

// StopTracingAtCurrentTime closes the current session.
func (t *DBTracer) StopTracingAtCurrentTime() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closeSession()
}

func (t *DBTracer) closeSession() {
	if !t.isTracing {
		return
	}

	t.isTracing = false
	t.backend.InsertData(SessionTable, SessionEntry{
		Session:      t.session,
		SessionStart: int64(t.sessionStartTime),
		SessionEnd:   int64(t.timeTeller.CurrentTime()),
	})
	t.backend.Flush()
}

// Func records pushed events and tick reports.
func (t *DBTracer) Func(ctx sim.HookCtx) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.isTracing {
		return
	}

	switch ctx.Pos {
	case sim.HookPosBufPush:
		e, ok := ctx.Item.(dining.Event)
		if ok && t.inRange(e.Time) {
			t.writeEvent(e)
		}
	case sim.HookPosAfterTick:
		r, ok := ctx.Item.(dining.TickReport)
		if ok && r.Changed && t.inRange(r.Time) {
			t.writeSamples(r)
		}
	}
}

func (t *DBTracer) inRange(now sim.VTime) bool {
	if now < t.startTime {
		return false
	}

	return t.endTime == 0 || now <= t.endTime
}

func (t *DBTracer) writeEvent(e dining.Event) {
	t.backend.InsertData(EventTable, EventEntry{
		Session:       t.session,
		SequenceID:    e.SequenceID,
		Time:          int64(e.Time),
		PhilosopherID: e.PhilosopherID,
		Kind:          string(e.Kind),
		Detail:        e.Detail,
	})
}

func (t *DBTracer) writeSamples(r dining.TickReport) {
	for _, p := range r.Philosophers {
		t.backend.InsertData(PhilosopherTable, PhilosopherEntry{
			Session:       t.session,
			Time:          int64(r.Time),
			PhilosopherID: p.ID,
			State:         p.State.String(),
			ActionTimer:   int64(p.ActionTimer),
			LastMealTime:  int64(p.LastMealTime),
			EatCount:      p.EatCount,
		})
	}
}

// Terminate closes the open session and flushes the backend.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closeSession()
	t.backend.Flush()
}
