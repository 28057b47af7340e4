package dining

import (
	"fmt"
	"log"
	"time"

	"github.com/sarchlab/diningsim/sim"
)

// TickReport describes what a tick did.
type TickReport struct {
	Time sim.VTime `json:"time"`

	// Ticks counts the ticks since the last reset. The first tick of a run
	// reports 1.
	Ticks uint64 `json:"ticks"`

	Advance      time.Duration         `json:"advance"`
	Changed      bool                  `json:"changed"`
	Halted       bool                  `json:"halted"`
	Died         *int                  `json:"died,omitempty"`
	Finished     bool                  `json:"finished"`
	Philosophers []PhilosopherSnapshot `json:"philosophers"`
}

// A Table owns the whole state of a run.
type Table struct {
	cfg          Config
	now          sim.VTime
	ticks        uint64
	philosophers []*Philosopher
	forks        *ForkPool
	events       *EventLog
	highlight    Highlight

	halted   bool
	deadID   int
	finished bool
}

// NewTable creates a table at time 0 with every philosopher thinking.
func NewTable(cfg Config) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Table{
		cfg:    cfg,
		events: NewEventLog(cfg.EventLogCapacity),
	}
	t.Reset()

	return t, nil
}

// Reset rebuilds the table from its configuration. Hooks on the event log
// stay registered.
func (t *Table) Reset() {
	n := t.cfg.PhilosopherCount

	t.now = 0
	t.ticks = 0
	t.philosophers = make([]*Philosopher, n)
	for i := range t.philosophers {
		t.philosophers[i] = newPhilosopher(i, n)
	}

	t.forks = NewForkPool(n)
	t.events.Resize(t.cfg.EventLogCapacity)
	t.events.Clear()
	t.highlight = HighlightMain
	t.halted = false
	t.deadID = NoPhilosopher
	t.finished = false
}

// Reconfigure replaces the configuration. A different philosopher count
// resets the table. Any other change applies from the next tick on and leaves
// running timers alone. It returns whether the table was reset.
func (t *Table) Reconfigure(cfg Config) (reset bool, err error) {
	if err := cfg.Validate(); err != nil {
		return false, err
	}

	resize := cfg.PhilosopherCount != t.cfg.PhilosopherCount
	t.cfg = cfg

	if resize {
		t.Reset()
		return true, nil
	}

	t.events.Resize(cfg.EventLogCapacity)

	return false, nil
}

// Config returns the current configuration.
func (t *Table) Config() Config {
	return t.cfg
}

// CurrentTime returns the logical time.
func (t *Table) CurrentTime() sim.VTime {
	return t.now
}

// Ticks returns the number of ticks processed since the last reset.
func (t *Table) Ticks() uint64 {
	return t.ticks
}

// Halted tells if the run is over, by death or because everyone is fed.
func (t *Table) Halted() bool {
	return t.halted
}

// Dead returns the philosopher that starved, if any.
func (t *Table) Dead() (philosopherID int, dead bool) {
	return t.deadID, t.deadID != NoPhilosopher
}

// Finished tells if the run ended because every philosopher ate enough.
func (t *Table) Finished() bool {
	return t.finished
}

// Highlight returns the kind of the last transition of the last tick.
func (t *Table) Highlight() Highlight {
	return t.highlight
}

// Events returns the event log.
func (t *Table) Events() *EventLog {
	return t.events
}

// Philosophers returns a snapshot of every philosopher in ID order.
func (t *Table) Philosophers() []PhilosopherSnapshot {
	out := make([]PhilosopherSnapshot, len(t.philosophers))
	for i, p := range t.philosophers {
		out[i] = p.Snapshot()
	}

	return out
}

// Forks returns a snapshot of every fork in ID order.
func (t *Table) Forks() []ForkSnapshot {
	return t.forks.Snapshot()
}

// Stats summarizes the philosophers.
func (t *Table) Stats() Stats {
	return StatsOf(t.Philosophers())
}

// Tick advances the clock and processes one step of the simulation. Ticking a
// halted table changes nothing.
func (t *Table) Tick(advance time.Duration) TickReport {
	if advance <= 0 {
		log.Panicf("cannot advance time by %s", advance)
	}

	if t.halted {
		return t.report(0)
	}

	t.now = t.now.Add(advance)
	t.ticks++
	t.highlight = HighlightMain

	monitor := StarvationMonitor{TimeToDie: t.cfg.TimeToDie}
	if victim, starvedFor, found := monitor.Check(t.now, t.philosophers); found {
		t.starve(victim, starvedFor)

		r := t.report(advance)
		r.Changed = true

		return r
	}

	changed := false
	env := transitionEnv{
		now:     t.now,
		advance: advance,
		cfg:     t.cfg,
		forks:   t.forks,
		events:  t.events,
	}

	for _, p := range t.philosophers {
		from := p.State()
		if p.transition(env) {
			changed = true
			t.highlight = highlightLeaving(from)
		}
	}

	if AllFed(t.philosophers, t.cfg.MealsRequired) {
		t.events.Append(t.now, NoPhilosopher, EventAllFed,
			fmt.Sprintf("every philosopher ate %d times",
				t.cfg.MealsRequired))
		t.halted = true
		t.finished = true
		t.highlight = HighlightMonitor
	}

	r := t.report(advance)
	r.Changed = changed

	return r
}

func (t *Table) starve(p *Philosopher, starvedFor time.Duration) {
	p.die(t.now)
	t.events.Append(t.now, p.ID, EventDied,
		fmt.Sprintf("starved after %s", starvedFor))

	t.halted = true
	t.deadID = p.ID
	t.highlight = HighlightMonitor
}

func (t *Table) report(advance time.Duration) TickReport {
	r := TickReport{
		Time:         t.now,
		Ticks:        t.ticks,
		Advance:      advance,
		Halted:       t.halted,
		Finished:     t.finished,
		Philosophers: t.Philosophers(),
	}

	if id, dead := t.Dead(); dead {
		r.Died = &id
	}

	return r
}

// CheckInvariants verifies that forks and philosophers agree. Every eating
// philosopher holds both of its forks and every held fork belongs to an
// eating neighbour.
func (t *Table) CheckInvariants() error {
	n := len(t.philosophers)

	for _, p := range t.philosophers {
		left := t.forks.Fork(p.LeftFork)
		right := t.forks.Fork(p.RightFork)
		holdsLeft := left.Held && left.Owner == p.ID
		holdsRight := right.Held && right.Owner == p.ID

		if p.State() == StateEating && !(holdsLeft && holdsRight) {
			return fmt.Errorf("philosopher %d eats without both forks", p.ID)
		}

		if p.State() != StateEating && (holdsLeft || holdsRight) {
			return fmt.Errorf("philosopher %d holds a fork while %s",
				p.ID, p.State())
		}
	}

	for i := 0; i < t.forks.Len(); i++ {
		f := t.forks.Fork(i)
		if !f.Held {
			continue
		}

		if f.Owner != i && f.Owner != (i+n-1)%n {
			return fmt.Errorf("fork %d held by non-neighbour %d", i, f.Owner)
		}
	}

	return nil
}
