package dining

import "github.com/sarchlab/diningsim/sim"

// Snapshot is a read-only copy of everything observable about a run.
type Snapshot struct {
	Time         sim.VTime             `json:"time"`
	Ticks        uint64                `json:"ticks"`
	Config       Config                `json:"config"`
	Philosophers []PhilosopherSnapshot `json:"philosophers"`
	Forks        []ForkSnapshot        `json:"forks"`
	Dead         bool                  `json:"dead"`
	DeadID       int                   `json:"dead_id"`
	Finished     bool                  `json:"finished"`
	Highlight    Highlight             `json:"highlight"`
	Stats        Stats                 `json:"stats"`
	Events       []Event               `json:"events"`

	// Running and StepMode are filled in by the scheduler.
	Running  bool `json:"running"`
	StepMode bool `json:"step_mode"`
}

// StepResult is the outcome of a step.
type StepResult struct {
	Ticks   int  `json:"ticks"`
	Changed bool `json:"changed"`
	Halted  bool `json:"halted"`
}

// Snapshot copies the state of the table.
func (t *Table) Snapshot() Snapshot {
	philosophers := t.Philosophers()
	deadID, dead := t.Dead()

	return Snapshot{
		Time:         t.now,
		Ticks:        t.ticks,
		Config:       t.cfg,
		Philosophers: philosophers,
		Forks:        t.Forks(),
		Dead:         dead,
		DeadID:       deadID,
		Finished:     t.finished,
		Highlight:    t.highlight,
		Stats:        StatsOf(philosophers),
		Events:       t.events.Events(),
	}
}
