package dining

import (
	"time"

	"github.com/sarchlab/diningsim/sim"
)

// State is the coarse activity of a philosopher.
type State int

// The states a philosopher can be in.
const (
	StateThinking State = iota
	StateHungry
	StateEating
	StateSleeping
	StateDead
)

var stateNames = map[State]string{
	StateThinking: "THINKING",
	StateHungry:   "HUNGRY",
	StateEating:   "EATING",
	StateSleeping: "SLEEPING",
	StateDead:     "DEAD",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return "UNKNOWN"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// A Phase is a state together with the data that only that state carries.
// The set of phases is closed.
type Phase interface {
	State() State
	isPhase()
}

// Thinking waits for the remaining think time before getting hungry.
type Thinking struct {
	Remaining time.Duration
}

// Hungry waits for both forks.
type Hungry struct{}

// Eating holds both forks until the meal is over.
type Eating struct {
	Remaining time.Duration
}

// Sleeping rests after a meal.
type Sleeping struct {
	Remaining time.Duration
}

// Dead is terminal.
type Dead struct {
	At sim.VTime
}

func (Thinking) State() State { return StateThinking }
func (Hungry) State() State   { return StateHungry }
func (Eating) State() State   { return StateEating }
func (Sleeping) State() State { return StateSleeping }
func (Dead) State() State     { return StateDead }

func (Thinking) isPhase() {}
func (Hungry) isPhase()   {}
func (Eating) isPhase()   {}
func (Sleeping) isPhase() {}
func (Dead) isPhase()     {}

// remaining returns the timer a phase is counting down, 0 if it has none.
func remaining(p Phase) time.Duration {
	switch p := p.(type) {
	case Thinking:
		return p.Remaining
	case Eating:
		return p.Remaining
	case Sleeping:
		return p.Remaining
	default:
		return 0
	}
}

func countDown(timer, advance time.Duration) time.Duration {
	if timer <= advance {
		return 0
	}

	return timer - advance
}
