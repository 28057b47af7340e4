package dining

import (
	"time"

	"github.com/sarchlab/diningsim/sim"
)

// StarvationMonitor looks for a philosopher that went without a meal for
// longer than TimeToDie.
type StarvationMonitor struct {
	TimeToDie time.Duration
}

// Check returns the lowest-ID philosopher that starved by now, and how long it
// has been since its last meal. Dead and eating philosophers are skipped.
func (m StarvationMonitor) Check(
	now sim.VTime,
	philosophers []*Philosopher,
) (victim *Philosopher, starvedFor time.Duration, found bool) {
	for _, p := range philosophers {
		switch p.State() {
		case StateDead, StateEating:
			continue
		}

		elapsed := now.Sub(p.LastMealTime)
		if elapsed > m.TimeToDie {
			return p, elapsed, true
		}
	}

	return nil, 0, false
}

// AllFed tells if every philosopher ate at least mealsRequired times. It is
// always false when mealsRequired is 0.
func AllFed(philosophers []*Philosopher, mealsRequired int) bool {
	if mealsRequired <= 0 {
		return false
	}

	for _, p := range philosophers {
		if p.EatCount < mealsRequired {
			return false
		}
	}

	return true
}
