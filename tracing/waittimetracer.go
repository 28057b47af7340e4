package tracing

import (
	"sync"
	"time"

	"github.com/sarchlab/diningsim/dining"
	"github.com/sarchlab/diningsim/sim"
)

// WaitTimeTracer measures how long philosophers stay hungry before they get
// both forks. It reads the philosopher states from the tick reports.
type WaitTimeTracer struct {
	lock        sync.Mutex
	averageWait float64
	longestWait time.Duration
	waitCount   uint64
	hungrySince map[int]sim.VTime
}

// NewWaitTimeTracer creates a new WaitTimeTracer
func NewWaitTimeTracer() *WaitTimeTracer {
	return &WaitTimeTracer{
		hungrySince: make(map[int]sim.VTime),
	}
}

// AverageWait returns the average time between getting hungry and eating.
func (t *WaitTimeTracer) AverageWait() time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()

	return time.Duration(t.averageWait + 0.5)
}

// LongestWait returns the longest completed wait.
func (t *WaitTimeTracer) LongestWait() time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.longestWait
}

// TotalCount returns the number of completed waits.
func (t *WaitTimeTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.waitCount
}

// Func updates the waits after every tick.
func (t *WaitTimeTracer) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterTick {
		return
	}

	r, ok := ctx.Item.(dining.TickReport)
	if !ok {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	// Waits do not carry over into a new run.
	if r.Ticks <= 1 {
		clear(t.hungrySince)
	}

	for _, p := range r.Philosophers {
		since, waiting := t.hungrySince[p.ID]

		switch p.State {
		case dining.StateHungry:
			if !waiting {
				t.hungrySince[p.ID] = r.Time
			}
		case dining.StateEating:
			if waiting {
				t.endWait(r.Time.Sub(since))
				delete(t.hungrySince, p.ID)
			}
		default:
			delete(t.hungrySince, p.ID)
		}
	}
}

func (t *WaitTimeTracer) endWait(wait time.Duration) {
	t.averageWait = (t.averageWait*float64(t.waitCount) + float64(wait)) /
		float64(t.waitCount+1)
	t.waitCount++

	if wait > t.longestWait {
		t.longestWait = wait
	}
}
