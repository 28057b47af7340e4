package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/diningsim/dining"
	"github.com/sarchlab/diningsim/sim"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

type progressRsp struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

func (b *ProgressBar) snapshot() progressRsp {
	b.Lock()
	defer b.Unlock()

	return progressRsp{
		ID:         b.ID,
		Name:       b.Name,
		StartTime:  b.StartTime,
		Total:      b.Total,
		Finished:   b.Finished,
		InProgress: b.InProgress,
	}
}

// IncrementInProgress adds the number of in-progress element.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// MoveInProgressToFinished reduces the number of in progress item by a certain
// amount and increase the finished item by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}

// Set overwrites all the counters at once.
func (b *ProgressBar) Set(total, finished, inProgress uint64) {
	b.Lock()
	defer b.Unlock()

	b.Total = total
	b.Finished = finished
	b.InProgress = inProgress
}

// mealTracker keeps a progress bar in line with the meals eaten so far.
// Meals beyond the quota do not count, and meals being eaten are in
// progress.
type mealTracker struct {
	bar           *ProgressBar
	mealsRequired int
}

// TrackMeals creates a progress bar towards every philosopher eating
// mealsRequired times, and returns the hook that updates it after each tick.
func (m *Monitor) TrackMeals(mealsRequired int) sim.Hook {
	return &mealTracker{
		bar:           m.CreateProgressBar("Meals", 0),
		mealsRequired: mealsRequired,
	}
}

func (t *mealTracker) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterTick {
		return
	}

	report, ok := ctx.Item.(dining.TickReport)
	if !ok {
		return
	}

	var finished, inProgress uint64

	for _, p := range report.Philosophers {
		eaten := min(p.EatCount, t.mealsRequired)
		if p.State == dining.StateEating && p.EatCount <= t.mealsRequired {
			eaten--
			inProgress++
		}

		finished += uint64(eaten)
	}

	total := uint64(len(report.Philosophers) * t.mealsRequired)
	t.bar.Set(total, finished, inProgress)
}
