package dining

import (
	"fmt"
	"log"
	"time"

	"github.com/sarchlab/diningsim/sim"
)

// A Philosopher alternates between thinking, eating and sleeping, and needs
// both neighbouring forks to eat.
type Philosopher struct {
	ID           int
	LeftFork     int
	RightFork    int
	LastMealTime sim.VTime
	EatCount     int

	phase Phase
}

func newPhilosopher(id, n int) *Philosopher {
	return &Philosopher{
		ID:        id,
		LeftFork:  LeftOf(id, n),
		RightFork: RightOf(id, n),
		phase:     Thinking{},
	}
}

// Phase returns the current phase.
func (p *Philosopher) Phase() Phase {
	return p.phase
}

// State returns the current state.
func (p *Philosopher) State() State {
	return p.phase.State()
}

// ActionTimer returns the time left in the current phase.
func (p *Philosopher) ActionTimer() time.Duration {
	return remaining(p.phase)
}

// IsDead tells if the philosopher has starved.
func (p *Philosopher) IsDead() bool {
	return p.State() == StateDead
}

// transitionEnv is what a philosopher sees of the table during a tick.
type transitionEnv struct {
	now     sim.VTime
	advance time.Duration
	cfg     Config
	forks   *ForkPool
	events  *EventLog
}

// transition applies one tick of the state machine and reports whether the
// state changed.
func (p *Philosopher) transition(env transitionEnv) bool {
	switch ph := p.phase.(type) {
	case Thinking:
		if ph.Remaining > 0 {
			p.phase = Thinking{Remaining: countDown(ph.Remaining, env.advance)}
			return false
		}

		p.phase = Hungry{}

		return true
	case Hungry:
		return p.tryEat(env)
	case Eating:
		if ph.Remaining > 0 {
			p.phase = Eating{Remaining: countDown(ph.Remaining, env.advance)}
			return false
		}

		env.forks.ReleaseBoth(p.LeftFork, p.RightFork, p.ID)
		p.phase = Sleeping{Remaining: env.cfg.TimeToSleep}
		env.events.Append(env.now, p.ID, EventStartedSleeping,
			fmt.Sprintf("released forks %d & %d", p.LeftFork, p.RightFork))

		return true
	case Sleeping:
		if ph.Remaining > 0 {
			p.phase = Sleeping{Remaining: countDown(ph.Remaining, env.advance)}
			return false
		}

		p.phase = Thinking{Remaining: env.cfg.ThinkDelay}
		env.events.Append(env.now, p.ID, EventStartedThinking, "is thinking")

		return true
	case Dead:
		log.Panicf("philosopher %d is dead", p.ID)
	}

	panic("unknown phase")
}

func (p *Philosopher) tryEat(env transitionEnv) bool {
	if !env.forks.TryAcquireBoth(p.LeftFork, p.RightFork, p.ID) {
		return false
	}

	p.LastMealTime = env.now
	p.EatCount++
	p.phase = Eating{Remaining: env.cfg.TimeToEat}

	env.events.Append(env.now, p.ID, EventTookFork,
		fmt.Sprintf("took fork %d", p.LeftFork))
	env.events.Append(env.now, p.ID, EventTookFork,
		fmt.Sprintf("took fork %d", p.RightFork))
	env.events.Append(env.now, p.ID, EventStartedEating,
		fmt.Sprintf("acquired forks %d & %d", p.LeftFork, p.RightFork))

	return true
}

func (p *Philosopher) die(now sim.VTime) {
	switch p.phase.(type) {
	case Dead:
		log.Panicf("philosopher %d dies twice", p.ID)
	case Eating:
		log.Panicf("philosopher %d dies while eating", p.ID)
	}

	p.phase = Dead{At: now}
}

// PhilosopherSnapshot is the read-only view of a philosopher.
type PhilosopherSnapshot struct {
	ID           int           `json:"id"`
	State        State         `json:"state"`
	ActionTimer  time.Duration `json:"action_timer"`
	LastMealTime sim.VTime     `json:"last_meal_time"`
	EatCount     int           `json:"eat_count"`
	LeftFork     int           `json:"left_fork"`
	RightFork    int           `json:"right_fork"`
}

// Snapshot copies the philosopher into a PhilosopherSnapshot.
func (p *Philosopher) Snapshot() PhilosopherSnapshot {
	return PhilosopherSnapshot{
		ID:           p.ID,
		State:        p.State(),
		ActionTimer:  p.ActionTimer(),
		LastMealTime: p.LastMealTime,
		EatCount:     p.EatCount,
		LeftFork:     p.LeftFork,
		RightFork:    p.RightFork,
	}
}
