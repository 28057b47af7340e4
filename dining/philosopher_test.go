package dining

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/diningsim/sim"
)

var _ = Describe("Philosopher", func() {
	var (
		cfg    Config
		forks  *ForkPool
		events *EventLog
		p      *Philosopher
		env    transitionEnv
	)

	BeforeEach(func() {
		cfg = DefaultConfig()
		cfg.PhilosopherCount = 3
		forks = NewForkPool(3)
		events = NewEventLog(10)
		p = newPhilosopher(0, 3)
		env = transitionEnv{
			now:     sim.VTime(100 * time.Millisecond),
			advance: 50 * time.Millisecond,
			cfg:     cfg,
			forks:   forks,
			events:  events,
		}
	})

	It("should start thinking with nothing eaten", func() {
		Expect(p.Snapshot()).To(Equal(PhilosopherSnapshot{
			ID:        0,
			State:     StateThinking,
			LeftFork:  0,
			RightFork: 1,
		}))
	})

	It("should get hungry silently once done thinking", func() {
		Expect(p.transition(env)).To(BeTrue())

		Expect(p.Phase()).To(Equal(Hungry{}))
		Expect(events.Len()).To(Equal(0))
	})

	It("should count down the think time without going below zero", func() {
		p.phase = Thinking{Remaining: 30 * time.Millisecond}

		Expect(p.transition(env)).To(BeFalse())
		Expect(p.Phase()).To(Equal(Thinking{}))

		Expect(p.transition(env)).To(BeTrue())
		Expect(p.State()).To(Equal(StateHungry))
	})

	It("should eat when both forks are free", func() {
		p.phase = Hungry{}

		Expect(p.transition(env)).To(BeTrue())

		Expect(p.Phase()).To(Equal(Eating{Remaining: cfg.TimeToEat}))
		Expect(p.EatCount).To(Equal(1))
		Expect(p.LastMealTime).To(Equal(env.now))
		Expect(forks.Fork(0).Owner).To(Equal(0))
		Expect(forks.Fork(1).Owner).To(Equal(0))

		log := events.Events()
		Expect(log).To(HaveLen(3))
		Expect(log[0].Kind).To(Equal(EventTookFork))
		Expect(log[0].Detail).To(Equal("took fork 0"))
		Expect(log[1].Kind).To(Equal(EventTookFork))
		Expect(log[1].Detail).To(Equal("took fork 1"))
		Expect(log[2].Kind).To(Equal(EventStartedEating))
		Expect(log[2].Detail).To(Equal("acquired forks 0 & 1"))
	})

	It("should stay hungry when a fork is taken", func() {
		p.phase = Hungry{}
		forks.TryAcquireBoth(2, 0, 2)

		Expect(p.transition(env)).To(BeFalse())

		Expect(p.Phase()).To(Equal(Hungry{}))
		Expect(p.EatCount).To(Equal(0))
		Expect(events.Len()).To(Equal(0))
	})

	It("should keep eating until the meal is over", func() {
		forks.TryAcquireBoth(0, 1, 0)
		p.phase = Eating{Remaining: 80 * time.Millisecond}

		Expect(p.transition(env)).To(BeFalse())
		Expect(p.ActionTimer()).To(Equal(30 * time.Millisecond))

		Expect(p.transition(env)).To(BeFalse())
		Expect(p.ActionTimer()).To(Equal(time.Duration(0)))
		Expect(forks.Fork(0).Held).To(BeTrue())
	})

	It("should release the forks and sleep after eating", func() {
		forks.TryAcquireBoth(0, 1, 0)
		p.phase = Eating{}

		Expect(p.transition(env)).To(BeTrue())

		Expect(p.Phase()).To(Equal(Sleeping{Remaining: cfg.TimeToSleep}))
		Expect(forks.Fork(0).Held).To(BeFalse())
		Expect(forks.Fork(1).Held).To(BeFalse())
		Expect(events.Events()[0].Kind).To(Equal(EventStartedSleeping))
		Expect(events.Events()[0].Detail).To(Equal("released forks 0 & 1"))
	})

	It("should think for the think delay after sleeping", func() {
		p.phase = Sleeping{}

		Expect(p.transition(env)).To(BeTrue())

		Expect(p.Phase()).To(Equal(Thinking{Remaining: cfg.ThinkDelay}))
		Expect(events.Events()[0].Kind).To(Equal(EventStartedThinking))
	})

	It("should not transition once dead", func() {
		p.die(env.now)

		Expect(p.IsDead()).To(BeTrue())
		Expect(p.Phase()).To(Equal(Dead{At: env.now}))
		Expect(p.ActionTimer()).To(Equal(time.Duration(0)))
		Expect(func() { p.transition(env) }).To(Panic())
		Expect(func() { p.die(env.now) }).To(Panic())
	})

	It("should not die while eating", func() {
		p.phase = Eating{Remaining: time.Second}

		Expect(func() { p.die(env.now) }).To(Panic())
	})
})
