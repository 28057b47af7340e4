package dining

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/diningsim/sim"
)

var _ = Describe("StarvationMonitor", func() {
	var (
		philosophers []*Philosopher
		monitor      StarvationMonitor
	)

	BeforeEach(func() {
		philosophers = []*Philosopher{
			newPhilosopher(0, 3),
			newPhilosopher(1, 3),
			newPhilosopher(2, 3),
		}
		monitor = StarvationMonitor{TimeToDie: 100 * time.Millisecond}
	})

	It("should not kill at exactly the deadline", func() {
		_, _, found := monitor.Check(
			sim.VTime(100*time.Millisecond), philosophers)

		Expect(found).To(BeFalse())
	})

	It("should pick the lowest starving ID", func() {
		philosophers[0].LastMealTime = sim.VTime(100 * time.Millisecond)

		victim, starvedFor, found := monitor.Check(
			sim.VTime(150*time.Millisecond), philosophers)

		Expect(found).To(BeTrue())
		Expect(victim.ID).To(Equal(1))
		Expect(starvedFor).To(Equal(150 * time.Millisecond))
	})

	It("should skip eating and dead philosophers", func() {
		philosophers[0].phase = Eating{Remaining: time.Second}
		philosophers[1].phase = Dead{}

		victim, _, found := monitor.Check(
			sim.VTime(time.Second), philosophers)

		Expect(found).To(BeTrue())
		Expect(victim.ID).To(Equal(2))
	})

	It("should tell when every philosopher ate enough", func() {
		Expect(AllFed(philosophers, 0)).To(BeFalse())
		Expect(AllFed(philosophers, 1)).To(BeFalse())

		for _, p := range philosophers {
			p.EatCount = 2
		}
		philosophers[2].EatCount = 1

		Expect(AllFed(philosophers, 1)).To(BeTrue())
		Expect(AllFed(philosophers, 2)).To(BeFalse())
	})
})
