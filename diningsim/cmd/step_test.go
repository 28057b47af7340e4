package cmd

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/diningsim/dining"
	"github.com/sarchlab/diningsim/simulation"
)

var _ = Describe("Stepping", func() {
	var s *simulation.Simulation

	BeforeEach(func() {
		cfg := dining.DefaultConfig()
		cfg.PhilosopherCount = 2
		cfg.TimeToDie = 100 * time.Millisecond
		cfg.TimeToEat = 200 * time.Millisecond

		var err error
		s, err = simulation.MakeBuilder().
			WithConfig(cfg).
			WithStepMode().
			Build()
		Expect(err).NotTo(HaveOccurred())

		DeferCleanup(s.Terminate)
	})

	It("should stop after the given number of steps", func() {
		taken, err := takeSteps(s, 2)

		Expect(err).NotTo(HaveOccurred())
		Expect(taken).To(Equal(2))
		Expect(s.Snapshot().Dead).To(BeFalse())
	})

	It("should step until the table halts", func() {
		taken, err := takeSteps(s, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(taken).To(Equal(3))
		Expect(s.Snapshot().Dead).To(BeTrue())
	})

	It("should take a single step on a halted table", func() {
		_, err := takeSteps(s, 0)
		Expect(err).NotTo(HaveOccurred())

		taken, err := takeSteps(s, 0)

		Expect(err).NotTo(HaveOccurred())
		Expect(taken).To(Equal(1))
	})

	It("should report steps outside step mode", func() {
		s.SetStepMode(false)

		_, err := takeSteps(s, 1)

		Expect(err).To(MatchError(simulation.ErrNotStepMode))
	})
})
