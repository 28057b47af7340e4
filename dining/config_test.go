package dining

import (
	"errors"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	It("should accept the default config", func() {
		Expect(DefaultConfig().Validate()).To(Succeed())
	})

	DescribeTable("should reject unusable values",
		func(mutate func(c *Config)) {
			c := DefaultConfig()
			mutate(&c)

			err := c.Validate()

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrInvalidConfig)).To(BeTrue())
		},
		Entry("one philosopher", func(c *Config) { c.PhilosopherCount = 1 }),
		Entry("zero time to die", func(c *Config) { c.TimeToDie = 0 }),
		Entry("zero time to eat", func(c *Config) { c.TimeToEat = 0 }),
		Entry("negative sleep", func(c *Config) { c.TimeToSleep = -1 }),
		Entry("negative think", func(c *Config) { c.ThinkDelay = -1 }),
		Entry("zero quantum", func(c *Config) { c.Quantum = 0 }),
		Entry("zero speed", func(c *Config) { c.SpeedFactor = 0 }),
		Entry("NaN speed", func(c *Config) { c.SpeedFactor = math.NaN() }),
		Entry("infinite speed", func(c *Config) { c.SpeedFactor = math.Inf(1) }),
		Entry("negative meals", func(c *Config) { c.MealsRequired = -1 }),
		Entry("empty event log", func(c *Config) { c.EventLogCapacity = 0 }),
		Entry("vanishing advance", func(c *Config) {
			c.Quantum = time.Nanosecond
			c.SpeedFactor = 0.1
		}),
	)

	It("should allow zero sleep and think delays", func() {
		c := DefaultConfig()
		c.TimeToSleep = 0
		c.ThinkDelay = 0

		Expect(c.Validate()).To(Succeed())
	})

	It("should scale the quantum by the speed factor", func() {
		c := DefaultConfig()
		Expect(c.Advance()).To(Equal(50 * time.Millisecond))

		c.SpeedFactor = 2
		Expect(c.Advance()).To(Equal(100 * time.Millisecond))

		c.SpeedFactor = 0.5
		Expect(c.Advance()).To(Equal(25 * time.Millisecond))
	})

	It("should apply only the set fields of an update", func() {
		die := 300 * time.Millisecond
		speed := 4.0

		c := DefaultConfig().Apply(ConfigUpdate{
			TimeToDie:   &die,
			SpeedFactor: &speed,
		})

		expected := DefaultConfig()
		expected.TimeToDie = die
		expected.SpeedFactor = speed
		Expect(c).To(Equal(expected))
	})

	It("should tell when an update resizes the table", func() {
		five, seven := 5, 7
		c := DefaultConfig()

		Expect(ConfigUpdate{}.ResizesTable(c)).To(BeFalse())
		Expect(ConfigUpdate{PhilosopherCount: &five}.ResizesTable(c)).
			To(BeFalse())
		Expect(ConfigUpdate{PhilosopherCount: &seven}.ResizesTable(c)).
			To(BeTrue())
	})
})
