package tracing

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/diningsim/dining"
	"github.com/sarchlab/diningsim/sim"
)

func tickReport(tick uint64, ms int, states ...dining.State) sim.HookCtx {
	r := dining.TickReport{
		Time:  sim.VTime(time.Duration(ms) * time.Millisecond),
		Ticks: tick,
	}
	for id, s := range states {
		r.Philosophers = append(r.Philosophers,
			dining.PhilosopherSnapshot{ID: id, State: s})
	}

	return sim.HookCtx{Pos: sim.HookPosAfterTick, Item: r}
}

var _ = Describe("WaitTimeTracer", func() {
	const (
		hungry   = dining.StateHungry
		eating   = dining.StateEating
		thinking = dining.StateThinking
		dead     = dining.StateDead
	)

	var tracer *WaitTimeTracer

	BeforeEach(func() {
		tracer = NewWaitTimeTracer()
	})

	It("should measure the time from hungry to eating", func() {
		tracer.Func(tickReport(1, 50, hungry, hungry))
		tracer.Func(tickReport(2, 100, eating, hungry))
		tracer.Func(tickReport(3, 150, eating, hungry))
		tracer.Func(tickReport(4, 200, thinking, eating))

		Expect(tracer.TotalCount()).To(Equal(uint64(2)))
		Expect(tracer.AverageWait()).To(Equal(100 * time.Millisecond))
		Expect(tracer.LongestWait()).To(Equal(150 * time.Millisecond))
	})

	It("should ignore other hook positions", func() {
		ctx := tickReport(1, 50, hungry)
		ctx.Pos = sim.HookPosBeforeTick
		tracer.Func(ctx)
		tracer.Func(tickReport(2, 100, eating))

		Expect(tracer.TotalCount()).To(BeZero())
	})

	It("should drop the wait of a philosopher that died", func() {
		tracer.Func(tickReport(1, 50, hungry))
		tracer.Func(tickReport(2, 100, dead))
		tracer.Func(tickReport(2, 100, eating))

		Expect(tracer.TotalCount()).To(BeZero())
	})

	It("should forget waits when the table is reset", func() {
		tracer.Func(tickReport(1, 50, hungry))
		tracer.Func(tickReport(8, 400, hungry))
		tracer.Func(tickReport(1, 50, hungry))
		tracer.Func(tickReport(2, 100, eating))

		Expect(tracer.TotalCount()).To(Equal(uint64(1)))
		Expect(tracer.AverageWait()).To(Equal(50 * time.Millisecond))
	})

	It("should forget waits when the new run starts at a later time", func() {
		tracer.Func(tickReport(1, 50, hungry, hungry))
		tracer.Func(tickReport(1, 100, hungry, hungry))
		tracer.Func(tickReport(2, 200, eating, hungry))

		Expect(tracer.TotalCount()).To(Equal(uint64(1)))
		Expect(tracer.AverageWait()).To(Equal(100 * time.Millisecond))
		Expect(tracer.LongestWait()).To(Equal(100 * time.Millisecond))
	})
})
