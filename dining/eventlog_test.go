package dining

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/diningsim/sim"
)

var _ = Describe("EventLog", func() {
	var l *EventLog

	BeforeEach(func() {
		l = NewEventLog(3)
	})

	appendN := func(n int) {
		for i := 0; i < n; i++ {
			l.Append(sim.VTime(i), i, EventStartedThinking, "is thinking")
		}
	}

	It("should number events from 1", func() {
		e := l.Append(sim.VTime(time.Millisecond), 2, EventDied, "x")

		Expect(e.SequenceID).To(Equal(uint64(1)))
		Expect(l.LastSequenceID()).To(Equal(uint64(1)))
		Expect(e.String()).To(Equal("1ms, P2 DIED x"))
	})

	It("should evict the oldest events", func() {
		appendN(5)

		Expect(l.Len()).To(Equal(3))
		Expect(l.Capacity()).To(Equal(3))

		ids := []uint64{}
		for _, e := range l.Events() {
			ids = append(ids, e.SequenceID)
		}
		Expect(ids).To(Equal([]uint64{3, 4, 5}))
	})

	It("should restart numbering after clear and keep hooks", func() {
		pushed := 0
		l.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			if ctx.Pos == sim.HookPosBufPush {
				pushed++
			}
		}))
		appendN(2)

		l.Clear()
		e := l.Append(0, 0, EventTookFork, "took fork 0")

		Expect(l.Len()).To(Equal(1))
		Expect(e.SequenceID).To(Equal(uint64(1)))
		Expect(pushed).To(Equal(3))
	})

	It("should report pushes and evictions to hooks", func() {
		var positions []*sim.HookPos
		var domains []sim.Hookable
		l.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
			positions = append(positions, ctx.Pos)
			domains = append(domains, ctx.Domain)
		}))

		appendN(4)

		Expect(positions).To(Equal([]*sim.HookPos{
			sim.HookPosBufPush,
			sim.HookPosBufPush,
			sim.HookPosBufPush,
			sim.HookPosBufEvict,
			sim.HookPosBufPush,
		}))
		for _, d := range domains {
			Expect(d).To(BeIdenticalTo(l))
		}
	})

	It("should keep the newest events when shrinking", func() {
		appendN(3)

		l.Resize(2)

		Expect(l.Capacity()).To(Equal(2))
		Expect(l.Events()[0].SequenceID).To(Equal(uint64(2)))
		Expect(l.Events()[1].SequenceID).To(Equal(uint64(3)))

		e := l.Append(0, 0, EventTookFork, "took fork 0")
		Expect(e.SequenceID).To(Equal(uint64(4)))
	})
})
