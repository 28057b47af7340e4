package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("RingBuffer", func() {
	var (
		mockCtrl *gomock.Controller
		buf      *RingBuffer[int]
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		buf = NewRingBuffer[int]("Buf", 3)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should refuse a non-positive capacity", func() {
		Expect(func() { NewRingBuffer[int]("Buf", 0) }).To(Panic())
	})

	It("should allow push and peek", func() {
		Expect(buf.Name()).To(Equal("Buf"))
		Expect(buf.Capacity()).To(Equal(3))

		_, ok := buf.Peek()
		Expect(ok).To(BeFalse())

		buf.Push(1)
		buf.Push(2)

		Expect(buf.Size()).To(Equal(2))
		first, _ := buf.Peek()
		Expect(first).To(Equal(1))
		last, _ := buf.Last()
		Expect(last).To(Equal(2))
		Expect(buf.Elements()).To(Equal([]int{1, 2}))
	})

	It("should evict the oldest element when full", func() {
		for i := 1; i <= 3; i++ {
			_, evicted := buf.Push(i)
			Expect(evicted).To(BeFalse())
		}

		old, evicted := buf.Push(4)
		Expect(evicted).To(BeTrue())
		Expect(old).To(Equal(1))

		buf.Push(5)

		Expect(buf.Size()).To(Equal(3))
		Expect(buf.Elements()).To(Equal([]int{3, 4, 5}))
	})

	It("should clear", func() {
		buf.Push(2)
		buf.Push(3)

		buf.Clear()

		Expect(buf.Size()).To(Equal(0))
		Expect(buf.Elements()).To(BeEmpty())

		buf.Push(7)
		Expect(buf.Elements()).To(Equal([]int{7}))
	})

	It("should invoke hooks on push and evict", func() {
		buf.Push(1)
		buf.Push(2)
		buf.Push(3)

		hook := NewMockHook(mockCtrl)
		buf.AcceptHook(hook)

		gomock.InOrder(
			hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
				Expect(ctx.Pos).To(Equal(HookPosBufEvict))
				Expect(ctx.Item).To(Equal(1))
			}),
			hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
				Expect(ctx.Pos).To(Equal(HookPosBufPush))
				Expect(ctx.Item).To(Equal(4))
			}),
		)

		buf.Push(4)
	})
})
