package dining

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ForkPool", func() {
	var pool *ForkPool

	BeforeEach(func() {
		pool = NewForkPool(3)
	})

	It("should place forks around the ring", func() {
		Expect(LeftOf(0, 3)).To(Equal(0))
		Expect(RightOf(0, 3)).To(Equal(1))
		Expect(LeftOf(2, 3)).To(Equal(2))
		Expect(RightOf(2, 3)).To(Equal(0))
	})

	It("should hand out both forks when both are free", func() {
		Expect(pool.TryAcquireBoth(0, 1, 0)).To(BeTrue())

		Expect(pool.Fork(0)).To(Equal(Fork{ID: 0, Owner: 0, Held: true}))
		Expect(pool.Fork(1)).To(Equal(Fork{ID: 1, Owner: 0, Held: true}))
		Expect(pool.Fork(2).Held).To(BeFalse())
	})

	It("should change nothing when one fork is taken", func() {
		pool.TryAcquireBoth(0, 1, 0)

		Expect(pool.TryAcquireBoth(1, 2, 1)).To(BeFalse())

		Expect(pool.Fork(1).Owner).To(Equal(0))
		Expect(pool.Fork(2).Held).To(BeFalse())
	})

	It("should free both forks on release", func() {
		pool.TryAcquireBoth(2, 0, 2)

		pool.ReleaseBoth(2, 0, 2)

		Expect(pool.Fork(0).Held).To(BeFalse())
		Expect(pool.Fork(2).Held).To(BeFalse())
		Expect(pool.TryAcquireBoth(0, 1, 0)).To(BeTrue())
	})

	It("should panic when releasing forks that are not held", func() {
		Expect(func() { pool.ReleaseBoth(0, 1, 0) }).To(Panic())
	})

	It("should panic when releasing a neighbour's forks", func() {
		pool.TryAcquireBoth(0, 1, 0)

		Expect(func() { pool.ReleaseBoth(1, 2, 1) }).To(Panic())
	})

	It("should panic when taking forks of another philosopher", func() {
		Expect(func() { pool.TryAcquireBoth(1, 2, 0) }).To(Panic())
	})

	It("should snapshot owners", func() {
		pool.TryAcquireBoth(1, 2, 1)

		snapshot := pool.Snapshot()

		Expect(snapshot).To(HaveLen(3))
		Expect(snapshot[0].OwnerID).To(BeNil())
		Expect(*snapshot[1].OwnerID).To(Equal(1))
		Expect(*snapshot[2].OwnerID).To(Equal(1))
	})
})
